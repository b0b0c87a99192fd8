package gateway

import (
	"context"
	"net/http"

	"clinicbook/models"
)

// PaymentStatus fetches and normalizes the current payment status. The raw
// status string is returned alongside for logging vocabulary drift; the
// backend reports it as payment_status with status as a fallback.
func (g *HTTPGateway) PaymentStatus(ctx context.Context, token, paymentID string) (models.PaymentStatus, string, error) {
	var payload struct {
		PaymentStatus string `json:"payment_status"`
		Status        string `json:"status"`
	}
	path := "/payments/status/" + pathEscape(paymentID) + "/"
	if err := g.doJSON(ctx, token, http.MethodGet, path, nil, &payload); err != nil {
		return models.StatusUnknown, "", err
	}

	raw := payload.PaymentStatus
	if raw == "" {
		raw = payload.Status
	}
	return models.NormalizePaymentStatus(raw), raw, nil
}
