package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"clinicbook/models"

	"go.uber.org/zap"
)

// flexID decodes both a JSON number and any JSON string to its textual
// form. The backend reports database ids as numbers but gateway references
// (e.g. "pay_...") as strings, sometimes within the same payload.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %s", string(data))
	}
	*f = flexID(n.String())
	return nil
}

// bookResponse tolerates the backend's loose typing: ids may arrive as
// numbers or strings, and the expiry as epoch millis or an ISO timestamp.
type bookResponse struct {
	AppointmentRequestID flexID          `json:"appointment_request_id"`
	PaymentID            flexID          `json:"payment_id"`
	CheckoutURL          string          `json:"checkout_url"`
	ReservationExpiresAt json.RawMessage `json:"reservation_expires_at"`
}

// BookAppointment creates a server-side reservation with an expiry. This is
// the single submission per booking attempt; it is never retried here.
func (g *HTTPGateway) BookAppointment(ctx context.Context, token string, req models.BookingRequest) (*models.ReservationState, error) {
	var resp bookResponse
	if err := g.doJSON(ctx, token, http.MethodPost, "/appointments/book/", req, &resp); err != nil {
		return nil, err
	}

	state := &models.ReservationState{
		AppointmentRequestID: string(resp.AppointmentRequestID),
		PaymentID:            string(resp.PaymentID),
		CheckoutURL:          resp.CheckoutURL,
	}
	if state.AppointmentRequestID == "" {
		return nil, fmt.Errorf("booking response missing appointment_request_id")
	}

	expiresAt, err := parseExpiry(resp.ReservationExpiresAt)
	if err != nil {
		g.logger.Warn("booking response carried unparseable expiry",
			zap.String("appointmentRequestID", state.AppointmentRequestID),
			zap.Error(err))
	} else {
		state.ReservationExpiresAt = expiresAt
	}
	return state, nil
}

// parseExpiry accepts epoch milliseconds or an RFC3339 timestamp.
func parseExpiry(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 {
		return time.Time{}, fmt.Errorf("missing reservation_expires_at")
	}
	var millis int64
	if err := json.Unmarshal(raw, &millis); err == nil {
		return time.UnixMilli(millis), nil
	}
	var iso string
	if err := json.Unmarshal(raw, &iso); err != nil {
		return time.Time{}, fmt.Errorf("unrecognized expiry format %s", string(raw))
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse expiry %q: %w", iso, err)
	}
	return t, nil
}

// CancelAppointmentRequest asks the backend to release a reservation.
// Callers treat this as best-effort.
func (g *HTTPGateway) CancelAppointmentRequest(ctx context.Context, token, appointmentRequestID string) error {
	path := "/appointment-requests/" + pathEscape(appointmentRequestID) + "/cancel/"
	return g.doJSON(ctx, token, http.MethodPost, path, nil, nil)
}

// UploadGCashProof submits the patient's payment proof for staff review.
func (g *HTTPGateway) UploadGCashProof(ctx context.Context, token, appointmentRequestID, filename string, proof io.Reader) error {
	path := "/appointments/" + pathEscape(appointmentRequestID) + "/upload-gcash/"
	return g.postMultipart(ctx, token, path, "gcash_proof", filename, proof)
}
