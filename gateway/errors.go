package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoToken is returned before any request is attempted when the caller
// holds no bearer token.
var ErrNoToken = errors.New("authentication required: no access token")

// GatewayErrorKind classifies payment-gateway failures embedded in the
// backend's error payload for user guidance.
type GatewayErrorKind string

const (
	KindAuth        GatewayErrorKind = "auth"
	KindDeclined    GatewayErrorKind = "declined"
	KindUnavailable GatewayErrorKind = "service_unavailable"
	KindGeneric     GatewayErrorKind = "generic"
)

// APIError is a non-2xx response from the clinic backend. Details, when the
// backend embedded a nested gateway payload, is already unwrapped.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
	Kind       GatewayErrorKind
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("clinic backend: %s (%s)", e.Message, e.Details)
	}
	return fmt.Sprintf("clinic backend: %s", e.Message)
}

// UserMessage renders the error the way it should be shown to the patient.
func (e *APIError) UserMessage() string {
	switch e.Kind {
	case KindAuth:
		return "Payment gateway authentication failed. Please check payment configuration."
	case KindDeclined:
		return "Payment declined. Please check your card details."
	case KindUnavailable:
		return "Payment service temporarily unavailable. Please try again later."
	}
	if e.Details != "" {
		return e.Details
	}
	return e.Message
}

// newAPIError builds an APIError from a non-2xx response body. The backend
// reports errors as {error, details}; when details itself holds a JSON
// payload from the payment gateway it is unwrapped and shown verbatim.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("request failed with status %d", status),
		Kind:       classify(status),
	}

	var payload struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	if payload.Error != "" {
		apiErr.Message = payload.Error
	}
	if payload.Details != "" {
		apiErr.Details = unwrapDetails(payload.Details)
	}
	return apiErr
}

// unwrapDetails pulls the inner error message out of a nested gateway
// payload, falling back to the raw details string.
func unwrapDetails(details string) string {
	var nested struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(details), &nested); err == nil && nested.Error != "" {
		return nested.Error
	}
	return details
}

func classify(status int) GatewayErrorKind {
	switch {
	case status == 401:
		return KindAuth
	case status == 402:
		return KindDeclined
	case status >= 500:
		return KindUnavailable
	}
	return KindGeneric
}

// IsGatewayError reports whether err is an APIError and returns it.
func IsGatewayError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// UserFacing converts any gateway error into a single human-readable line.
func UserFacing(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := IsGatewayError(err); ok {
		return apiErr.UserMessage()
	}
	if errors.Is(err, ErrNoToken) {
		return "Authentication required. Please log in."
	}
	msg := err.Error()
	if msg == "" {
		return "Something went wrong. Please try again."
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
