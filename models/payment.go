package models

import "strings"

// PaymentMethod selects which payment sub-flow a booking takes.
type PaymentMethod string

const (
	MethodPayMaya PaymentMethod = "PayMaya"
	MethodGCash   PaymentMethod = "Gcash"
)

// ParsePaymentMethod accepts the method names the frontend sends,
// case-insensitively.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paymaya":
		return MethodPayMaya, true
	case "gcash":
		return MethodGCash, true
	}
	return "", false
}

// PaymentStatus is the normalized form of the backend's status vocabulary.
type PaymentStatus string

const (
	StatusPaid       PaymentStatus = "paid"
	StatusPending    PaymentStatus = "pending"
	StatusProcessing PaymentStatus = "processing"
	StatusFailed     PaymentStatus = "failed"
	StatusExpired    PaymentStatus = "expired"
	StatusCancelled  PaymentStatus = "cancelled"
	StatusUnknown    PaymentStatus = "unknown"
)

// NormalizePaymentStatus maps the backend's raw status strings onto the
// fixed vocabulary. Words outside the known set map to StatusUnknown;
// the poller keeps going on those to tolerate backend wording drift.
func NormalizePaymentStatus(raw string) PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "paid", "success", "completed":
		return StatusPaid
	case "pending":
		return StatusPending
	case "processing":
		return StatusProcessing
	case "failed":
		return StatusFailed
	case "expired":
		return StatusExpired
	case "cancelled", "canceled":
		return StatusCancelled
	}
	return StatusUnknown
}

// TerminalSuccess reports whether the status ends the flow successfully.
func (s PaymentStatus) TerminalSuccess() bool {
	return s == StatusPaid
}

// TerminalFailure reports whether the status ends the flow with a failure.
func (s PaymentStatus) TerminalFailure() bool {
	return s == StatusFailed || s == StatusExpired || s == StatusCancelled
}
