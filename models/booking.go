package models

import "time"

// BookingRequest is the payload sent once per booking submission.
type BookingRequest struct {
	DoctorID        string `json:"doctor_id"`
	AppointmentDate string `json:"appointment_date"`
	Notes           string `json:"notes"`
	PaymentMethod   string `json:"payment_method"`
}

// ReservationState is what the backend hands back after a successful
// booking POST. The reservation is authoritative server-side; this is the
// client-held copy for the lifetime of one booking attempt.
type ReservationState struct {
	AppointmentRequestID string    `json:"appointment_request_id"`
	PaymentID            string    `json:"payment_id,omitempty"`
	CheckoutURL          string    `json:"checkout_url,omitempty"`
	ReservationExpiresAt time.Time `json:"reservation_expires_at"`
}

// SecondsLeft returns the whole seconds remaining before the reservation
// expires, floored at zero.
func (r ReservationState) SecondsLeft(now time.Time) int {
	d := r.ReservationExpiresAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d / time.Second)
}

// FlowSnapshot is the externally visible state of one booking flow session.
type FlowSnapshot struct {
	SessionID       string `json:"session_id"`
	Step            string `json:"step"`
	DoctorID        string `json:"doctor_id"`
	SlotDate        string `json:"slot_date,omitempty"`
	SlotStart       string `json:"slot_start,omitempty"`
	PaymentMethod   string `json:"payment_method,omitempty"`
	CheckoutURL     string `json:"checkout_url,omitempty"`
	SecondsLeft     int    `json:"seconds_left"`
	ConsultationFee int    `json:"consultation_fee"`
	LastError       string `json:"last_error,omitempty"`
}
