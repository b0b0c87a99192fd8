package models

// BookingConfirmation is the payload queued for the confirmation worker
// once a booking reaches terminal success.
type BookingConfirmation struct {
	UserID               string `json:"user_id"`
	DoctorID             string `json:"doctor_id"`
	AppointmentRequestID string `json:"appointment_request_id"`
	SlotStart            string `json:"slot_start"`
	PaymentMethod        string `json:"payment_method"`
}
