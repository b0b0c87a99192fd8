package gateway

import (
	"context"
	"io"

	"clinicbook/models"
)

// ClinicGateway is the boundary to the external clinic REST backend. All
// authoritative state (reservations, payments, queueing) lives behind it;
// this service only orchestrates. Every call carries the caller's bearer
// token, which the backend uses to resolve the authenticated patient.
type ClinicGateway interface {
	ListDoctors(ctx context.Context, token string) ([]models.Doctor, error)
	CurrentProfile(ctx context.Context, token string) (*models.PatientProfile, error)
	FetchDoctorSchedule(ctx context.Context, token, doctorID string) (*models.ScheduleResponse, error)
	BookAppointment(ctx context.Context, token string, req models.BookingRequest) (*models.ReservationState, error)
	PaymentStatus(ctx context.Context, token, paymentID string) (models.PaymentStatus, string, error)
	CancelAppointmentRequest(ctx context.Context, token, appointmentRequestID string) error
	UploadGCashProof(ctx context.Context, token, appointmentRequestID, filename string, proof io.Reader) error
}
