package booking

import (
	"context"
	"io"
	"time"

	"clinicbook/models"
)

// BookingFlowService drives the appointment booking and payment reservation
// flow: one stateful session per booking attempt, from slot selection to a
// terminal outcome.
type BookingFlowService interface {
	// StartSession opens a flow session for one doctor, loading and
	// normalizing the doctor's schedule. A user with a live reservation in
	// another session cannot start a second one.
	StartSession(ctx context.Context, token, userID, doctorID string) (*FlowSession, error)
	// RefreshSchedule refetches the doctor's schedule. On failure the
	// previously loaded schedule is kept untouched.
	RefreshSchedule(ctx context.Context, sessionID string) error
	// Schedule returns the session's normalized schedule.
	Schedule(sessionID string) (*models.DoctorSchedule, error)
	// SelectSlot picks a slot by date key and exact start time.
	SelectSlot(sessionID, dateKey string, start time.Time) error
	// ConfirmPayment submits the booking with the chosen payment method,
	// creating the server-side reservation, and enters the method's
	// sub-flow (redirect or proof upload).
	ConfirmPayment(ctx context.Context, sessionID string, method models.PaymentMethod, notes string) (models.FlowSnapshot, error)
	// OpenedCheckout records that the user opened the external checkout
	// link and starts the payment status poller.
	OpenedCheckout(sessionID string) error
	// CheckPaymentNow performs one immediate status check.
	CheckPaymentNow(ctx context.Context, sessionID string) (models.PaymentStatus, error)
	// UploadProof validates and submits a GCash payment proof.
	UploadProof(ctx context.Context, sessionID, filename, contentType string, size int64, proof io.Reader) error
	// CancelSession stops the flow: best-effort server-side cancellation of
	// any held reservation, then unconditional local cleanup.
	CancelSession(ctx context.Context, sessionID string) error
	// Retry re-enters the flow from the form after an error.
	Retry(sessionID string) error
	// Snapshot returns the session's externally visible state.
	Snapshot(sessionID string) (models.FlowSnapshot, error)
}
