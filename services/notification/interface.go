package notification

import (
	"context"

	"clinicbook/models"
)

// NotificationService delivers booking-lifecycle notices to patients.
type NotificationService interface {
	NotifyBookingConfirmed(ctx context.Context, confirmation models.BookingConfirmation) error
}
