package notification

import (
	"context"
	"fmt"

	"clinicbook/config"
	"clinicbook/models"
	"clinicbook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DefaultNotificationService queues confirmations for the background
// worker; delivery itself happens there so a slow queue never blocks the
// booking flow's success path for long.
type DefaultNotificationService struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewDefaultNotificationService(logger *zap.Logger) *DefaultNotificationService {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	})
	return &DefaultNotificationService{client: client, logger: logger}
}

// NotifyBookingConfirmed enqueues a confirmation:send task.
func (s *DefaultNotificationService) NotifyBookingConfirmed(ctx context.Context, confirmation models.BookingConfirmation) error {
	task, opts, err := tasks.NewConfirmationTask(confirmation)
	if err != nil {
		return fmt.Errorf("build confirmation task: %w", err)
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue confirmation task: %w", err)
	}
	s.logger.Debug("confirmation task enqueued",
		zap.String("taskID", info.ID),
		zap.String("userID", confirmation.UserID))
	return nil
}

// Close releases the underlying queue connection.
func (s *DefaultNotificationService) Close() error {
	return s.client.Close()
}
