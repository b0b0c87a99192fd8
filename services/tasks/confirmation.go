package tasks

import (
	"encoding/json"

	"clinicbook/models"

	"github.com/hibiken/asynq"
)

const TypeSendConfirmation = "confirmation:send"

// NewConfirmationTask wraps a booking confirmation into an asynq task.
func NewConfirmationTask(payload models.BookingConfirmation) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendConfirmation, b)
	opts := []asynq.Option{asynq.MaxRetry(3)}

	return task, opts, nil
}
