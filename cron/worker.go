package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"clinicbook/config"
	"clinicbook/models"
	"clinicbook/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitConfirmationWorker runs the async confirmation worker in background.
func InitConfirmationWorker() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendConfirmation, handleConfirmationTask)

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ConfirmationWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ConfirmationWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ConfirmationWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleConfirmationTask(ctx context.Context, task *asynq.Task) error {
	var p models.BookingConfirmation
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		log.Printf("[ConfirmationHandler] Invalid payload: %v", err)
		return err
	}

	// Delivery transport (email/SMS) is the clinic backend's concern; the
	// worker records the confirmation so it survives flow teardown.
	log.Printf("[ConfirmationHandler] Booking confirmed for patient %s with doctor %s at %s (request %s, paid via %s)",
		p.UserID, p.DoctorID, p.SlotStart, p.AppointmentRequestID, p.PaymentMethod)
	return nil
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ConfirmationWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
