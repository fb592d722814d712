package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"afrimobile/config"
	userRepo "afrimobile/database/repository/user"
	"afrimobile/models"
	"afrimobile/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitKYCReminderWorker runs the async reminder worker in background. A
// reminder fires shortly before a verification link expires; users who
// verified in the meantime are skipped.
func InitKYCReminderWorker(repo userRepo.UserRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
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
	mux.HandleFunc(tasks.TypeKYCReminder, handleKYCReminderTask(repo))

	go func() {
		log.Println("[KYCReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[KYCReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[KYCReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleKYCReminderTask(repo userRepo.UserRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := zap.L()

		var p models.KYCReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid kyc reminder payload", zap.Error(err))
			return err
		}

		usr, err := repo.GetByID(p.UserID)
		if err != nil {
			logger.Error("Failed to load user for kyc reminder", zap.String("userId", p.UserID), zap.Error(err))
			return err
		}
		if usr == nil || usr.KYCStatus == models.KYCStatusVerified {
			// Nothing to nudge.
			return nil
		}

		logger.Info("KYC verification still outstanding",
			zap.String("userId", p.UserID),
			zap.String("linkId", p.LinkID),
			zap.Time("linkExpiresAt", p.ExpiresAt))

		if err := repo.TouchKYCReminder(p.UserID, time.Now()); err != nil {
			logger.Warn("Failed to stamp kyc reminder", zap.String("userId", p.UserID), zap.Error(err))
		}
		return nil
	}
}
