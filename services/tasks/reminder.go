package tasks

import (
	"encoding/json"
	"time"

	"afrimobile/config"
	"afrimobile/models"

	"github.com/hibiken/asynq"
)

const TypeKYCReminder = "kyc:reminder"

// NewKYCReminderTask builds the asynq task for a pending-verification nudge.
func NewKYCReminderTask(payload models.KYCReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeKYCReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// AsynqReminderScheduler enqueues reminder tasks on the redis-backed queue.
type AsynqReminderScheduler struct {
	Client *asynq.Client
}

// NewAsynqReminderScheduler connects a task client to the reminder queue DB.
func NewAsynqReminderScheduler() *AsynqReminderScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	return &AsynqReminderScheduler{Client: client}
}

// Schedule enqueues one reminder to fire at the given time.
func (s *AsynqReminderScheduler) Schedule(payload models.KYCReminderPayload, fireAt time.Time) error {
	task, opts, err := NewKYCReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	_, err = s.Client.Enqueue(task, opts...)
	return err
}
