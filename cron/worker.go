package cron

import (
	"context"
	"encoding/json"
	"fmt"

	userRepo "carwash/database/repository/user"
	"carwash/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderWorker processes wash reminder tasks from the Redis queue.
type ReminderWorker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewReminderWorker(redisOpts asynq.RedisClientOpt, users userRepo.UserRepository, logger *zap.Logger) *ReminderWorker {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeWashReminder, HandleWashReminder(users, logger))

	return &ReminderWorker{server: srv, mux: mux}
}

// Start runs the worker in the background.
func (w *ReminderWorker) Start() error {
	return w.server.Start(w.mux)
}

func (w *ReminderWorker) Shutdown() {
	w.server.Shutdown()
}

// HandleWashReminder delivers a reminder to the log. Reminders for deleted users are
// dropped.
func HandleWashReminder(users userRepo.UserRepository, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.WashReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid wash reminder payload", zap.Error(err))
			return fmt.Errorf("decode reminder: %v: %w", err, asynq.SkipRetry)
		}

		u, err := users.GetByID(ctx, p.UserID)
		if err != nil {
			return err
		}
		if u == nil {
			logger.Warn("Wash reminder for unknown user dropped",
				zap.String("userID", p.UserID), zap.String("scheduleID", p.ScheduleID))
			return nil
		}

		logger.Info("Wash reminder due",
			zap.String("userID", u.ID),
			zap.String("email", u.Email),
			zap.String("phoneNumber", u.PhoneNumber),
			zap.String("scheduleID", p.ScheduleID),
			zap.String("scheduledPackage", p.Package),
			zap.Time("dateTime", p.DateTime))
		return nil
	}
}
