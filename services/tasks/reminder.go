package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carwash/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeWashReminder = "wash:reminder"

// WashReminderPayload identifies one scheduled wash of a schedule.
type WashReminderPayload struct {
	ScheduleID string    `json:"scheduleId"`
	UserID     string    `json:"userId"`
	Package    string    `json:"scheduledPackage"`
	Position   int       `json:"position"`
	DateTime   time.Time `json:"dateTime"`
}

// NewWashReminderTask builds a task processed at fireAt. The task id is derived from
// the schedule and the date position so re-enqueueing the same wash is a no-op.
func NewWashReminderTask(payload WashReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeWashReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(fmt.Sprintf("%s:%d", payload.ScheduleID, payload.Position)),
		asynq.MaxRetry(3),
	}

	return task, opts, nil
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqReminderScheduler enqueues one reminder per scheduled wash, Lead before it.
type AsynqReminderScheduler struct {
	Queue  Enqueuer
	Lead   time.Duration
	Logger *zap.Logger
	Now    func() time.Time
}

func NewReminderScheduler(queue Enqueuer, lead time.Duration, logger *zap.Logger) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{Queue: queue, Lead: lead, Logger: logger, Now: time.Now}
}

// ScheduleReminders skips washes that already started. A reminder whose lead time has
// passed fires immediately.
func (s *AsynqReminderScheduler) ScheduleReminders(ctx context.Context, schedule models.Schedule) error {
	now := s.Now()
	var errs []error
	queued := 0
	for _, d := range schedule.Dates {
		if !d.DateTime.After(now) {
			continue
		}
		fireAt := d.DateTime.Add(-s.Lead)
		if fireAt.Before(now) {
			fireAt = now
		}
		task, opts, err := NewWashReminderTask(WashReminderPayload{
			ScheduleID: schedule.ID,
			UserID:     schedule.UserID,
			Package:    schedule.PackageName,
			Position:   d.Position,
			DateTime:   d.DateTime,
		}, fireAt)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := s.Queue.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
			errs = append(errs, fmt.Errorf("enqueue reminder %d: %w", d.Position, err))
			continue
		}
		queued++
	}
	s.Logger.Debug("Wash reminders queued", zap.String("scheduleID", schedule.ID), zap.Int("count", queued))
	return errors.Join(errs...)
}
