package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"carwash/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type enqueued struct {
	task *asynq.Task
	opts []asynq.Option
}

type fakeQueue struct {
	tasks []enqueued
	err   error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, enqueued{task: task, opts: opts})
	return &asynq.TaskInfo{}, nil
}

func optionValue(opts []asynq.Option, typ asynq.OptionType) any {
	for _, o := range opts {
		if o.Type() == typ {
			return o.Value()
		}
	}
	return nil
}

func TestScheduleReminders(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	schedule := models.Schedule{
		ID:          "sched-1",
		UserID:      "user-1",
		PackageName: "30 Days - 4 Washes",
		Dates: []models.ScheduledDate{
			{Position: 0, DateTime: now.Add(-time.Hour)},
			{Position: 1, DateTime: now.Add(30 * time.Minute)},
			{Position: 2, DateTime: now.Add(48 * time.Hour)},
		},
	}

	t.Run("OnePerUpcomingWash", func(t *testing.T) {
		q := &fakeQueue{}
		s := NewReminderScheduler(q, 2*time.Hour, zap.NewNop())
		s.Now = func() time.Time { return now }

		if err := s.ScheduleReminders(context.Background(), schedule); err != nil {
			t.Fatalf("ScheduleReminders failed: %v", err)
		}
		if len(q.tasks) != 2 {
			t.Fatalf("Expected 2 reminders, got %d", len(q.tasks))
		}

		first := q.tasks[0]
		if first.task.Type() != TypeWashReminder {
			t.Errorf("Expected type %s, got %s", TypeWashReminder, first.task.Type())
		}
		if at, _ := optionValue(first.opts, asynq.ProcessAtOpt).(time.Time); !at.Equal(now) {
			t.Errorf("Expected an overdue reminder to fire now, got %v", at)
		}
		if id, _ := optionValue(first.opts, asynq.TaskIDOpt).(string); id != "sched-1:1" {
			t.Errorf("Expected task id sched-1:1, got %q", id)
		}

		var p WashReminderPayload
		if err := json.Unmarshal(q.tasks[1].task.Payload(), &p); err != nil {
			t.Fatalf("Failed to decode payload: %v", err)
		}
		if p.UserID != "user-1" || p.Position != 2 || !p.DateTime.Equal(now.Add(48*time.Hour)) {
			t.Errorf("Unexpected payload %+v", p)
		}
		if at, _ := optionValue(q.tasks[1].opts, asynq.ProcessAtOpt).(time.Time); !at.Equal(now.Add(46 * time.Hour)) {
			t.Errorf("Expected reminder two hours before the wash, got %v", at)
		}
	})

	t.Run("DuplicateTaskIsIgnored", func(t *testing.T) {
		s := NewReminderScheduler(&fakeQueue{err: asynq.ErrTaskIDConflict}, time.Hour, zap.NewNop())
		s.Now = func() time.Time { return now }
		if err := s.ScheduleReminders(context.Background(), schedule); err != nil {
			t.Errorf("Expected conflicts to be ignored, got %v", err)
		}
	})

	t.Run("QueueFailure", func(t *testing.T) {
		down := errors.New("redis down")
		s := NewReminderScheduler(&fakeQueue{err: down}, time.Hour, zap.NewNop())
		s.Now = func() time.Time { return now }
		if err := s.ScheduleReminders(context.Background(), schedule); !errors.Is(err, down) {
			t.Errorf("Expected the queue error, got %v", err)
		}
	})
}
