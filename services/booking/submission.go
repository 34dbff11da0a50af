package booking

import (
	"context"
	"time"

	bookingRepo "carwash/database/repository/booking"
	"carwash/models"
	"carwash/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmissionRequest is a complete booking ready to be persisted.
type SubmissionRequest struct {
	UserID      string            `json:"userId"`
	ServiceID   string            `json:"serviceId,omitempty"`
	PackageName string            `json:"scheduledPackage,omitempty"`
	Car         models.CarDetails `json:"carDetails"`
	Dates       []time.Time       `json:"scheduledDates"`
	Status      models.Status     `json:"status,omitempty"`
}

// SubmissionService persists bookings.
type SubmissionService interface {
	Submit(ctx context.Context, req SubmissionRequest) (string, error)
}

// ReminderScheduler is told about every committed schedule.
type ReminderScheduler interface {
	ScheduleReminders(ctx context.Context, schedule models.Schedule) error
}

// DefaultSubmissionService writes a schedule, its car and its dates in one transaction.
type DefaultSubmissionService struct {
	Repo      bookingRepo.BookingRepository
	Reminders ReminderScheduler
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewSubmissionService(repo bookingRepo.BookingRepository, logger *zap.Logger) *DefaultSubmissionService {
	return &DefaultSubmissionService{Repo: repo, Logger: logger, Now: time.Now}
}

func validateSubmission(req SubmissionRequest) error {
	if req.UserID == "" {
		return utils.NewValidationError("missingUserId", "userId is required")
	}
	if err := utils.ValidateStruct("invalidCarDetails", req.Car); err != nil {
		return err
	}
	if len(req.Dates) == 0 {
		return utils.NewValidationError("missingScheduledDates", "at least one scheduled date is required")
	}
	for _, d := range req.Dates {
		if d.IsZero() {
			return utils.NewValidationError("invalidScheduledDate", "scheduled dates must be valid timestamps")
		}
	}
	if req.Status != "" && !req.Status.Valid() {
		return utils.NewValidationError("invalidStatus", "status must be Scheduled, Used or Missed")
	}
	return nil
}

// Submit validates req and returns the new schedule id. A persistence error means
// nothing from this submission was kept.
func (s *DefaultSubmissionService) Submit(ctx context.Context, req SubmissionRequest) (string, error) {
	if err := validateSubmission(req); err != nil {
		return "", err
	}

	status := req.Status
	if status == "" {
		status = models.StatusScheduled
	}
	now := s.Now()
	schedule := &models.Schedule{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		ServiceID:   req.ServiceID,
		PackageName: req.PackageName,
		Status:      status,
		CreatedAt:   now,
	}
	car := req.Car
	car.ID = uuid.NewString()
	car.ScheduleID = schedule.ID
	car.UserID = req.UserID
	car.CreatedAt = now

	dates := make([]models.ScheduledDate, len(req.Dates))
	for i, d := range req.Dates {
		dates[i] = models.ScheduledDate{ScheduleID: schedule.ID, Position: i, DateTime: d, Status: status}
	}

	err := s.Repo.WithinTx(ctx, func(ctx context.Context, w bookingRepo.ScheduleWriter) error {
		if err := w.InsertSchedule(ctx, schedule); err != nil {
			return err
		}
		if err := w.InsertCarDetails(ctx, &car); err != nil {
			return err
		}
		if err := w.AttachCar(ctx, schedule.ID, car.ID); err != nil {
			return err
		}
		return w.InsertScheduledDates(ctx, schedule.ID, dates)
	})
	if err != nil {
		s.Logger.Error("Booking submission rolled back",
			zap.String("userID", req.UserID),
			zap.String("scheduleID", schedule.ID),
			zap.Error(err))
		return "", utils.NewPersistenceError("Failed to save booking", err)
	}

	s.Logger.Info("Booking submitted",
		zap.String("userID", req.UserID),
		zap.String("scheduleID", schedule.ID),
		zap.Int("dates", len(dates)))

	if s.Reminders != nil {
		committed := *schedule
		committed.Car = &car
		committed.CarID = car.ID
		committed.Dates = dates
		if err := s.Reminders.ScheduleReminders(ctx, committed); err != nil {
			s.Logger.Warn("Failed to queue wash reminders", zap.String("scheduleID", schedule.ID), zap.Error(err))
		}
	}
	return schedule.ID, nil
}
