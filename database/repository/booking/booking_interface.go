package bookingRepo

import (
	"context"

	"carwash/models"
)

// ScheduleWriter performs the writes of one booking submission. Every call made
// through a writer belongs to the same unit of work.
type ScheduleWriter interface {
	InsertSchedule(ctx context.Context, schedule *models.Schedule) error
	InsertCarDetails(ctx context.Context, car *models.CarDetails) error
	// AttachCar records the car on its schedule header.
	AttachCar(ctx context.Context, scheduleID, carID string) error
	// InsertScheduledDates writes one row per date, keeping the given order.
	InsertScheduledDates(ctx context.Context, scheduleID string, dates []models.ScheduledDate) error
}

// BookingRepository persists schedules with their car details and dates.
type BookingRepository interface {
	// WithinTx runs fn inside a single transaction. The transaction commits only when
	// fn returns nil; otherwise every write made through the writer is rolled back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, w ScheduleWriter) error) error
	// ListSchedulesByUser returns the user's schedules, oldest first, each with its
	// car and its dates in insertion order.
	ListSchedulesByUser(ctx context.Context, userID string) ([]models.Schedule, error)
}
