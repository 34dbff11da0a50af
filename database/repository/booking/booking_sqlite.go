package bookingRepo

import (
	"context"
	"database/sql"
	"fmt"

	"carwash/database"
	"carwash/models"
)

// SQLiteBookingRepo implements BookingRepository on the Schedules, CarDetails and
// ScheduledDates tables.
type SQLiteBookingRepo struct {
	db *sql.DB
}

func NewSQLiteBookingRepo(db *sql.DB) BookingRepository {
	return &SQLiteBookingRepo{db: db}
}

func (r *SQLiteBookingRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, w ScheduleWriter) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, &sqliteScheduleWriter{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type sqliteScheduleWriter struct {
	tx *sql.Tx
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (w *sqliteScheduleWriter) InsertSchedule(ctx context.Context, s *models.Schedule) error {
	_, err := w.tx.ExecContext(ctx, `
	INSERT INTO Schedules (ScheduleID, UserID, ServiceID, ScheduledPackage, Status, CarID, CreatedAt)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, nullable(s.ServiceID), s.PackageName, string(s.Status), nullable(s.CarID), database.FormatTime(s.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert schedule failed: %w", err)
	}
	return nil
}

func (w *sqliteScheduleWriter) InsertCarDetails(ctx context.Context, c *models.CarDetails) error {
	_, err := w.tx.ExecContext(ctx, `
	INSERT INTO CarDetails (CarID, UserID, ScheduleID, CarMake, CarModel, RegistrationNumber, Color, AdditionalNotes, CreatedAt)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.ScheduleID, c.Make, c.Model, c.RegistrationNumber, c.Color, nullable(c.AdditionalNotes), database.FormatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert car details failed: %w", err)
	}
	return nil
}

func (w *sqliteScheduleWriter) AttachCar(ctx context.Context, scheduleID, carID string) error {
	res, err := w.tx.ExecContext(ctx, `UPDATE Schedules SET CarID = ? WHERE ScheduleID = ?`, carID, scheduleID)
	if err != nil {
		return fmt.Errorf("attach car failed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("attach car failed: schedule %s not found", scheduleID)
	}
	return nil
}

func (w *sqliteScheduleWriter) InsertScheduledDates(ctx context.Context, scheduleID string, dates []models.ScheduledDate) error {
	stmt, err := w.tx.PrepareContext(ctx, `
	INSERT INTO ScheduledDates (ScheduleID, Position, ScheduledDateTime, Status)
	VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare scheduled date insert failed: %w", err)
	}
	defer stmt.Close()

	for i, d := range dates {
		if _, err := stmt.ExecContext(ctx, scheduleID, i, database.FormatTime(d.DateTime), string(d.Status)); err != nil {
			return fmt.Errorf("insert scheduled date %d failed: %w", i, err)
		}
	}
	return nil
}

// ListSchedulesByUser drains each query before issuing the next; the pool holds a
// single connection.
func (r *SQLiteBookingRepo) ListSchedulesByUser(ctx context.Context, userID string) ([]models.Schedule, error) {
	schedules, err := r.loadSchedules(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return schedules, nil
	}

	index := make(map[string]*models.Schedule, len(schedules))
	for i := range schedules {
		index[schedules[i].ID] = &schedules[i]
	}

	cars, err := r.loadCars(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range cars {
		if s, ok := index[cars[i].ScheduleID]; ok {
			car := cars[i]
			s.Car = &car
		}
	}

	dates, err := r.loadDates(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, d := range dates {
		if s, ok := index[d.ScheduleID]; ok {
			s.Dates = append(s.Dates, d)
		}
	}
	return schedules, nil
}

func (r *SQLiteBookingRepo) loadSchedules(ctx context.Context, userID string) ([]models.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT ScheduleID, UserID, COALESCE(ServiceID, ''), ScheduledPackage, Status, COALESCE(CarID, ''), CreatedAt
	FROM Schedules WHERE UserID = ? ORDER BY CreatedAt, ScheduleID`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	schedules := []models.Schedule{}
	for rows.Next() {
		var (
			s         models.Schedule
			status    string
			createdAt string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.ServiceID, &s.PackageName, &status, &s.CarID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		s.Status = models.Status(status)
		if s.CreatedAt, err = database.ParseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse schedule created_at: %w", err)
		}
		s.Dates = []models.ScheduledDate{}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func (r *SQLiteBookingRepo) loadCars(ctx context.Context, userID string) ([]models.CarDetails, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT CarID, ScheduleID, UserID, CarMake, CarModel, RegistrationNumber, Color, COALESCE(AdditionalNotes, ''), CreatedAt
	FROM CarDetails WHERE UserID = ? ORDER BY CreatedAt, CarID`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query car details: %w", err)
	}
	defer rows.Close()

	var cars []models.CarDetails
	for rows.Next() {
		var (
			c         models.CarDetails
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.ScheduleID, &c.UserID, &c.Make, &c.Model, &c.RegistrationNumber, &c.Color, &c.AdditionalNotes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan car details: %w", err)
		}
		if c.CreatedAt, err = database.ParseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse car created_at: %w", err)
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

func (r *SQLiteBookingRepo) loadDates(ctx context.Context, userID string) ([]models.ScheduledDate, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT d.ScheduleID, d.Position, d.ScheduledDateTime, d.Status
	FROM ScheduledDates d
	JOIN Schedules s ON s.ScheduleID = d.ScheduleID
	WHERE s.UserID = ?
	ORDER BY d.ScheduleID, d.Position`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled dates: %w", err)
	}
	defer rows.Close()

	var dates []models.ScheduledDate
	for rows.Next() {
		var (
			d      models.ScheduledDate
			at     string
			status string
		)
		if err := rows.Scan(&d.ScheduleID, &d.Position, &at, &status); err != nil {
			return nil, fmt.Errorf("failed to scan scheduled date: %w", err)
		}
		if d.DateTime, err = database.ParseTime(at); err != nil {
			return nil, fmt.Errorf("failed to parse scheduled date: %w", err)
		}
		d.Status = models.Status(status)
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
