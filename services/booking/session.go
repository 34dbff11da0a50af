package booking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	draftRepo "carwash/database/repository/draft"
	"carwash/models"
	"carwash/services/catalog"
	"carwash/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DraftView is what clients see of a draft.
type DraftView struct {
	SessionID      string            `json:"sessionId"`
	Stage          Stage             `json:"stage"`
	Package        *models.Package   `json:"package"`
	Car            models.CarDetails `json:"car"`
	Dates          []string          `json:"dates"`
	RemainingQuota int               `json:"remainingQuota"`
	ScheduleID     string            `json:"scheduleId,omitempty"`
	LastError      string            `json:"lastError,omitempty"`
}

// View renders d for the session id.
func (d *Draft) View(sessionID string) DraftView {
	v := DraftView{
		SessionID:      sessionID,
		Stage:          d.Stage,
		Package:        d.Package,
		Car:            d.Car,
		Dates:          make([]string, 0, len(d.Dates)),
		RemainingQuota: d.RemainingQuota(),
		ScheduleID:     d.ScheduleID,
		LastError:      d.LastError,
	}
	for _, date := range d.Dates {
		v.Dates = append(v.Dates, date.Format(time.RFC3339))
	}
	return v
}

// DraftSessionService manages booking drafts owned by authenticated users.
type DraftSessionService interface {
	Start(ctx context.Context, userID string) (string, *Draft, error)
	Get(ctx context.Context, userID, sessionID string) (*Draft, error)
	SelectPackage(ctx context.Context, userID, sessionID, packageName string) (*Draft, error)
	UpdateCar(ctx context.Context, userID, sessionID string, update CarDetailsUpdate) (*Draft, error)
	ProposeDate(ctx context.Context, userID, sessionID string, date time.Time) (*Draft, int, error)
	RemoveDate(ctx context.Context, userID, sessionID string, date time.Time) (*Draft, error)
	Review(ctx context.Context, userID, sessionID string) (*Draft, error)
	Back(ctx context.Context, userID, sessionID string) (*Draft, error)
	Retry(ctx context.Context, userID, sessionID string) (*Draft, error)
	Reset(ctx context.Context, userID, sessionID string, mode ResetMode) (*Draft, error)
	Submit(ctx context.Context, userID, sessionID string) (*Draft, error)
	Cancel(ctx context.Context, userID, sessionID string) error
}

// DefaultDraftSessionService loads, mutates and saves drafts against a DraftStore.
type DefaultDraftSessionService struct {
	Store      draftRepo.DraftStore
	Catalog    catalog.Catalog
	Submission SubmissionService
	TTL        time.Duration
	Location   *time.Location
	Logger     *zap.Logger
	Now        func() time.Time
}

func NewDraftSessionService(store draftRepo.DraftStore, cat catalog.Catalog, sub SubmissionService, ttl time.Duration, loc *time.Location, logger *zap.Logger) *DefaultDraftSessionService {
	if loc == nil {
		loc = time.Local
	}
	return &DefaultDraftSessionService{
		Store:      store,
		Catalog:    cat,
		Submission: sub,
		TTL:        ttl,
		Location:   loc,
		Logger:     logger,
		Now:        time.Now,
	}
}

var (
	errSessionNotFound  = utils.NewNotFoundError("sessionNotFound", "Booking session not found or expired")
	errSessionForbidden = utils.NewForbiddenError("sessionForbidden", "Booking session belongs to another user")
)

func (s *DefaultDraftSessionService) save(ctx context.Context, sessionID string, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return utils.NewPersistenceError("Failed to encode booking session", err)
	}
	if err := s.Store.Save(ctx, sessionID, data, s.TTL); err != nil {
		return utils.NewPersistenceError("Failed to save booking session", err)
	}
	return nil
}

func (s *DefaultDraftSessionService) load(ctx context.Context, userID, sessionID string) (*Draft, error) {
	data, err := s.Store.Load(ctx, sessionID)
	if errors.Is(err, draftRepo.ErrDraftNotFound) {
		return nil, errSessionNotFound
	}
	if err != nil {
		return nil, utils.NewPersistenceError("Failed to load booking session", err)
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, utils.NewPersistenceError("Failed to decode booking session", err)
	}
	if d.Owner != userID {
		return nil, errSessionForbidden
	}
	if d.Dates == nil {
		d.Dates = []time.Time{}
	}
	return &d, nil
}

// mutate runs fn on the stored draft and saves the result when fn succeeds.
func (s *DefaultDraftSessionService) mutate(ctx context.Context, userID, sessionID string, fn func(d *Draft) error) (*Draft, error) {
	d, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return d, err
	}
	if err := s.save(ctx, sessionID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DefaultDraftSessionService) Start(ctx context.Context, userID string) (string, *Draft, error) {
	sessionID := uuid.NewString()
	d := NewDraft(userID)
	if err := s.save(ctx, sessionID, d); err != nil {
		return "", nil, err
	}
	s.Logger.Debug("Booking session started", zap.String("sessionID", sessionID), zap.String("userID", userID))
	return sessionID, d, nil
}

func (s *DefaultDraftSessionService) Get(ctx context.Context, userID, sessionID string) (*Draft, error) {
	return s.load(ctx, userID, sessionID)
}

func (s *DefaultDraftSessionService) SelectPackage(ctx context.Context, userID, sessionID, packageName string) (*Draft, error) {
	pkg, ok := s.Catalog.GetPackage(packageName)
	if !ok {
		return nil, ErrUnknownPackage
	}
	return s.mutate(ctx, userID, sessionID, func(d *Draft) error {
		return d.SelectPackage(pkg)
	})
}

func (s *DefaultDraftSessionService) UpdateCar(ctx context.Context, userID, sessionID string, update CarDetailsUpdate) (*Draft, error) {
	return s.mutate(ctx, userID, sessionID, func(d *Draft) error {
		return d.SetCarDetails(update)
	})
}

func (s *DefaultDraftSessionService) ProposeDate(ctx context.Context, userID, sessionID string, date time.Time) (*Draft, int, error) {
	var remaining int
	d, err := s.mutate(ctx, userID, sessionID, func(d *Draft) error {
		var err error
		remaining, err = d.ProposeDate(date, s.Now().In(s.Location))
		return err
	})
	return d, remaining, err
}

func (s *DefaultDraftSessionService) RemoveDate(ctx context.Context, userID, sessionID string, date time.Time) (*Draft, error) {
	return s.mutate(ctx, userID, sessionID, func(d *Draft) error {
		return d.RemoveDate(date)
	})
}

func (s *DefaultDraftSessionService) Review(ctx context.Context, userID, sessionID string) (*Draft, error) {
	return s.mutate(ctx, userID, sessionID, func(d *Draft) error {
		return d.BeginReview()
	})
}

func (s *DefaultDraftSessionService) Back(ctx context.Context, userID, sessionID string) (*Draft, error) {
	return s.mutate(ctx, userID, sessionID, func(d *Draft) error {
		return d.BackToScheduling()
	})
}

func (s *DefaultDraftSessionService) Retry(ctx context.Context, userID, sessionID string) (*Draft, error) {
	return s.mutate(ctx, userID, sessionID, func(d *Draft) error {
		return d.Retry()
	})
}

func (s *DefaultDraftSessionService) Reset(ctx context.Context, userID, sessionID string, mode ResetMode) (*Draft, error) {
	return s.mutate(ctx, userID, sessionID, func(d *Draft) error {
		d.Reset(mode)
		return nil
	})
}

// submitGuardTTL bounds how long a crashed submission can block the session.
const submitGuardTTL = 30 * time.Second

// Submit persists a reviewed draft. The outcome is saved on the draft either way:
// Submitted with the schedule id, or Failed with the reason.
func (s *DefaultDraftSessionService) Submit(ctx context.Context, userID, sessionID string) (*Draft, error) {
	if _, err := s.load(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	acquired, err := s.Store.AcquireSubmit(ctx, sessionID, submitGuardTTL)
	if err != nil {
		return nil, utils.NewPersistenceError("Failed to guard booking submission", err)
	}
	if !acquired {
		s.Logger.Warn("Concurrent booking submission rejected", zap.String("sessionID", sessionID))
		return nil, ErrSubmitInProgress
	}
	defer func() {
		if err := s.Store.ReleaseSubmit(context.Background(), sessionID); err != nil {
			s.Logger.Warn("Failed to release submit guard", zap.String("sessionID", sessionID), zap.Error(err))
		}
	}()

	// Reload under the guard; a submission that finished meanwhile has moved the stage on.
	d, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if d.Stage != StageReviewing {
		return d, ErrInvalidTransition
	}

	req := SubmissionRequest{
		UserID: d.Owner,
		Car:    d.Car,
		Dates:  d.Dates,
	}
	if d.Package != nil {
		req.PackageName = d.Package.Name
	}

	scheduleID, submitErr := s.Submission.Submit(ctx, req)
	if submitErr != nil {
		_ = d.MarkFailed(errorMessage(submitErr))
	} else {
		_ = d.MarkSubmitted(scheduleID)
	}
	if err := s.save(ctx, sessionID, d); err != nil {
		s.Logger.Error("Failed to save booking session after submission",
			zap.String("sessionID", sessionID), zap.String("scheduleID", scheduleID), zap.Error(err))
		if submitErr == nil {
			// The booking exists; report it even though the session could not be updated.
			return d, nil
		}
	}
	return d, submitErr
}

func errorMessage(err error) string {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func (s *DefaultDraftSessionService) Cancel(ctx context.Context, userID, sessionID string) error {
	if _, err := s.load(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, sessionID); err != nil {
		return utils.NewPersistenceError("Failed to delete booking session", err)
	}
	return nil
}
