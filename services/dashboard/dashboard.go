package dashboard

import (
	"context"
	"time"

	bookingRepo "carwash/database/repository/booking"
	userRepo "carwash/database/repository/user"
	"carwash/models"
	"carwash/utils"

	"go.uber.org/zap"
)

// DashboardService builds the read model shown to a signed-in user.
type DashboardService interface {
	GetDashboard(ctx context.Context, callerID, userID string) (*models.Dashboard, error)
}

type DefaultDashboardService struct {
	Users    userRepo.UserRepository
	Bookings bookingRepo.BookingRepository
	Logger   *zap.Logger
}

func NewDashboardService(users userRepo.UserRepository, bookings bookingRepo.BookingRepository, logger *zap.Logger) *DefaultDashboardService {
	return &DefaultDashboardService{Users: users, Bookings: bookings, Logger: logger}
}

// GetDashboard returns userID's profile, cars and schedules. Only the user may read
// their own dashboard.
func (s *DefaultDashboardService) GetDashboard(ctx context.Context, callerID, userID string) (*models.Dashboard, error) {
	if callerID == "" {
		return nil, utils.NewAuthError("unauthorized", "Unauthorized")
	}
	if callerID != userID {
		return nil, utils.NewForbiddenError("forbidden", "You can only view your own dashboard")
	}

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.NewPersistenceError("Failed to load user", err)
	}
	if user == nil {
		return nil, utils.NewNotFoundError("userNotFound", "User not found")
	}

	schedules, err := s.Bookings.ListSchedulesByUser(ctx, userID)
	if err != nil {
		return nil, utils.NewPersistenceError("Failed to load schedules", err)
	}

	dash := &models.Dashboard{
		User: models.DashboardUser{
			UserID:     user.ID,
			FullName:   user.FullName,
			Email:      user.Email,
			CarDetails: []models.CarDetails{},
		},
		Schedules: make([]models.DashboardSchedule, 0, len(schedules)),
	}
	for _, sch := range schedules {
		view := models.DashboardSchedule{
			ScheduleID:       sch.ID,
			ScheduledPackage: sch.PackageName,
			Status:           sch.Status,
			CreatedAt:        sch.CreatedAt.Format(time.RFC3339),
			CarDetails:       sch.Car,
			ScheduledDates:   make([]models.DashboardDate, 0, len(sch.Dates)),
		}
		if sch.Car != nil {
			dash.User.CarDetails = append(dash.User.CarDetails, *sch.Car)
		}
		for _, d := range sch.Dates {
			view.ScheduledDates = append(view.ScheduledDates, models.DashboardDate{
				DateTime: d.DateTime.Format(time.RFC3339),
				Status:   d.Status,
			})
		}
		dash.Schedules = append(dash.Schedules, view)
	}

	s.Logger.Debug("Dashboard assembled", zap.String("userID", userID), zap.Int("schedules", len(schedules)))
	return dash, nil
}
