package handlers

import (
	userRepoPkg "carwash/database/repository/user"
	"carwash/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers and what the routes need to guard them.
type HandlerBundle struct {
	UserRepo      userRepoPkg.UserRepository
	Tokens        *utils.TokenIssuer
	HealthMonitor *utils.HealthMonitor

	// Catalog endpoints
	ListPackagesHandler gin.HandlerFunc

	// User endpoints
	SignupHandler    gin.HandlerFunc
	LoginHandler     gin.HandlerFunc
	ListUsersHandler gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler gin.HandlerFunc
	DashboardHandler     gin.HandlerFunc

	// Draft session endpoints
	StartSession     gin.HandlerFunc
	GetSession       gin.HandlerFunc
	SelectPackage    gin.HandlerFunc
	UpdateCar        gin.HandlerFunc
	ProposeDate      gin.HandlerFunc
	RemoveDate       gin.HandlerFunc
	ReviewSession    gin.HandlerFunc
	BackToScheduling gin.HandlerFunc
	RetrySession     gin.HandlerFunc
	ResetSession     gin.HandlerFunc
	SubmitSession    gin.HandlerFunc
	CancelSession    gin.HandlerFunc
}
