package routes

import (
	"net/http"
	"time"

	"carwash/handlers"
	"carwash/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers catalog, signup and login endpoints.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/packages", hb.ListPackagesHandler)
		api.POST("/signup", hb.SignupHandler)
		api.POST("/login", hb.LoginHandler)
	}
}

// RegisterBookingRoutes registers submission, dashboard and user listing endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.Tokens, hb.UserRepo))
		api.POST("/bookings", hb.CreateBookingHandler)
		api.GET("/dashboard", hb.DashboardHandler)
		api.GET("/users", hb.ListUsersHandler)
	}
}

// RegisterSessionRoutes sets up the endpoints for the booking draft flow.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	sessionGroup := r.Group("/api/booking/session")
	{
		sessionGroup.Use(middleware.JWTAuthMiddleware(hb.Tokens, hb.UserRepo))
		sessionGroup.POST("", hb.StartSession)
		sessionGroup.GET("/:sessionID", hb.GetSession)
		sessionGroup.PUT("/:sessionID/package", hb.SelectPackage)
		sessionGroup.PATCH("/:sessionID/car", hb.UpdateCar)
		sessionGroup.POST("/:sessionID/dates", hb.ProposeDate)
		sessionGroup.DELETE("/:sessionID/dates", hb.RemoveDate)
		sessionGroup.POST("/:sessionID/review", hb.ReviewSession)
		sessionGroup.POST("/:sessionID/back", hb.BackToScheduling)
		sessionGroup.POST("/:sessionID/retry", hb.RetrySession)
		sessionGroup.POST("/:sessionID/reset", hb.ResetSession)
		sessionGroup.POST("/:sessionID/submit", hb.SubmitSession)
		sessionGroup.DELETE("/:sessionID", hb.CancelSession)
	}
}

// RegisterHealthRoute reports the last result of the store health checks.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", func(c *gin.Context) {
		if hb.HealthMonitor == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		status := hb.HealthMonitor.Status()
		code, label := http.StatusOK, "ok"
		if !status.Healthy {
			code, label = http.StatusServiceUnavailable, "degraded"
		}
		c.JSON(code, gin.H{"status": label, "checks": status.Checks, "checkedAt": status.CheckedAt})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterPublicRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterSessionRoutes(r, hb)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found", "code": "notFound"})
	})
}
