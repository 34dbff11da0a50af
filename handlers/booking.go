package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"carwash/models"
	"carwash/services/booking"
	"carwash/services/dashboard"
	"carwash/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Submission booking.SubmissionService
	Dashboard  dashboard.DashboardService
}

func NewBookingHandler(sub booking.SubmissionService, dash dashboard.DashboardService) *BookingHandler {
	return &BookingHandler{Submission: sub, Dashboard: dash}
}

// flexibleID accepts a JSON string or number.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

type createBookingRequest struct {
	UserID             flexibleID    `json:"userId" binding:"required"`
	CarMake            string        `json:"carMake" binding:"required"`
	CarModel           string        `json:"carModel" binding:"required"`
	RegistrationNumber string        `json:"registrationNumber" binding:"required"`
	Color              string        `json:"color" binding:"required"`
	AdditionalNotes    string        `json:"additionalNotes"`
	ServiceID          flexibleID    `json:"serviceId"`
	ScheduledDates     []time.Time   `json:"scheduledDates" binding:"required,min=1"`
	ScheduledPackage   string        `json:"scheduledPackage"`
	Status             models.Status `json:"status"`
}

// CreateBookingHandler persists a complete booking for the authenticated user.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	logger := getLogger(c)

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "All fields are required.", err.Error())
		return
	}
	callerID := currentUserID(c)
	if string(req.UserID) != callerID {
		logger.Warn("Booking for another user rejected", zap.String("callerID", callerID), zap.String("userID", string(req.UserID)))
		utils.JSONError(c, http.StatusForbidden, "forbidden", "You can only book for your own account", "")
		return
	}

	scheduleID, err := h.Submission.Submit(c.Request.Context(), booking.SubmissionRequest{
		UserID:      callerID,
		ServiceID:   string(req.ServiceID),
		PackageName: req.ScheduledPackage,
		Car: models.CarDetails{
			Make:               req.CarMake,
			Model:              req.CarModel,
			RegistrationNumber: req.RegistrationNumber,
			Color:              req.Color,
			AdditionalNotes:    req.AdditionalNotes,
		},
		Dates:  req.ScheduledDates,
		Status: req.Status,
	})
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Booking successfully created.", "scheduleId": scheduleID})
}

// DashboardHandler returns the caller's dashboard. An explicit userId query must
// match the caller.
func (h *BookingHandler) DashboardHandler(c *gin.Context) {
	callerID := currentUserID(c)
	userID := c.DefaultQuery("userId", callerID)

	dash, err := h.Dashboard.GetDashboard(c.Request.Context(), callerID, userID)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
