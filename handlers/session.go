package handlers

import (
	"net/http"
	"time"

	"carwash/services/booking"
	"carwash/utils"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the booking draft flow. Every route acts on a draft owned
// by the authenticated user.
type SessionHandler struct {
	Service booking.DraftSessionService
}

func NewSessionHandler(svc booking.DraftSessionService) *SessionHandler {
	return &SessionHandler{Service: svc}
}

type selectPackageRequest struct {
	Name string `json:"name" binding:"required"`
}

type dateRequest struct {
	Date time.Time `json:"date"`
}

func bindDate(c *gin.Context) (time.Time, bool) {
	var req dateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Date.IsZero() {
		details := "date is required"
		if err != nil {
			details = err.Error()
		}
		utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "A date in RFC 3339 format is required", details)
		return time.Time{}, false
	}
	return req.Date, true
}

type resetRequest struct {
	Mode booking.ResetMode `json:"mode"`
}

func (h *SessionHandler) respond(c *gin.Context, status int, d *booking.Draft, err error) {
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	c.JSON(status, d.View(c.Param("sessionID")))
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	id, d, err := h.Service.Start(c.Request.Context(), currentUserID(c))
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusCreated, d.View(id))
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	d, err := h.Service.Get(c.Request.Context(), currentUserID(c), c.Param("sessionID"))
	h.respond(c, http.StatusOK, d, err)
}

func (h *SessionHandler) SelectPackage(c *gin.Context) {
	var req selectPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "Package name is required", err.Error())
		return
	}
	d, err := h.Service.SelectPackage(c.Request.Context(), currentUserID(c), c.Param("sessionID"), req.Name)
	h.respond(c, http.StatusOK, d, err)
}

func (h *SessionHandler) UpdateCar(c *gin.Context) {
	var req booking.CarDetailsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "Invalid car details", err.Error())
		return
	}
	d, err := h.Service.UpdateCar(c.Request.Context(), currentUserID(c), c.Param("sessionID"), req)
	h.respond(c, http.StatusOK, d, err)
}

func (h *SessionHandler) ProposeDate(c *gin.Context) {
	date, ok := bindDate(c)
	if !ok {
		return
	}
	d, remaining, err := h.Service.ProposeDate(c.Request.Context(), currentUserID(c), c.Param("sessionID"), date)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"remaining": remaining, "draft": d.View(c.Param("sessionID"))})
}

func (h *SessionHandler) RemoveDate(c *gin.Context) {
	date, ok := bindDate(c)
	if !ok {
		return
	}
	d, err := h.Service.RemoveDate(c.Request.Context(), currentUserID(c), c.Param("sessionID"), date)
	h.respond(c, http.StatusOK, d, err)
}

func (h *SessionHandler) ReviewSession(c *gin.Context) {
	d, err := h.Service.Review(c.Request.Context(), currentUserID(c), c.Param("sessionID"))
	h.respond(c, http.StatusOK, d, err)
}

func (h *SessionHandler) BackToScheduling(c *gin.Context) {
	d, err := h.Service.Back(c.Request.Context(), currentUserID(c), c.Param("sessionID"))
	h.respond(c, http.StatusOK, d, err)
}

func (h *SessionHandler) RetrySession(c *gin.Context) {
	d, err := h.Service.Retry(c.Request.Context(), currentUserID(c), c.Param("sessionID"))
	h.respond(c, http.StatusOK, d, err)
}

// ResetSession defaults to a full reset when no mode is given.
func (h *SessionHandler) ResetSession(c *gin.Context) {
	var req resetRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "Invalid reset request", err.Error())
			return
		}
	}
	switch req.Mode {
	case "":
		req.Mode = booking.ResetAll
	case booking.ResetAll, booking.ResetAddAnotherCar:
	default:
		utils.JSONError(c, http.StatusBadRequest, "invalidResetMode", "mode must be all or addAnotherCar", "")
		return
	}
	d, err := h.Service.Reset(c.Request.Context(), currentUserID(c), c.Param("sessionID"), req.Mode)
	h.respond(c, http.StatusOK, d, err)
}

func (h *SessionHandler) SubmitSession(c *gin.Context) {
	d, err := h.Service.Submit(c.Request.Context(), currentUserID(c), c.Param("sessionID"))
	h.respond(c, http.StatusCreated, d, err)
}

func (h *SessionHandler) CancelSession(c *gin.Context) {
	if err := h.Service.Cancel(c.Request.Context(), currentUserID(c), c.Param("sessionID")); err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking session cancelled"})
}
