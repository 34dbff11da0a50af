package handlers

import (
	"net/http"

	"carwash/models"
	"carwash/services/user"
	"carwash/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	Service user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{Service: svc}
}

// SignupHandler registers a new user.
func (h *UserHandler) SignupHandler(c *gin.Context) {
	logger := getLogger(c)

	var reg models.UserRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		logger.Debug("Invalid signup request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "All fields (fullName, phoneNumber, email, password) are required", err.Error())
		return
	}

	u, err := h.Service.Register(c.Request.Context(), reg)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User added successfully", "userId": u.ID})
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginHandler signs a user in by email or full name.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "Identifier (email or full name) and password are required", err.Error())
		return
	}

	resp, err := h.Service.Authenticate(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   resp.Token,
		"user":    resp.User,
	})
}

// ListUsersHandler returns every account to an administrator.
func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	users, err := h.Service.ListUsers(c.Request.Context(), currentUserID(c))
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
