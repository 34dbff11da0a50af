package user

import (
	"context"

	userRepo "carwash/database/repository/user"
	"carwash/models"
	"carwash/utils"

	"go.uber.org/zap"
)

type UserService interface {
	Register(ctx context.Context, reg models.UserRegistration) (*models.User, error)
	Authenticate(ctx context.Context, identifier, password string) (*AuthResponse, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context, callerID string) ([]models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Tokens *utils.TokenIssuer
	Logger *zap.Logger
}

func NewUserService(repo userRepo.UserRepository, tokens *utils.TokenIssuer, logger *zap.Logger) *DefaultUserService {
	return &DefaultUserService{Repo: repo, Tokens: tokens, Logger: logger}
}

// AuthResponse contains the bearer token and the signed-in user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
