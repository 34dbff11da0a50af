package user

import (
	"context"
	"strings"

	"carwash/models"
	"carwash/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = utils.NewAuthError("invalidCredentials", "Invalid credentials")

// Authenticate signs a user in by email or full name and issues a bearer token.
func (s *DefaultUserService) Authenticate(ctx context.Context, identifier, password string) (*AuthResponse, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, utils.NewValidationError("missingCredentials", "Identifier (email or full name) and password are required")
	}

	userRec, err := s.Repo.GetByIdentifier(ctx, identifier)
	if err == nil && userRec == nil && strings.Contains(identifier, "@") {
		userRec, err = s.Repo.GetByIdentifier(ctx, strings.ToLower(identifier))
	}
	if err != nil {
		return nil, utils.NewPersistenceError("Authentication failed, please try again", err)
	}
	if userRec == nil {
		return nil, errInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	token, err := s.Tokens.GenerateToken(userRec.ID, userRec.Email)
	if err != nil {
		s.Logger.Error("Failed to sign token", zap.String("userID", userRec.ID), zap.Error(err))
		return nil, utils.NewPersistenceError("Authentication failed, please try again", err)
	}
	return &AuthResponse{Token: token, User: userRec}, nil
}

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.NewPersistenceError("Failed to load user", err)
	}
	if u == nil {
		return nil, utils.NewNotFoundError("userNotFound", "User not found")
	}
	return u, nil
}
