package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	userRepo "carwash/database/repository/user"
	"carwash/models"
	"carwash/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
	hasNumber = regexp.MustCompile(`[0-9]`)
)

// verifyPasswordComplexity requires at least 8 characters with a letter and a digit.
func verifyPasswordComplexity(pw string) error {
	if len(pw) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if !hasLetter.MatchString(pw) {
		return fmt.Errorf("password must include at least one letter")
	}
	if !hasNumber.MatchString(pw) {
		return fmt.Errorf("password must include at least one number")
	}
	return nil
}

// Register creates a user with a bcrypt password hash.
func (s *DefaultUserService) Register(ctx context.Context, reg models.UserRegistration) (*models.User, error) {
	reg.FullName = strings.TrimSpace(reg.FullName)
	reg.PhoneNumber = strings.TrimSpace(reg.PhoneNumber)
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	if reg.FullName == "" || reg.PhoneNumber == "" || reg.Email == "" || reg.Password == "" {
		return nil, utils.NewValidationError("missingFields", "All fields (fullName, phoneNumber, email, password) are required")
	}
	if err := verifyPasswordComplexity(reg.Password); err != nil {
		return nil, utils.NewValidationError("weakPassword", err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		FullName:     reg.FullName,
		PhoneNumber:  reg.PhoneNumber,
		Email:        reg.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		CreatedAt:    time.Now(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, userRepo.ErrDuplicateEmail) {
			return nil, utils.NewConflictError("emailTaken", "A user with this email already exists")
		}
		return nil, utils.NewPersistenceError("Failed to add user, please try again later", err)
	}

	s.Logger.Info("User registered", zap.String("userID", user.ID))
	return user, nil
}
