package userRepo

import (
	"context"
	"errors"

	"carwash/models"
)

// ErrDuplicateEmail is returned by Create when the email is already registered.
var ErrDuplicateEmail = errors.New("a user with this email already exists")

// UserRepository defines methods for user data access. Lookups return (nil, nil)
// when no user matches.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIdentifier retrieves a user whose email or full name equals identifier.
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	// List returns every user, oldest first.
	List(ctx context.Context) ([]models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
}
