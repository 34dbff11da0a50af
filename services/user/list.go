package user

import (
	"context"

	"carwash/models"
	"carwash/utils"

	"go.uber.org/zap"
)

// ListUsers returns every account. Only callers with the Admin role may list.
func (s *DefaultUserService) ListUsers(ctx context.Context, callerID string) ([]models.User, error) {
	caller, err := s.GetUserByID(ctx, callerID)
	if err != nil {
		if utils.KindOf(err) == utils.KindNotFound {
			return nil, utils.NewAuthError("unknownUser", "Access denied")
		}
		return nil, err
	}
	if caller.Role != models.RoleAdmin {
		s.Logger.Warn("User listing denied", zap.String("userID", callerID), zap.String("role", caller.Role))
		return nil, utils.NewForbiddenError("adminOnly", "Only administrators can list users")
	}

	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, utils.NewPersistenceError("Failed to load users", err)
	}
	return users, nil
}
