package user

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"carwash/database"
	userRepo "carwash/database/repository/user"
	"carwash/models"
	"carwash/utils"

	"go.uber.org/zap"
)

func newTestService(t *testing.T) *DefaultUserService {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserService(userRepo.NewSQLiteUserRepo(db), utils.NewTokenIssuer("test-secret", time.Hour), zap.NewNop())
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	reg := models.UserRegistration{
		FullName:    "Jane Wanjiru",
		PhoneNumber: "0712345678",
		Email:       "Jane@Example.com",
		Password:    "washday2026",
	}
	user, err := svc.Register(ctx, reg)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.PasswordHash == reg.Password || user.Email != "jane@example.com" || user.Role != models.RoleUser {
		t.Errorf("Unexpected stored user %+v", user)
	}

	t.Run("DuplicateEmail", func(t *testing.T) {
		if _, err := svc.Register(ctx, reg); utils.KindOf(err) != utils.KindConflict {
			t.Errorf("Expected conflict, got %v", err)
		}
	})

	t.Run("MissingFields", func(t *testing.T) {
		bad := reg
		bad.PhoneNumber = " "
		if _, err := svc.Register(ctx, bad); utils.CodeOf(err) != "missingFields" {
			t.Errorf("Expected missingFields, got %v", err)
		}
	})

	t.Run("WeakPassword", func(t *testing.T) {
		bad := reg
		bad.Email = "other@example.com"
		bad.Password = "short"
		if _, err := svc.Register(ctx, bad); utils.CodeOf(err) != "weakPassword" {
			t.Errorf("Expected weakPassword, got %v", err)
		}
	})

	t.Run("LoginByEmailOrName", func(t *testing.T) {
		for _, identifier := range []string{"jane@example.com", "JANE@example.com", "Jane Wanjiru"} {
			resp, err := svc.Authenticate(ctx, identifier, "washday2026")
			if err != nil {
				t.Fatalf("Authenticate(%q) failed: %v", identifier, err)
			}
			sub, err := svc.Tokens.ExtractIDFromToken(resp.Token)
			if err != nil || sub != user.ID {
				t.Errorf("Expected token subject %s, got %s (%v)", user.ID, sub, err)
			}
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		if _, err := svc.Authenticate(ctx, "jane@example.com", "nope12345"); utils.KindOf(err) != utils.KindAuth {
			t.Errorf("Expected auth error, got %v", err)
		}
	})

	t.Run("UnknownUser", func(t *testing.T) {
		if _, err := svc.Authenticate(ctx, "ghost", "washday2026"); utils.KindOf(err) != utils.KindAuth {
			t.Errorf("Expected auth error, got %v", err)
		}
	})

	t.Run("GetUserByID", func(t *testing.T) {
		got, err := svc.GetUserByID(ctx, user.ID)
		if err != nil || got.FullName != "Jane Wanjiru" {
			t.Errorf("Unexpected user %+v, %v", got, err)
		}
		if _, err := svc.GetUserByID(ctx, "ghost"); utils.KindOf(err) != utils.KindNotFound {
			t.Errorf("Expected not found, got %v", err)
		}
	})
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	member, err := svc.Register(ctx, models.UserRegistration{
		FullName: "Jane Wanjiru", PhoneNumber: "0712345678", Email: "jane@example.com", Password: "washday2026",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	admin := &models.User{
		ID: "admin-1", FullName: "Site Admin", PhoneNumber: "0700", Email: "admin@example.com",
		PasswordHash: "x", Role: models.RoleAdmin,
	}
	if err := svc.Repo.Create(ctx, admin); err != nil {
		t.Fatalf("Create admin failed: %v", err)
	}

	t.Run("AdminSeesEveryone", func(t *testing.T) {
		users, err := svc.ListUsers(ctx, admin.ID)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("Expected 2 users, got %d", len(users))
		}
	})

	t.Run("MemberIsForbidden", func(t *testing.T) {
		if _, err := svc.ListUsers(ctx, member.ID); utils.KindOf(err) != utils.KindForbidden {
			t.Errorf("Expected forbidden, got %v", err)
		}
	})

	t.Run("UnknownCaller", func(t *testing.T) {
		if _, err := svc.ListUsers(ctx, "ghost"); utils.KindOf(err) != utils.KindAuth {
			t.Errorf("Expected auth error, got %v", err)
		}
	})
}
