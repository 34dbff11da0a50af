package userRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"carwash/database"
	"carwash/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteUserRepo implements UserRepository on the relational Users table.
type SQLiteUserRepo struct {
	db *sql.DB
}

func NewSQLiteUserRepo(db *sql.DB) UserRepository {
	return &SQLiteUserRepo{db: db}
}

const userColumns = `UserID, FullName, PhoneNumber, Email, PasswordHash, UserRole, CreatedAt`

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM Users WHERE UserID = ?`, id)
}

func (r *SQLiteUserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM Users ORDER BY CreatedAt, UserID`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *SQLiteUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM Users WHERE Email = ? OR FullName = ? ORDER BY CreatedAt LIMIT 1`, identifier, identifier)
}

func (r *SQLiteUserRepo) getOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// scanUser reads userColumns through scan, which is a Row or Rows Scan method.
func scanUser(scan func(dest ...interface{}) error) (*models.User, error) {
	var (
		u         models.User
		createdAt string
	)
	err := scan(&u.ID, &u.FullName, &u.PhoneNumber, &u.Email, &u.PasswordHash, &u.Role, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if u.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse user created_at: %w", err)
	}
	return &u, nil
}

func (r *SQLiteUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO Users (UserID, FullName, PhoneNumber, Email, PasswordHash, UserRole, CreatedAt)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.FullName,
		user.PhoneNumber,
		user.Email,
		user.PasswordHash,
		user.Role,
		database.FormatTime(user.CreatedAt))
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}
