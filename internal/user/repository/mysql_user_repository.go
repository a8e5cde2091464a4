package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pfm-dashboard/backend/internal/database"
	"github.com/pfm-dashboard/backend/internal/user/domain"

	apperrors "github.com/pfm-dashboard/backend/internal/errors"
)

// MySQLUserRepository handles user persistence for MySQL
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{
		db: db,
	}
}

// Create inserts a new user
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, username, email, password, profile_picture, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	// UUIDs are stored as BINARY(16) in MySQL
	uuidBytes, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	// Timestamps are written back so callers can return them without a re-read.
	now := time.Now().UTC()
	_, err = querier.ExecContext(ctx, query, uuidBytes, user.Username, user.Email, user.Password, user.ProfilePicture, now, now)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return mysqlUniqueViolationError(err)
		}
		return apperrors.Wrap(err, "failed to create user")
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByID retrieves a user by ID
func (r *MySQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	uuidBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	return r.getBy(ctx, `id = ?`, uuidBytes)
}

// GetByUsername retrieves a user by username
func (r *MySQLUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, `username = ?`, username)
}

// GetByEmail retrieves a user by email
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, `email = ?`, email)
}

// Update persists changes to username, email and profile picture
func (r *MySQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET username = ?, email = ?, profile_picture = ?, updated_at = NOW()
			  WHERE id = ?`

	uuidBytes, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, query, user.Username, user.Email, user.ProfilePicture, uuidBytes)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return mysqlUniqueViolationError(err)
		}
		return apperrors.Wrap(err, "failed to update user")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *MySQLUserRepository) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	var user domain.User
	var idBytes []byte
	var profilePicture sql.NullString
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, username, email, password, profile_picture, created_at, updated_at
			  FROM users WHERE ` + where

	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&idBytes, &user.Username, &user.Email, &user.Password, &profilePicture, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	if user.ID, err = uuid.FromBytes(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	user.ProfilePicture = profilePicture.String

	return &user, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "error 1062")
}

// mysqlUniqueViolationError maps a duplicate entry error to the colliding
// identity field using the index name in the error message.
func mysqlUniqueViolationError(err error) error {
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "email") {
		return domain.ErrEmailExists
	}
	return domain.ErrUsernameExists
}
