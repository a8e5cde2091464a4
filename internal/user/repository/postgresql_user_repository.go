// Package repository provides data persistence implementations for user entities.
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

// PostgreSQLUserRepository handles user persistence for PostgreSQL
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{
		db: db,
	}
}

// Create inserts a new user
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, username, email, password, profile_picture, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	// Timestamps are written back so callers can return them without a re-read.
	now := time.Now().UTC()
	_, err := querier.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.Password, user.ProfilePicture, now, now)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return uniqueViolationError(err)
		}
		return apperrors.Wrap(err, "failed to create user")
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByID retrieves a user by ID
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getBy(ctx, `id = $1`, id)
}

// GetByUsername retrieves a user by username
func (r *PostgreSQLUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, `username = $1`, username)
}

// GetByEmail retrieves a user by email
func (r *PostgreSQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, `email = $1`, email)
}

// Update persists changes to username, email and profile picture
func (r *PostgreSQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET username = $1, email = $2, profile_picture = $3, updated_at = NOW()
			  WHERE id = $4`

	result, err := querier.ExecContext(ctx, query, user.Username, user.Email, user.ProfilePicture, user.ID)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return uniqueViolationError(err)
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

func (r *PostgreSQLUserRepository) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	var user domain.User
	var profilePicture sql.NullString
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, username, email, password, profile_picture, created_at, updated_at
			  FROM users WHERE ` + where

	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password, &profilePicture, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	user.ProfilePicture = profilePicture.String
	return &user, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

// uniqueViolationError maps a unique violation to the colliding identity
// field. Constraint names are part of the schema contract.
func uniqueViolationError(err error) error {
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "email") {
		return domain.ErrEmailExists
	}
	return domain.ErrUsernameExists
}
