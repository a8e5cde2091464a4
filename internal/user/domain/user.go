// Package domain contains the user entity and its domain errors.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/pfm-dashboard/backend/internal/errors"
)

// User represents an account holder.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

var (
	// ErrUserNotFound is returned when the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUsernameExists is returned when the username is already taken.
	// The message is sent verbatim to clients.
	ErrUsernameExists = errors.Wrap(errors.ErrConflict, "username already exists")

	// ErrEmailExists is returned when the email is already registered.
	// The message is sent verbatim to clients.
	ErrEmailExists = errors.Wrap(errors.ErrConflict, "email already exists")
)
