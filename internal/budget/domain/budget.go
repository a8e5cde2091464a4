// Package domain contains the budget entity and its domain errors.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/pfm-dashboard/backend/internal/errors"
)

// Budget is a monthly spending limit for one category. One budget exists per
// (user, category, month); writes for an existing combination replace the
// amount.
type Budget struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Month     string    `json:"month"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrBudgetNotFound is returned when the budget does not exist or belongs to
// another account.
var ErrBudgetNotFound = errors.Wrap(errors.ErrNotFound, "budget not found")
