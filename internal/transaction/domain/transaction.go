// Package domain contains the transaction entity and dashboard aggregates.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/pfm-dashboard/backend/internal/errors"
)

// Transaction represents a single ledger entry. Amounts follow the bank
// convention: positive is an expense, negative is income.
type Transaction struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	ExternalID      string    `json:"externalId"`
	Name            string    `json:"name"`
	Amount          float64   `json:"amount"`
	ISOCurrencyCode string    `json:"isoCurrencyCode,omitempty"`
	Date            time.Time `json:"date"`
	Category        string    `json:"category"`
	Pending         bool      `json:"pending"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CategoryTotal is a spending aggregate for one category.
type CategoryTotal struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// IncomeExpense is a period aggregate of income against expenses.
type IncomeExpense struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// MonthlyTotal is an aggregate of one calendar month, keyed "YYYY-MM".
type MonthlyTotal struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

var (
	// ErrTransactionNotFound is returned when the transaction does not exist
	// or belongs to another account.
	ErrTransactionNotFound = errors.Wrap(errors.ErrNotFound, "transaction not found")

	// ErrTransactionExists is returned when the external id is already stored.
	ErrTransactionExists = errors.Wrap(errors.ErrConflict, "transaction already exists")
)
