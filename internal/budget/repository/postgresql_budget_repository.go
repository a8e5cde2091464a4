// Package repository provides data persistence implementations for budgets.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/pfm-dashboard/backend/internal/budget/domain"
	"github.com/pfm-dashboard/backend/internal/database"
	apperrors "github.com/pfm-dashboard/backend/internal/errors"
)

// PostgreSQLBudgetRepository handles budget persistence for PostgreSQL
type PostgreSQLBudgetRepository struct {
	db *sql.DB
}

// NewPostgreSQLBudgetRepository creates a new PostgreSQLBudgetRepository
func NewPostgreSQLBudgetRepository(db *sql.DB) *PostgreSQLBudgetRepository {
	return &PostgreSQLBudgetRepository{
		db: db,
	}
}

// Upsert inserts the budget or replaces the amount of the existing
// (user, category, month) row, returning the stored budget.
func (r *PostgreSQLBudgetRepository) Upsert(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO budgets (id, user_id, category, amount, month, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			  ON CONFLICT (user_id, category, month)
			  DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
			  RETURNING id, user_id, category, amount, month, created_at, updated_at`

	stored := &domain.Budget{}
	err := querier.QueryRowContext(ctx, query,
		budget.ID, budget.UserID, budget.Category, budget.Amount, budget.Month,
	).Scan(
		&stored.ID, &stored.UserID, &stored.Category, &stored.Amount, &stored.Month,
		&stored.CreatedAt, &stored.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to upsert budget")
	}

	return stored, nil
}

// ListByUserAndMonth retrieves the user's budgets for one month
func (r *PostgreSQLBudgetRepository) ListByUserAndMonth(
	ctx context.Context,
	userID uuid.UUID,
	month string,
) ([]*domain.Budget, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, category, amount, month, created_at, updated_at
			  FROM budgets WHERE user_id = $1 AND month = $2 ORDER BY category`

	rows, err := querier.QueryContext(ctx, query, userID, month)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list budgets")
	}
	defer func() { _ = rows.Close() }()

	budgets := make([]*domain.Budget, 0)
	for rows.Next() {
		budget := &domain.Budget{}
		err := rows.Scan(
			&budget.ID, &budget.UserID, &budget.Category, &budget.Amount, &budget.Month,
			&budget.CreatedAt, &budget.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan budget")
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate budgets")
	}

	return budgets, nil
}

// Delete removes a budget owned by the given user
func (r *PostgreSQLBudgetRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete budget")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

// GetByID retrieves a budget owned by the given user
func (r *PostgreSQLBudgetRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Budget, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, category, amount, month, created_at, updated_at
			  FROM budgets WHERE id = $1 AND user_id = $2`

	budget := &domain.Budget{}
	err := querier.QueryRowContext(ctx, query, id, userID).Scan(
		&budget.ID, &budget.UserID, &budget.Category, &budget.Amount, &budget.Month,
		&budget.CreatedAt, &budget.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get budget")
	}

	return budget, nil
}
