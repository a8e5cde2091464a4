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

// MySQLBudgetRepository handles budget persistence for MySQL
type MySQLBudgetRepository struct {
	db *sql.DB
}

// NewMySQLBudgetRepository creates a new MySQLBudgetRepository
func NewMySQLBudgetRepository(db *sql.DB) *MySQLBudgetRepository {
	return &MySQLBudgetRepository{
		db: db,
	}
}

// Upsert inserts the budget or replaces the amount of the existing
// (user, category, month) row, returning the stored budget. MySQL has no
// RETURNING, so the row is read back after the write.
func (r *MySQLBudgetRepository) Upsert(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := budget.ID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := budget.UserID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO budgets (id, user_id, category, amount, month, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, NOW(), NOW())
			  ON DUPLICATE KEY UPDATE amount = VALUES(amount), updated_at = NOW()`

	_, err = querier.ExecContext(ctx, query, idBytes, userIDBytes, budget.Category, budget.Amount, budget.Month)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to upsert budget")
	}

	return r.getByKey(ctx, userIDBytes, budget.Category, budget.Month)
}

// ListByUserAndMonth retrieves the user's budgets for one month
func (r *MySQLBudgetRepository) ListByUserAndMonth(
	ctx context.Context,
	userID uuid.UUID,
	month string,
) ([]*domain.Budget, error) {
	querier := database.GetTx(ctx, r.db)

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, user_id, category, amount, month, created_at, updated_at
			  FROM budgets WHERE user_id = ? AND month = ? ORDER BY category`

	rows, err := querier.QueryContext(ctx, query, userIDBytes, month)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list budgets")
	}
	defer func() { _ = rows.Close() }()

	budgets := make([]*domain.Budget, 0)
	for rows.Next() {
		budget, err := scanMySQLBudget(rows)
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
func (r *MySQLBudgetRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND user_id = ?`, idBytes, userIDBytes)
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
func (r *MySQLBudgetRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Budget, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, user_id, category, amount, month, created_at, updated_at
			  FROM budgets WHERE id = ? AND user_id = ?`

	budget, err := scanMySQLBudget(querier.QueryRowContext(ctx, query, idBytes, userIDBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get budget")
	}

	return budget, nil
}

func (r *MySQLBudgetRepository) getByKey(ctx context.Context, userIDBytes []byte, category, month string) (*domain.Budget, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, category, amount, month, created_at, updated_at
			  FROM budgets WHERE user_id = ? AND category = ? AND month = ?`

	budget, err := scanMySQLBudget(querier.QueryRowContext(ctx, query, userIDBytes, category, month))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read back budget")
	}
	return budget, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLBudget(row rowScanner) (*domain.Budget, error) {
	budget := &domain.Budget{}
	var idBytes, userIDBytes []byte

	err := row.Scan(
		&idBytes, &userIDBytes, &budget.Category, &budget.Amount, &budget.Month,
		&budget.CreatedAt, &budget.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if budget.ID, err = uuid.FromBytes(idBytes); err != nil {
		return nil, err
	}
	if budget.UserID, err = uuid.FromBytes(userIDBytes); err != nil {
		return nil, err
	}

	return budget, nil
}
