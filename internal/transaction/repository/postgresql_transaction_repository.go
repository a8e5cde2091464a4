// Package repository provides data persistence implementations for transactions.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pfm-dashboard/backend/internal/database"
	apperrors "github.com/pfm-dashboard/backend/internal/errors"
	"github.com/pfm-dashboard/backend/internal/transaction/domain"
)

// PostgreSQLTransactionRepository handles transaction persistence for PostgreSQL
type PostgreSQLTransactionRepository struct {
	db *sql.DB
}

// NewPostgreSQLTransactionRepository creates a new PostgreSQLTransactionRepository
func NewPostgreSQLTransactionRepository(db *sql.DB) *PostgreSQLTransactionRepository {
	return &PostgreSQLTransactionRepository{
		db: db,
	}
}

const pgTransactionColumns = `id, user_id, external_id, name, amount, iso_currency_code, date, category, pending, created_at, updated_at`

// Create inserts a new transaction
func (r *PostgreSQLTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO transactions (id, user_id, external_id, name, amount, iso_currency_code, date, category, pending, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query,
		tx.ID, tx.UserID, tx.ExternalID, tx.Name, tx.Amount, tx.ISOCurrencyCode, tx.Date, tx.Category, tx.Pending,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTransactionExists
		}
		return apperrors.Wrap(err, "failed to create transaction")
	}
	return nil
}

// GetByID retrieves a transaction owned by the given user
func (r *PostgreSQLTransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgTransactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`

	tx, err := scanTransaction(querier.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get transaction")
	}
	return tx, nil
}

// ListByUser retrieves the user's most recent transactions, newest first
func (r *PostgreSQLTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Transaction, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgTransactionColumns + ` FROM transactions
			  WHERE user_id = $1 ORDER BY date DESC, created_at DESC LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list transactions")
	}
	defer func() { _ = rows.Close() }()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan transaction")
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate transactions")
	}

	return transactions, nil
}

// Update modifies a transaction owned by the given user
func (r *PostgreSQLTransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE transactions SET name = $1, amount = $2, date = $3, category = $4, updated_at = NOW()
			  WHERE id = $5 AND user_id = $6`

	result, err := querier.ExecContext(ctx, query, tx.Name, tx.Amount, tx.Date, tx.Category, tx.ID, tx.UserID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update transaction")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// Delete removes a transaction owned by the given user
func (r *PostgreSQLTransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete transaction")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SpendingByCategory sums expenses per category over the period. Positive
// amounts are expenses.
func (r *PostgreSQLTransactionRepository) SpendingByCategory(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.CategoryTotal, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT category, SUM(amount) FROM transactions
			  WHERE user_id = $1 AND amount > 0 AND date >= $2 AND date <= $3
			  GROUP BY category ORDER BY SUM(amount) DESC`

	rows, err := querier.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate spending by category")
	}
	defer func() { _ = rows.Close() }()

	totals := make([]*domain.CategoryTotal, 0)
	for rows.Next() {
		total := &domain.CategoryTotal{}
		if err := rows.Scan(&total.Name, &total.Value); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan category total")
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate category totals")
	}

	return totals, nil
}

// IncomeExpense sums income (negative amounts) against expenses (positive
// amounts) over the period.
func (r *PostgreSQLTransactionRepository) IncomeExpense(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) (*domain.IncomeExpense, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT
				COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0)
			  FROM transactions WHERE user_id = $1 AND date >= $2 AND date <= $3`

	result := &domain.IncomeExpense{}
	err := querier.QueryRowContext(ctx, query, userID, from, to).Scan(&result.Income, &result.Expense)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate income vs expense")
	}

	result.Net = result.Income - result.Expense
	return result, nil
}

// MonthlySummary aggregates income and expenses per calendar month.
func (r *PostgreSQLTransactionRepository) MonthlySummary(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.MonthlyTotal, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT
				to_char(date, 'YYYY-MM') AS month,
				COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0)
			  FROM transactions WHERE user_id = $1 AND date >= $2 AND date <= $3
			  GROUP BY month ORDER BY month`

	rows, err := querier.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate monthly summary")
	}
	defer func() { _ = rows.Close() }()

	totals := make([]*domain.MonthlyTotal, 0)
	for rows.Next() {
		total := &domain.MonthlyTotal{}
		if err := rows.Scan(&total.Month, &total.Income, &total.Expense); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan monthly total")
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate monthly totals")
	}

	return totals, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	var currency sql.NullString

	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.ExternalID, &tx.Name, &tx.Amount, &currency,
		&tx.Date, &tx.Category, &tx.Pending, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.ISOCurrencyCode = currency.String
	return &tx, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
