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

// MySQLTransactionRepository handles transaction persistence for MySQL
type MySQLTransactionRepository struct {
	db *sql.DB
}

// NewMySQLTransactionRepository creates a new MySQLTransactionRepository
func NewMySQLTransactionRepository(db *sql.DB) *MySQLTransactionRepository {
	return &MySQLTransactionRepository{
		db: db,
	}
}

const mysqlTransactionColumns = `id, user_id, external_id, name, amount, iso_currency_code, date, category, pending, created_at, updated_at`

// Create inserts a new transaction
func (r *MySQLTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO transactions (id, user_id, external_id, name, amount, iso_currency_code, date, category, pending, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	idBytes, userIDBytes, err := marshalIDs(tx.ID, tx.UserID)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query,
		idBytes, userIDBytes, tx.ExternalID, tx.Name, tx.Amount, tx.ISOCurrencyCode, tx.Date, tx.Category, tx.Pending,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrTransactionExists
		}
		return apperrors.Wrap(err, "failed to create transaction")
	}
	return nil
}

// GetByID retrieves a transaction owned by the given user
func (r *MySQLTransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, userIDBytes, err := marshalIDs(id, userID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + mysqlTransactionColumns + ` FROM transactions WHERE id = ? AND user_id = ?`

	tx, err := scanMySQLTransaction(querier.QueryRowContext(ctx, query, idBytes, userIDBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get transaction")
	}
	return tx, nil
}

// ListByUser retrieves the user's most recent transactions, newest first
func (r *MySQLTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Transaction, error) {
	querier := database.GetTx(ctx, r.db)

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT ` + mysqlTransactionColumns + ` FROM transactions
			  WHERE user_id = ? ORDER BY date DESC, created_at DESC LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, userIDBytes, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list transactions")
	}
	defer func() { _ = rows.Close() }()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanMySQLTransaction(rows)
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
func (r *MySQLTransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, userIDBytes, err := marshalIDs(tx.ID, tx.UserID)
	if err != nil {
		return err
	}

	query := `UPDATE transactions SET name = ?, amount = ?, date = ?, category = ?, updated_at = NOW()
			  WHERE id = ? AND user_id = ?`

	result, err := querier.ExecContext(ctx, query, tx.Name, tx.Amount, tx.Date, tx.Category, idBytes, userIDBytes)
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
func (r *MySQLTransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, userIDBytes, err := marshalIDs(id, userID)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, idBytes, userIDBytes)
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

// SpendingByCategory sums expenses per category over the period
func (r *MySQLTransactionRepository) SpendingByCategory(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.CategoryTotal, error) {
	querier := database.GetTx(ctx, r.db)

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT category, SUM(amount) FROM transactions
			  WHERE user_id = ? AND amount > 0 AND date >= ? AND date <= ?
			  GROUP BY category ORDER BY SUM(amount) DESC`

	rows, err := querier.QueryContext(ctx, query, userIDBytes, from, to)
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

// IncomeExpense sums income against expenses over the period
func (r *MySQLTransactionRepository) IncomeExpense(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) (*domain.IncomeExpense, error) {
	querier := database.GetTx(ctx, r.db)

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT
				COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0)
			  FROM transactions WHERE user_id = ? AND date >= ? AND date <= ?`

	result := &domain.IncomeExpense{}
	err = querier.QueryRowContext(ctx, query, userIDBytes, from, to).Scan(&result.Income, &result.Expense)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate income vs expense")
	}

	result.Net = result.Income - result.Expense
	return result, nil
}

// MonthlySummary aggregates income and expenses per calendar month
func (r *MySQLTransactionRepository) MonthlySummary(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.MonthlyTotal, error) {
	querier := database.GetTx(ctx, r.db)

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT
				DATE_FORMAT(date, '%Y-%m') AS month,
				COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0)
			  FROM transactions WHERE user_id = ? AND date >= ? AND date <= ?
			  GROUP BY month ORDER BY month`

	rows, err := querier.QueryContext(ctx, query, userIDBytes, from, to)
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

func scanMySQLTransaction(row rowScanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	var idBytes, userIDBytes []byte
	var currency sql.NullString

	err := row.Scan(
		&idBytes, &userIDBytes, &tx.ExternalID, &tx.Name, &tx.Amount, &currency,
		&tx.Date, &tx.Category, &tx.Pending, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tx.ID, err = uuid.FromBytes(idBytes); err != nil {
		return nil, err
	}
	if tx.UserID, err = uuid.FromBytes(userIDBytes); err != nil {
		return nil, err
	}
	tx.ISOCurrencyCode = currency.String

	return &tx, nil
}

func marshalIDs(id, userID uuid.UUID) (idBytes, userIDBytes []byte, err error) {
	if idBytes, err = id.MarshalBinary(); err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	if userIDBytes, err = userID.MarshalBinary(); err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	return idBytes, userIDBytes, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "error 1062")
}
