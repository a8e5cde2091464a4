// Package usecase implements transaction and dashboard business logic.
package usecase

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/pfm-dashboard/backend/internal/transaction/domain"
	"github.com/pfm-dashboard/backend/internal/transaction/service"
	appValidation "github.com/pfm-dashboard/backend/internal/validation"
)

// recentTransactionsLimit caps how many transactions the list endpoint returns.
const recentTransactionsLimit = 50

// CreateTransactionInput contains the input data for a manual transaction.
type CreateTransactionInput struct {
	Name     string    `json:"name"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
}

// UpdateTransactionInput contains the input data for a transaction update.
type UpdateTransactionInput struct {
	Name     string    `json:"name"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
}

// UseCase defines transaction operations.
type UseCase interface {
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error)
	Update(ctx context.Context, userID, id uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// DashboardUseCase defines the dashboard aggregate operations.
type DashboardUseCase interface {
	SpendingByCategory(ctx context.Context, userID uuid.UUID) ([]*domain.CategoryTotal, error)
	IncomeVsExpense(ctx context.Context, userID uuid.UUID) (*domain.IncomeExpense, error)
	MonthlySummary(ctx context.Context, userID uuid.UUID) ([]*domain.MonthlyTotal, error)
}

// TransactionRepository defines transaction persistence operations.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Transaction, error)
	Update(ctx context.Context, tx *domain.Transaction) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SpendingByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.CategoryTotal, error)
	IncomeExpense(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.IncomeExpense, error)
	MonthlySummary(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.MonthlyTotal, error)
}

// TransactionUseCase handles transaction business logic.
type TransactionUseCase struct {
	repo TransactionRepository
	now  func() time.Time
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(repo TransactionRepository) *TransactionUseCase {
	return &TransactionUseCase{
		repo: repo,
		now:  time.Now,
	}
}

// List returns the user's most recent transactions, newest first.
func (uc *TransactionUseCase) List(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	return uc.repo.ListByUser(ctx, userID, recentTransactionsLimit)
}

func validateTransactionFields(name string, date time.Time) error {
	err := validation.Errors{
		"name": validation.Validate(name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		"date": validation.Validate(date,
			validation.Required.Error("date is required"),
		),
	}.Filter()
	return appValidation.WrapValidationError(err)
}

// Create stores a manual transaction. When no category is given one is
// derived from the transaction name and amount.
func (uc *TransactionUseCase) Create(
	ctx context.Context,
	userID uuid.UUID,
	input CreateTransactionInput,
) (*domain.Transaction, error) {
	if err := validateTransactionFields(input.Name, input.Date); err != nil {
		return nil, err
	}

	category := input.Category
	if category == "" {
		category = service.Categorize(input.Name, "", input.Amount)
	}

	tx := &domain.Transaction{
		ID:         uuid.Must(uuid.NewV7()),
		UserID:     userID,
		ExternalID: "manual_" + uuid.NewString(),
		Name:       input.Name,
		Amount:     input.Amount,
		Date:       input.Date,
		Category:   category,
	}

	if err := uc.repo.Create(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Update modifies a transaction owned by the user.
func (uc *TransactionUseCase) Update(
	ctx context.Context,
	userID, id uuid.UUID,
	input UpdateTransactionInput,
) (*domain.Transaction, error) {
	if err := validateTransactionFields(input.Name, input.Date); err != nil {
		return nil, err
	}

	tx, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	tx.Name = input.Name
	tx.Amount = input.Amount
	tx.Date = input.Date
	if input.Category != "" {
		tx.Category = input.Category
	}

	if err := uc.repo.Update(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Delete removes a transaction owned by the user.
func (uc *TransactionUseCase) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return uc.repo.Delete(ctx, userID, id)
}

// SpendingByCategory sums the current month's expenses per category.
func (uc *TransactionUseCase) SpendingByCategory(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.CategoryTotal, error) {
	from, to := uc.currentMonthRange()

	totals, err := uc.repo.SpendingByCategory(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	for _, total := range totals {
		total.Value = round2(total.Value)
	}
	return totals, nil
}

// IncomeVsExpense sums the current month's income against its expenses.
func (uc *TransactionUseCase) IncomeVsExpense(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.IncomeExpense, error) {
	from, to := uc.currentMonthRange()

	result, err := uc.repo.IncomeExpense(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	result.Income = round2(result.Income)
	result.Expense = round2(result.Expense)
	result.Net = round2(result.Net)
	return result, nil
}

// MonthlySummary aggregates the last six calendar months, oldest first.
func (uc *TransactionUseCase) MonthlySummary(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.MonthlyTotal, error) {
	now := uc.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -5, 0)

	totals, err := uc.repo.MonthlySummary(ctx, userID, from, now)
	if err != nil {
		return nil, err
	}

	for _, total := range totals {
		total.Income = round2(total.Income)
		total.Expense = round2(total.Expense)
	}
	return totals, nil
}

func (uc *TransactionUseCase) currentMonthRange() (time.Time, time.Time) {
	now := uc.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, now
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
