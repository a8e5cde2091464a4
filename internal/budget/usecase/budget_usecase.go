// Package usecase implements budget business logic.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/pfm-dashboard/backend/internal/budget/domain"
	appValidation "github.com/pfm-dashboard/backend/internal/validation"
)

// UpsertBudgetInput contains the input data for creating or replacing a
// budget. Month is optional and defaults to the current calendar month.
type UpsertBudgetInput struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Month    string  `json:"month"`
}

// UseCase defines the budget operations.
type UseCase interface {
	// List returns the user's budgets for the current month.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error)
	// Upsert creates the budget or replaces the amount for the existing
	// (category, month) pair.
	Upsert(ctx context.Context, userID uuid.UUID, input UpsertBudgetInput) (*domain.Budget, error)
	// Delete removes a budget owned by the user.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// BudgetRepository defines budget persistence operations.
type BudgetRepository interface {
	Upsert(ctx context.Context, budget *domain.Budget) (*domain.Budget, error)
	ListByUserAndMonth(ctx context.Context, userID uuid.UUID, month string) ([]*domain.Budget, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Budget, error)
}

// BudgetUseCase handles budget business logic.
type BudgetUseCase struct {
	repo BudgetRepository
	now  func() time.Time
}

// NewBudgetUseCase creates a new BudgetUseCase.
func NewBudgetUseCase(repo BudgetRepository) *BudgetUseCase {
	return &BudgetUseCase{
		repo: repo,
		now:  time.Now,
	}
}

// List returns the user's budgets for the current month.
func (uc *BudgetUseCase) List(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	return uc.repo.ListByUserAndMonth(ctx, userID, uc.currentMonth())
}

func validateUpsertBudgetInput(input UpsertBudgetInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Category,
			validation.Required.Error("category is required"),
			appValidation.NotBlank,
			validation.Length(1, 100).Error("category must be between 1 and 100 characters"),
		),
		validation.Field(&input.Amount,
			validation.Min(0.0).Error("amount must not be negative"),
		),
		validation.Field(&input.Month,
			validation.When(input.Month != "", appValidation.Month),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Upsert creates or replaces the budget for (category, month).
func (uc *BudgetUseCase) Upsert(
	ctx context.Context,
	userID uuid.UUID,
	input UpsertBudgetInput,
) (*domain.Budget, error) {
	if err := validateUpsertBudgetInput(input); err != nil {
		return nil, err
	}

	month := input.Month
	if month == "" {
		month = uc.currentMonth()
	}

	budget := &domain.Budget{
		ID:       uuid.Must(uuid.NewV7()),
		UserID:   userID,
		Category: input.Category,
		Amount:   input.Amount,
		Month:    month,
	}

	return uc.repo.Upsert(ctx, budget)
}

// Delete removes a budget owned by the user.
func (uc *BudgetUseCase) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return uc.repo.Delete(ctx, userID, id)
}

func (uc *BudgetUseCase) currentMonth() string {
	return uc.now().Format("2006-01")
}
