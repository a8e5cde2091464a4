package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfm-dashboard/backend/internal/budget/domain"
	apperrors "github.com/pfm-dashboard/backend/internal/errors"
)

type fakeBudgetRepo struct {
	mu      sync.Mutex
	budgets map[uuid.UUID]*domain.Budget
}

func newFakeBudgetRepo() *fakeBudgetRepo {
	return &fakeBudgetRepo{budgets: make(map[uuid.UUID]*domain.Budget)}
}

func (r *fakeBudgetRepo) Upsert(_ context.Context, budget *domain.Budget) (*domain.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.budgets {
		if existing.UserID == budget.UserID && existing.Category == budget.Category && existing.Month == budget.Month {
			existing.Amount = budget.Amount
			copied := *existing
			return &copied, nil
		}
	}
	copied := *budget
	r.budgets[budget.ID] = &copied
	result := copied
	return &result, nil
}

func (r *fakeBudgetRepo) ListByUserAndMonth(_ context.Context, userID uuid.UUID, month string) ([]*domain.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*domain.Budget, 0)
	for _, budget := range r.budgets {
		if budget.UserID == userID && budget.Month == month {
			copied := *budget
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result, nil
}

func (r *fakeBudgetRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if budget, ok := r.budgets[id]; ok && budget.UserID == userID {
		delete(r.budgets, id)
		return nil
	}
	return domain.ErrBudgetNotFound
}

func (r *fakeBudgetRepo) GetByID(_ context.Context, userID, id uuid.UUID) (*domain.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if budget, ok := r.budgets[id]; ok && budget.UserID == userID {
		copied := *budget
		return &copied, nil
	}
	return nil, domain.ErrBudgetNotFound
}

func TestBudgetUpsert(t *testing.T) {
	repo := newFakeBudgetRepo()
	uc := NewBudgetUseCase(repo)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())

	budget, err := uc.Upsert(ctx, userID, UpsertBudgetInput{Category: "Food and Drink", Amount: 400})
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01"), budget.Month)
	assert.Equal(t, 400.0, budget.Amount)

	// Same category and month replaces the amount, no duplicate row.
	replaced, err := uc.Upsert(ctx, userID, UpsertBudgetInput{Category: "Food and Drink", Amount: 250})
	require.NoError(t, err)
	assert.Equal(t, budget.ID, replaced.ID)
	assert.Equal(t, 250.0, replaced.Amount)

	budgets, err := uc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, 250.0, budgets[0].Amount)
}

func TestBudgetUpsertExplicitMonth(t *testing.T) {
	repo := newFakeBudgetRepo()
	uc := NewBudgetUseCase(repo)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())

	_, err := uc.Upsert(ctx, userID, UpsertBudgetInput{Category: "Shopping", Amount: 100, Month: "2026-01"})
	require.NoError(t, err)

	// Another month: independent row, not listed for the current month.
	budgets, err := uc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, budgets)
}

func TestBudgetUpsertValidation(t *testing.T) {
	repo := newFakeBudgetRepo()
	uc := NewBudgetUseCase(repo)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())

	tests := []struct {
		name  string
		input UpsertBudgetInput
	}{
		{"missing category", UpsertBudgetInput{Amount: 100}},
		{"negative amount", UpsertBudgetInput{Category: "Food and Drink", Amount: -5}},
		{"bad month format", UpsertBudgetInput{Category: "Food and Drink", Amount: 100, Month: "January"}},
		{"bad month number", UpsertBudgetInput{Category: "Food and Drink", Amount: 100, Month: "2026-13"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Upsert(ctx, userID, tt.input)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		})
	}
}

func TestBudgetListScopedToUser(t *testing.T) {
	repo := newFakeBudgetRepo()
	uc := NewBudgetUseCase(repo)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())
	otherID := uuid.Must(uuid.NewV7())

	_, err := uc.Upsert(ctx, userID, UpsertBudgetInput{Category: "Food and Drink", Amount: 400})
	require.NoError(t, err)
	_, err = uc.Upsert(ctx, otherID, UpsertBudgetInput{Category: "Shopping", Amount: 100})
	require.NoError(t, err)

	budgets, err := uc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, "Food and Drink", budgets[0].Category)
}

func TestBudgetDelete(t *testing.T) {
	repo := newFakeBudgetRepo()
	uc := NewBudgetUseCase(repo)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())

	budget, err := uc.Upsert(ctx, userID, UpsertBudgetInput{Category: "Food and Drink", Amount: 400})
	require.NoError(t, err)

	// Other users cannot delete it.
	err = uc.Delete(ctx, uuid.Must(uuid.NewV7()), budget.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	require.NoError(t, uc.Delete(ctx, userID, budget.ID))
	assert.True(t, apperrors.Is(uc.Delete(ctx, userID, budget.ID), apperrors.ErrNotFound))
}
