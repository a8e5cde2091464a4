// Package dto provides data transfer objects for the budget HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/pfm-dashboard/backend/internal/budget/domain"
	"github.com/pfm-dashboard/backend/internal/budget/usecase"
)

// UpsertBudgetRequest represents the API request for creating or replacing a
// budget. Month defaults to the current calendar month when omitted.
type UpsertBudgetRequest struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Month    string  `json:"month"`
}

// ToUpsertInput converts the request DTO to a use case input.
func ToUpsertInput(req UpsertBudgetRequest) usecase.UpsertBudgetInput {
	return usecase.UpsertBudgetInput{
		Category: req.Category,
		Amount:   req.Amount,
		Month:    req.Month,
	}
}

// BudgetResponse represents the API response for a budget.
type BudgetResponse struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Month     string    `json:"month"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToBudgetResponse converts a domain Budget to a response DTO.
func ToBudgetResponse(budget *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:        budget.ID,
		Category:  budget.Category,
		Amount:    budget.Amount,
		Month:     budget.Month,
		CreatedAt: budget.CreatedAt,
		UpdatedAt: budget.UpdatedAt,
	}
}

// ToBudgetListResponse converts a list of budgets.
func ToBudgetListResponse(budgets []*domain.Budget) []BudgetResponse {
	result := make([]BudgetResponse, 0, len(budgets))
	for _, budget := range budgets {
		result = append(result, ToBudgetResponse(budget))
	}
	return result
}
