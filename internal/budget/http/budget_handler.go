// Package http provides HTTP handlers for budget operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/pfm-dashboard/backend/internal/auth/http"
	"github.com/pfm-dashboard/backend/internal/budget/http/dto"
	"github.com/pfm-dashboard/backend/internal/budget/usecase"
	apperrors "github.com/pfm-dashboard/backend/internal/errors"
	"github.com/pfm-dashboard/backend/internal/httputil"
)

// BudgetHandler handles budget HTTP requests.
type BudgetHandler struct {
	budgetUseCase usecase.UseCase
	logger        *slog.Logger
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetUseCase usecase.UseCase, logger *slog.Logger) *BudgetHandler {
	return &BudgetHandler{
		budgetUseCase: budgetUseCase,
		logger:        logger,
	}
}

// List handles GET /api/v1/budgets.
func (h *BudgetHandler) List(c *gin.Context) {
	user := authHTTP.GetUser(c)
	if user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	budgets, err := h.budgetUseCase.List(c.Request.Context(), user.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": dto.ToBudgetListResponse(budgets)})
}

// Upsert handles POST /api/v1/budgets.
func (h *BudgetHandler) Upsert(c *gin.Context) {
	user := authHTTP.GetUser(c)
	if user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.UpsertBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	budget, err := h.budgetUseCase.Upsert(c.Request.Context(), user.ID, dto.ToUpsertInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": dto.ToBudgetResponse(budget)})
}

// Delete handles DELETE /api/v1/budgets/:id.
func (h *BudgetHandler) Delete(c *gin.Context) {
	user := authHTTP.GetUser(c)
	if user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.budgetUseCase.Delete(c.Request.Context(), user.ID, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}
