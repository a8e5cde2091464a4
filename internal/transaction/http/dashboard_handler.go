package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/pfm-dashboard/backend/internal/auth/http"
	apperrors "github.com/pfm-dashboard/backend/internal/errors"
	"github.com/pfm-dashboard/backend/internal/httputil"
	"github.com/pfm-dashboard/backend/internal/transaction/usecase"
)

// DashboardHandler handles dashboard aggregate HTTP requests.
type DashboardHandler struct {
	dashboardUseCase usecase.DashboardUseCase
	logger           *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardUseCase usecase.DashboardUseCase, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardUseCase: dashboardUseCase,
		logger:           logger,
	}
}

// SpendingByCategory handles GET /api/v1/dashboard/spending-by-category.
func (h *DashboardHandler) SpendingByCategory(c *gin.Context) {
	user := authHTTP.GetUser(c)
	if user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	totals, err := h.dashboardUseCase.SpendingByCategory(c.Request.Context(), user.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": totals})
}

// IncomeVsExpense handles GET /api/v1/dashboard/income-vs-expense.
func (h *DashboardHandler) IncomeVsExpense(c *gin.Context) {
	user := authHTTP.GetUser(c)
	if user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	result, err := h.dashboardUseCase.IncomeVsExpense(c.Request.Context(), user.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MonthlySummary handles GET /api/v1/dashboard/monthly-summary.
func (h *DashboardHandler) MonthlySummary(c *gin.Context) {
	user := authHTTP.GetUser(c)
	if user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	totals, err := h.dashboardUseCase.MonthlySummary(c.Request.Context(), user.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": totals})
}
