// Package http provides HTTP handlers for transactions and dashboard aggregates.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/pfm-dashboard/backend/internal/auth/http"
	apperrors "github.com/pfm-dashboard/backend/internal/errors"
	"github.com/pfm-dashboard/backend/internal/httputil"
	"github.com/pfm-dashboard/backend/internal/transaction/http/dto"
	"github.com/pfm-dashboard/backend/internal/transaction/usecase"
)

// TransactionHandler handles transaction HTTP requests.
type TransactionHandler struct {
	transactionUseCase usecase.UseCase
	logger             *slog.Logger
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUseCase usecase.UseCase, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionUseCase: transactionUseCase,
		logger:             logger,
	}
}

// List handles GET /api/v1/transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	user := authHTTP.GetUser(c)
	if user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	transactions, err := h.transactionUseCase.List(c.Request.Context(), user.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": dto.ToTransactionListResponse(transactions)})
}

// Create handles POST /api/v1/transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	user := authHTTP.GetUser(c)
	if user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	input, err := req.ToCreateInput()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	tx, err := h.transactionUseCase.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": dto.ToTransactionResponse(tx)})
}

// Update handles PUT /api/v1/transactions/:id.
func (h *TransactionHandler) Update(c *gin.Context) {
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

	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	input, err := req.ToUpdateInput()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	tx, err := h.transactionUseCase.Update(c.Request.Context(), user.ID, id, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": dto.ToTransactionResponse(tx)})
}

// Delete handles DELETE /api/v1/transactions/:id.
func (h *TransactionHandler) Delete(c *gin.Context) {
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

	if err := h.transactionUseCase.Delete(c.Request.Context(), user.ID, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
