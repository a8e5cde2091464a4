// Package dto provides data transfer objects for the transaction HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/pfm-dashboard/backend/internal/errors"
	"github.com/pfm-dashboard/backend/internal/transaction/domain"
	"github.com/pfm-dashboard/backend/internal/transaction/usecase"
)

// TransactionRequest represents the API request for creating or updating a
// transaction. Date accepts "YYYY-MM-DD" or RFC 3339.
type TransactionRequest struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
}

// ParseDate parses the request date.
func (r *TransactionRequest) ParseDate() (time.Time, error) {
	if r.Date == "" {
		return time.Time{}, nil
	}
	if date, err := time.Parse("2006-01-02", r.Date); err == nil {
		return date, nil
	}
	date, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD or RFC 3339")
	}
	return date, nil
}

// ToCreateInput converts the request DTO to a use case input.
func (r *TransactionRequest) ToCreateInput() (usecase.CreateTransactionInput, error) {
	date, err := r.ParseDate()
	if err != nil {
		return usecase.CreateTransactionInput{}, err
	}
	return usecase.CreateTransactionInput{
		Name:     r.Name,
		Amount:   r.Amount,
		Date:     date,
		Category: r.Category,
	}, nil
}

// ToUpdateInput converts the request DTO to a use case input.
func (r *TransactionRequest) ToUpdateInput() (usecase.UpdateTransactionInput, error) {
	date, err := r.ParseDate()
	if err != nil {
		return usecase.UpdateTransactionInput{}, err
	}
	return usecase.UpdateTransactionInput{
		Name:     r.Name,
		Amount:   r.Amount,
		Date:     date,
		Category: r.Category,
	}, nil
}

// TransactionResponse represents the API response for a transaction.
type TransactionResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Amount          float64   `json:"amount"`
	ISOCurrencyCode string    `json:"isoCurrencyCode,omitempty"`
	Date            string    `json:"date"`
	Category        string    `json:"category"`
	Pending         bool      `json:"pending"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToTransactionResponse converts a domain Transaction to a response DTO.
func ToTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		Name:            tx.Name,
		Amount:          tx.Amount,
		ISOCurrencyCode: tx.ISOCurrencyCode,
		Date:            tx.Date.Format("2006-01-02"),
		Category:        tx.Category,
		Pending:         tx.Pending,
		CreatedAt:       tx.CreatedAt,
	}
}

// ToTransactionListResponse converts a list of transactions.
func ToTransactionListResponse(transactions []*domain.Transaction) []TransactionResponse {
	result := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		result = append(result, ToTransactionResponse(tx))
	}
	return result
}
