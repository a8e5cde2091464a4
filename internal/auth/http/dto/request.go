// Package dto provides data transfer objects for the auth HTTP layer.
package dto

import (
	"github.com/pfm-dashboard/backend/internal/auth/usecase"
)

// RegisterRequest represents the API request for account registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToRegisterInput converts a RegisterRequest DTO to a use case input.
func ToRegisterInput(req RegisterRequest) usecase.RegisterInput {
	return usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
}

// LoginRequest represents the API request for login. The username field
// also accepts an email address.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ToLoginInput converts a LoginRequest DTO to a use case input.
func ToLoginInput(req LoginRequest) usecase.LoginInput {
	return usecase.LoginInput{
		Identifier: req.Username,
		Password:   req.Password,
	}
}
