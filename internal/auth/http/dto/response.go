package dto

import (
	"time"

	"github.com/google/uuid"

	userDomain "github.com/pfm-dashboard/backend/internal/user/domain"
)

// UserResponse represents the API response for an account. The password
// hash never leaves the server.
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ToUserResponse converts a domain User to a UserResponse DTO.
func ToUserResponse(user *userDomain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

// SessionResponse represents the API response for register and login. The
// token is returned in the body as well as in the HTTP-only cookie, which
// the browser client cannot read.
type SessionResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// MessageResponse is a plain message payload, used by logout.
type MessageResponse struct {
	Message string `json:"message"`
}
