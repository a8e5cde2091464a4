// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/pfm-dashboard/backend/internal/user/domain"
	"github.com/pfm-dashboard/backend/internal/user/usecase"
)

// UpdateProfileRequest represents the API request for a profile update.
// Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	ProfilePicture *string `json:"profilePicture"`
}

// ToUpdateProfileInput converts the request DTO to a use case input.
func ToUpdateProfileInput(req UpdateProfileRequest) usecase.UpdateProfileInput {
	return usecase.UpdateProfileInput{
		Username:       req.Username,
		Email:          req.Email,
		ProfilePicture: req.ProfilePicture,
	}
}

// ProfileResponse represents the API response for a profile.
type ProfileResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ToProfileResponse converts a domain User to a ProfileResponse DTO.
func ToProfileResponse(user *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
