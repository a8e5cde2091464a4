// Package usecase implements user profile business logic.
package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/pfm-dashboard/backend/internal/database"
	apperrors "github.com/pfm-dashboard/backend/internal/errors"
	"github.com/pfm-dashboard/backend/internal/user/domain"
	appValidation "github.com/pfm-dashboard/backend/internal/validation"
)

// UpdateProfileInput contains the input data for a profile update. Nil
// fields are left unchanged.
type UpdateProfileInput struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	ProfilePicture *string `json:"profilePicture"`
}

// UseCase defines the user profile operations.
type UseCase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error)
}

// UserRepository defines the user persistence operations the profile needs.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// UserUseCase handles user profile business logic.
type UserUseCase struct {
	txManager database.TxManager
	userRepo  UserRepository
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(txManager database.TxManager, userRepo UserRepository) *UserUseCase {
	return &UserUseCase{
		txManager: txManager,
		userRepo:  userRepo,
	}
}

// GetProfile retrieves the account's profile.
func (uc *UserUseCase) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func validateUpdateProfileInput(input UpdateProfileInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.When(input.Username != nil,
				appValidation.NotBlank,
				validation.Length(3, 30).Error("username must be between 3 and 30 characters"),
			),
		),
		validation.Field(&input.Email,
			validation.When(input.Email != nil,
				appValidation.NotBlank,
				appValidation.Email,
				validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
			),
		),
		validation.Field(&input.ProfilePicture,
			validation.When(input.ProfilePicture != nil,
				validation.Length(0, 2048).Error("profile picture URL is too long"),
			),
		),
	)
	return appValidation.WrapValidationError(err)
}

// UpdateProfile applies the given changes, re-checking identity uniqueness.
// Username collisions are reported before email collisions.
func (uc *UserUseCase) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	input UpdateProfileInput,
) (*domain.User, error) {
	if err := validateUpdateProfileInput(input); err != nil {
		return nil, err
	}

	var user *domain.User

	// Uniqueness checks and the write run in one transaction so a concurrent
	// registration cannot slip between them.
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = uc.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if input.Username != nil {
			username := strings.TrimSpace(*input.Username)
			if username != user.Username {
				if other, err := uc.userRepo.GetByUsername(ctx, username); err == nil && other.ID != userID {
					return domain.ErrUsernameExists
				} else if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
					return err
				}
				user.Username = username
			}
		}

		if input.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*input.Email))
			if email != user.Email {
				if other, err := uc.userRepo.GetByEmail(ctx, email); err == nil && other.ID != userID {
					return domain.ErrEmailExists
				} else if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
					return err
				}
				user.Email = email
			}
		}

		if input.ProfilePicture != nil {
			user.ProfilePicture = strings.TrimSpace(*input.ProfilePicture)
		}

		return uc.userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}
