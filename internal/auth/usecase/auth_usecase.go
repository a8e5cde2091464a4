package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/allisson/go-pwdhash"
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authDomain "github.com/pfm-dashboard/backend/internal/auth/domain"
	apperrors "github.com/pfm-dashboard/backend/internal/errors"
	userDomain "github.com/pfm-dashboard/backend/internal/user/domain"
	appValidation "github.com/pfm-dashboard/backend/internal/validation"
)

// AuthUseCaseImpl handles session authentication business logic.
type AuthUseCaseImpl struct {
	userRepo        UserRepository
	codec           TokenCodec
	revocationStore RevocationStore
	passwordHasher  *pwdhash.PasswordHasher
	failClosed      bool
	logger          *slog.Logger
}

// NewAuthUseCase creates a new AuthUseCaseImpl. When failClosed is true,
// authentication is rejected while the revocation store is unreachable;
// otherwise tokens are accepted as if not revoked.
func NewAuthUseCase(
	userRepo UserRepository,
	codec TokenCodec,
	revocationStore RevocationStore,
	failClosed bool,
	logger *slog.Logger,
) (*AuthUseCaseImpl, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &AuthUseCaseImpl{
		userRepo:        userRepo,
		codec:           codec,
		revocationStore: revocationStore,
		passwordHasher:  hasher,
		failClosed:      failClosed,
		logger:          logger,
	}, nil
}

func (uc *AuthUseCaseImpl) validateRegisterInput(input RegisterInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			validation.Length(3, 30).Error("username must be between 3 and 30 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates an account and issues its first session token. Username
// uniqueness is reported before email uniqueness when both collide.
func (uc *AuthUseCaseImpl) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if err := uc.validateRegisterInput(input); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if _, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, userDomain.ErrUsernameExists
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, userDomain.ErrEmailExists
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := uc.passwordHasher.Hash([]byte(input.Password))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	user := &userDomain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.codec.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", slog.String("user_id", user.ID.String()))

	return &Session{User: user, Token: token}, nil
}

// Login verifies credentials and issues a session token. Unknown accounts
// and wrong passwords produce the same error.
func (uc *AuthUseCaseImpl) Login(ctx context.Context, input LoginInput) (*Session, error) {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Identifier, validation.Required.Error("username or email is required")),
		validation.Field(&input.Password, validation.Required.Error("password is required")),
	)
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	identifier := strings.TrimSpace(input.Identifier)

	var user *userDomain.User
	if strings.Contains(identifier, "@") {
		user, err = uc.userRepo.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = uc.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := uc.passwordHasher.Verify([]byte(input.Password), user.Password)
	if err != nil || !ok {
		return nil, authDomain.ErrInvalidCredentials
	}

	token, err := uc.codec.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user logged in", slog.String("user_id", user.ID.String()))

	return &Session{User: user, Token: token}, nil
}

// Logout revokes the token's id for its remaining lifetime. The token's
// signature is not required to be valid: an expired or tampered token still
// has its id blacklisted when its claims can be read at all. Failures are
// logged and swallowed so the client always ends its session.
func (uc *AuthUseCaseImpl) Logout(ctx context.Context, tokenString string) {
	claims, err := uc.codec.Decode(tokenString)
	if err != nil {
		uc.logger.Warn("logout with undecodable token", slog.String("error", err.Error()))
		return
	}

	if claims.ID == "" || claims.ExpiresAt == nil {
		uc.logger.Warn("logout with token missing id or expiry")
		return
	}

	// Verification only selects the log message; expired or tampered tokens
	// still get their id blacklisted below.
	if _, verifyErr := uc.codec.Verify(tokenString); verifyErr != nil {
		uc.logger.Info("revoking token that fails verification",
			slog.String("token_id", claims.ID),
			slog.String("error", verifyErr.Error()))
	}

	if err := uc.revocationStore.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		uc.logger.Warn("failed to revoke token",
			slog.String("token_id", claims.ID),
			slog.String("error", err.Error()))
		return
	}

	uc.logger.Info("token revoked",
		slog.String("token_id", claims.ID),
		slog.String("user_id", claims.UserID))
}

// Authenticate verifies the token, consults the revocation store and loads
// the account. Store unavailability is fail-open unless configured closed.
func (uc *AuthUseCaseImpl) Authenticate(ctx context.Context, tokenString string) (*userDomain.User, string, error) {
	claims, err := uc.codec.Verify(tokenString)
	if err != nil {
		return nil, "", err
	}

	revoked, err := uc.revocationStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrStoreUnavailable) {
			return nil, "", err
		}
		if uc.failClosed {
			return nil, "", err
		}
		uc.logger.Warn("revocation store unavailable, proceeding without revocation check",
			slog.String("token_id", claims.ID),
			slog.String("error", err.Error()))
		revoked = false
	}
	if revoked {
		return nil, "", authDomain.ErrTokenRevoked
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInvalidToken, "malformed user id claim")
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Wrap(apperrors.ErrUnauthorized, "account no longer exists")
		}
		return nil, "", err
	}

	return user, claims.ID, nil
}
