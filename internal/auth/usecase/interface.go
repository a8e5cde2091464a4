// Package usecase implements session authentication business logic.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pfm-dashboard/backend/internal/auth/service"
	userDomain "github.com/pfm-dashboard/backend/internal/user/domain"
)

// RegisterInput contains the input data for account registration.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput contains the input data for login. Identifier is a username or
// an email address; values containing "@" are treated as emails.
type LoginInput struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Session is the result of a successful register or login.
type Session struct {
	User  *userDomain.User
	Token string
}

// AuthUseCase defines the session authentication operations.
type AuthUseCase interface {
	// Register creates an account and starts a session for it.
	Register(ctx context.Context, input RegisterInput) (*Session, error)

	// Login verifies credentials and starts a session.
	Login(ctx context.Context, input LoginInput) (*Session, error)

	// Logout revokes the session token. Revocation is best-effort: a token
	// that cannot be decoded or a store write failure never surfaces as an
	// error, the session cookie is cleared regardless.
	Logout(ctx context.Context, tokenString string)

	// Authenticate verifies the session token, checks it against the
	// revocation store and resolves the account it belongs to. Returns the
	// user and the token id.
	Authenticate(ctx context.Context, tokenString string) (*userDomain.User, string, error)
}

// TokenCodec issues, verifies and decodes session tokens.
type TokenCodec interface {
	Issue(userID uuid.UUID) (string, error)
	Verify(tokenString string) (*service.SessionClaims, error)
	Decode(tokenString string) (*service.SessionClaims, error)
}

// RevocationStore records revoked token ids until they would have expired.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// UserRepository defines the user persistence operations authentication needs.
type UserRepository interface {
	Create(ctx context.Context, user *userDomain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
	GetByUsername(ctx context.Context, username string) (*userDomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)
}
