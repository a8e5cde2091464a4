// Package domain contains session authentication domain types and errors.
package domain

import "github.com/pfm-dashboard/backend/internal/errors"

var (
	// ErrInvalidCredentials is returned when login fails. The message is
	// deliberately the same whether the account exists or the password is
	// wrong.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.Wrap(errors.ErrInvalidToken, "token expired")

	// ErrTokenRevoked is returned when a token's identifier is present in
	// the revocation store. Classified with the 401 family: a revoked
	// session means "log in again", not a tampered token.
	ErrTokenRevoked = errors.Wrap(errors.ErrUnauthorized, "token revoked")

	// ErrTokenMissing is returned when no session cookie accompanies the request.
	ErrTokenMissing = errors.Wrap(errors.ErrUnauthorized, "token not provided")
)
