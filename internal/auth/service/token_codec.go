// Package service provides the session token codec and signing secret
// resolution.
package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pfm-dashboard/backend/internal/auth/domain"
	"github.com/pfm-dashboard/backend/internal/errors"
)

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed session tokens.
type TokenCodec struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenCodec creates a codec signing with HMAC-SHA256.
func NewTokenCodec(secret []byte, issuer, audience string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue creates a signed token for the given user. Every call stamps a fresh
// random token id, so two tokens for the same user are always distinct and
// revocable independently.
func (c *TokenCodec) Issue(userID uuid.UUID) (string, error) {
	now := c.now()
	claims := SessionClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}

	return signed, nil
}

// Verify checks the token's signature, issuer, audience and expiry and
// returns its claims.
func (c *TokenCodec) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.ErrInvalidToken
			}
			return c.secret, nil
		},
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, errors.Wrap(errors.ErrInvalidToken, err.Error())
	}

	return claims, nil
}

// Decode extracts claims without verifying the signature. Used on logout so
// that expired or otherwise unverifiable tokens can still have their id
// blacklisted. Callers must never trust the result for authentication.
func (c *TokenCodec) Decode(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	parser := jwt.NewParser()
	_, _, err := parser.ParseUnverified(tokenString, claims)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidToken, err.Error())
	}

	return claims, nil
}
