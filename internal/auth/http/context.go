// Package http provides HTTP handlers and middleware for session authentication.
package http

import (
	"github.com/gin-gonic/gin"

	userDomain "github.com/pfm-dashboard/backend/internal/user/domain"
)

const (
	userContextKey    = "auth:user"
	tokenIDContextKey = "auth:token_id"
)

// WithUser stores the authenticated user in the request context.
func WithUser(c *gin.Context, user *userDomain.User) {
	c.Set(userContextKey, user)
}

// GetUser retrieves the authenticated user from the request context.
// Returns nil when the request did not pass the session middleware.
func GetUser(c *gin.Context) *userDomain.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}

	user, ok := value.(*userDomain.User)
	if !ok {
		return nil
	}

	return user
}

// WithTokenID stores the session token id in the request context.
func WithTokenID(c *gin.Context, tokenID string) {
	c.Set(tokenIDContextKey, tokenID)
}

// GetTokenID retrieves the session token id from the request context.
func GetTokenID(c *gin.Context) string {
	value, exists := c.Get(tokenIDContextKey)
	if !exists {
		return ""
	}

	tokenID, ok := value.(string)
	if !ok {
		return ""
	}

	return tokenID
}
