package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authDomain "github.com/pfm-dashboard/backend/internal/auth/domain"
	"github.com/pfm-dashboard/backend/internal/auth/usecase"
	"github.com/pfm-dashboard/backend/internal/httputil"
)

// sessionCookieName is the cookie carrying the session token.
const sessionCookieName = "token"

// SessionMiddleware authenticates requests from the session cookie and
// attaches the account and token id to the request context.
func SessionMiddleware(authUseCase usecase.AuthUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(sessionCookieName)
		if err != nil || tokenString == "" {
			httputil.HandleErrorGin(c, authDomain.ErrTokenMissing, logger)
			c.Abort()
			return
		}

		user, tokenID, err := authUseCase.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		WithUser(c, user)
		WithTokenID(c, tokenID)

		c.Next()
	}
}
