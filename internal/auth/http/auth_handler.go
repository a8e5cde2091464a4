package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pfm-dashboard/backend/internal/auth/http/dto"
	"github.com/pfm-dashboard/backend/internal/auth/usecase"
	"github.com/pfm-dashboard/backend/internal/httputil"
)

// CookieSettings controls how the session cookie is written.
type CookieSettings struct {
	// MaxAge is the cookie lifetime in seconds, matching the token TTL.
	MaxAge int
	// Secure marks the cookie Secure and uses SameSite=None, required for
	// cross-site requests from the browser client in production. When false
	// the cookie uses SameSite=Lax for local development over plain HTTP.
	Secure bool
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	cookie      CookieSettings
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authUseCase usecase.AuthUseCase, cookie CookieSettings, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		cookie:      cookie,
		logger:      logger,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	session, err := h.authUseCase.Register(c.Request.Context(), dto.ToRegisterInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.setSessionCookie(c, session.Token)
	c.JSON(http.StatusCreated, dto.SessionResponse{
		Message: "User registered successfully",
		Token:   session.Token,
		User:    dto.ToUserResponse(session.User),
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	session, err := h.authUseCase.Login(c.Request.Context(), dto.ToLoginInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.setSessionCookie(c, session.Token)
	c.JSON(http.StatusOK, dto.SessionResponse{
		Message: "Logged in successfully",
		Token:   session.Token,
		User:    dto.ToUserResponse(session.User),
	})
}

// Logout handles POST /api/v1/auth/logout. Without a session cookie there is
// nothing to revoke and the request is rejected. With one, revocation is
// best-effort and the response is always success; the cookie is cleared
// either way so the client ends its session even when the store is down.
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenString, err := c.Cookie(sessionCookieName)
	if err != nil || tokenString == "" {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "Token not provided"})
		return
	}

	h.authUseCase.Logout(c.Request.Context(), tokenString)

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	if h.cookie.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(sessionCookieName, token, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	if h.cookie.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(sessionCookieName, "", -1, "/", "", h.cookie.Secure, true)
}
