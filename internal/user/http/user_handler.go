// Package http provides HTTP handlers for user profile operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/pfm-dashboard/backend/internal/auth/http"
	apperrors "github.com/pfm-dashboard/backend/internal/errors"
	"github.com/pfm-dashboard/backend/internal/httputil"
	"github.com/pfm-dashboard/backend/internal/user/http/dto"
	"github.com/pfm-dashboard/backend/internal/user/usecase"
)

// UserHandler handles profile HTTP requests.
type UserHandler struct {
	userUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUseCase usecase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// GetProfile handles GET /api/v1/users/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user := authHTTP.GetUser(c)
	if user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	profile, err := h.userUseCase.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileResponse(profile))
}

// UpdateProfile handles PUT /api/v1/users/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := authHTTP.GetUser(c)
	if user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	updated, err := h.userUseCase.UpdateProfile(c.Request.Context(), user.ID, dto.ToUpdateProfileInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileResponse(updated))
}
