package usecase

import (
	"context"
	"time"

	"github.com/pfm-dashboard/backend/internal/metrics"
	userDomain "github.com/pfm-dashboard/backend/internal/user/domain"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Register records metrics for registration operations.
func (a *authUseCaseWithMetrics) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	start := time.Now()
	session, err := a.next.Register(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "register", status)
	a.metrics.RecordDuration(ctx, "auth", "register", time.Since(start), status)

	return session, err
}

// Login records metrics for login operations.
func (a *authUseCaseWithMetrics) Login(ctx context.Context, input LoginInput) (*Session, error) {
	start := time.Now()
	session, err := a.next.Login(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "login", status)
	a.metrics.RecordDuration(ctx, "auth", "login", time.Since(start), status)

	return session, err
}

// Logout records metrics for logout operations. Logout never fails, so the
// status label is always success.
func (a *authUseCaseWithMetrics) Logout(ctx context.Context, tokenString string) {
	start := time.Now()
	a.next.Logout(ctx, tokenString)

	a.metrics.RecordOperation(ctx, "auth", "logout", "success")
	a.metrics.RecordDuration(ctx, "auth", "logout", time.Since(start), "success")
}

// Authenticate records metrics for session authentication operations.
func (a *authUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	tokenString string,
) (*userDomain.User, string, error) {
	start := time.Now()
	user, tokenID, err := a.next.Authenticate(ctx, tokenString)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "authenticate", status)
	a.metrics.RecordDuration(ctx, "auth", "authenticate", time.Since(start), status)

	return user, tokenID, err
}
