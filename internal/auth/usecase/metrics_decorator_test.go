package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	userDomain "github.com/pfm-dashboard/backend/internal/user/domain"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

// stubAuthUseCase returns canned results for each operation.
type stubAuthUseCase struct {
	session *Session
	user    *userDomain.User
	err     error
}

func (s *stubAuthUseCase) Register(_ context.Context, _ RegisterInput) (*Session, error) {
	return s.session, s.err
}

func (s *stubAuthUseCase) Login(_ context.Context, _ LoginInput) (*Session, error) {
	return s.session, s.err
}

func (s *stubAuthUseCase) Logout(_ context.Context, _ string) {}

func (s *stubAuthUseCase) Authenticate(_ context.Context, _ string) (*userDomain.User, string, error) {
	return s.user, "token-id", s.err
}

func TestAuthUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	user := &userDomain.User{ID: uuid.Must(uuid.NewV7()), Username: "alice"}
	session := &Session{User: user, Token: "token"}

	t.Run("register success", func(t *testing.T) {
		mockMetrics := &mockBusinessMetrics{}
		uc := NewAuthUseCaseWithMetrics(&stubAuthUseCase{session: session}, mockMetrics)

		mockMetrics.On("RecordOperation", ctx, "auth", "register", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "auth", "register", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		res, err := uc.Register(ctx, RegisterInput{})
		assert.NoError(t, err)
		assert.Equal(t, session, res)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("login error", func(t *testing.T) {
		mockMetrics := &mockBusinessMetrics{}
		uc := NewAuthUseCaseWithMetrics(&stubAuthUseCase{err: errors.New("boom")}, mockMetrics)

		mockMetrics.On("RecordOperation", ctx, "auth", "login", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "auth", "login", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		res, err := uc.Login(ctx, LoginInput{})
		assert.Error(t, err)
		assert.Nil(t, res)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("logout always success", func(t *testing.T) {
		mockMetrics := &mockBusinessMetrics{}
		uc := NewAuthUseCaseWithMetrics(&stubAuthUseCase{}, mockMetrics)

		mockMetrics.On("RecordOperation", ctx, "auth", "logout", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "auth", "logout", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		uc.Logout(ctx, "whatever")
		mockMetrics.AssertExpectations(t)
	})

	t.Run("authenticate success", func(t *testing.T) {
		mockMetrics := &mockBusinessMetrics{}
		uc := NewAuthUseCaseWithMetrics(&stubAuthUseCase{user: user}, mockMetrics)

		mockMetrics.On("RecordOperation", ctx, "auth", "authenticate", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "auth", "authenticate", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		got, tokenID, err := uc.Authenticate(ctx, "token")
		assert.NoError(t, err)
		assert.Equal(t, user, got)
		assert.Equal(t, "token-id", tokenID)
		mockMetrics.AssertExpectations(t)
	})
}
