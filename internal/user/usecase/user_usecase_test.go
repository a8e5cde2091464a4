package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pfm-dashboard/backend/internal/errors"
	"github.com/pfm-dashboard/backend/internal/user/domain"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) add(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func strPtr(s string) *string { return &s }

func seedUser(repo *fakeUserRepo, username, email string) *domain.User {
	user := &domain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Username: username,
		Email:    email,
		Password: "hashed",
	}
	repo.add(user)
	return user
}

func TestGetProfile(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUseCase(passthroughTxManager{}, repo)
	user := seedUser(repo, "alice", "alice@example.com")

	profile, err := uc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)

	_, err = uc.GetProfile(context.Background(), uuid.Must(uuid.NewV7()))
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUseCase(passthroughTxManager{}, repo)
	user := seedUser(repo, "alice", "alice@example.com")

	updated, err := uc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Username:       strPtr("alice2"),
		ProfilePicture: strPtr("https://cdn.example.com/a.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.Equal(t, "https://cdn.example.com/a.png", updated.ProfilePicture)

	// Email normalized to lowercase.
	updated, err = uc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Email: strPtr("Alice2@Example.COM"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice2@example.com", updated.Email)
}

func TestUpdateProfileConflicts(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUseCase(passthroughTxManager{}, repo)
	user := seedUser(repo, "alice", "alice@example.com")
	seedUser(repo, "bob", "bob@example.com")

	_, err := uc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Username: strPtr("bob"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, domain.ErrUsernameExists))

	_, err = uc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Email: strPtr("bob@example.com"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, domain.ErrEmailExists))

	// Keeping your own identity values is not a conflict.
	_, err = uc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Username: strPtr("alice"),
		Email:    strPtr("alice@example.com"),
	})
	assert.NoError(t, err)
}

func TestUpdateProfileValidation(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUseCase(passthroughTxManager{}, repo)
	user := seedUser(repo, "alice", "alice@example.com")

	_, err := uc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Username: strPtr("ab"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))

	_, err = uc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Email: strPtr("not-an-email"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}
