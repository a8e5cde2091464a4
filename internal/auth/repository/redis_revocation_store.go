// Package repository contains the revocation store backed by Redis.
package repository

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pfm-dashboard/backend/internal/errors"
)

// revocationKeyPrefix namespaces revoked token ids. The same prefix is used
// for writes and reads; a revoked id must be visible to every subsequent
// lookup until its key expires.
const revocationKeyPrefix = "auth:blacklist:"

// RedisRevocationStore records revoked token ids with a TTL matching the
// token's remaining lifetime.
type RedisRevocationStore struct {
	client *goredis.Client
	now    func() time.Time
}

// NewRedisRevocationStore creates a revocation store on the given client.
// The store does not own the client; the caller manages its lifecycle.
func NewRedisRevocationStore(client *goredis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{
		client: client,
		now:    time.Now,
	}
}

// Revoke marks the token id as revoked until expiresAt. Tokens that are
// already past their expiry need no entry, they fail verification anyway.
func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.client.Set(ctx, revocationKeyPrefix+tokenID, "revoked", ttl).Err(); err != nil {
		return errors.Wrap(errors.ErrStoreUnavailable, err.Error())
	}

	return nil
}

// IsRevoked reports whether the token id is currently revoked. A store
// connectivity failure is returned as ErrStoreUnavailable rather than a
// negative result so callers can apply their own fail-open or fail-closed
// policy.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	count, err := s.client.Exists(ctx, revocationKeyPrefix+tokenID).Result()
	if err != nil {
		return false, errors.Wrap(errors.ErrStoreUnavailable, err.Error())
	}

	return count > 0, nil
}
