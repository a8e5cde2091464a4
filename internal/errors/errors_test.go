package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("preserves the error chain", func(t *testing.T) {
		wrapped := Wrap(ErrNotFound, "user lookup")
		assert.True(t, Is(wrapped, ErrNotFound))
		assert.Equal(t, "user lookup: not found", wrapped.Error())
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "context"))
	})

	t.Run("supports multiple levels of wrapping", func(t *testing.T) {
		inner := Wrap(ErrStoreUnavailable, "redis set")
		outer := Wrap(inner, "revoke token")
		assert.True(t, Is(outer, ErrStoreUnavailable))
	})
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrInvalidToken,
		ErrForbidden,
		ErrStoreUnavailable,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "%v should not match %v", a, b)
		}
	}
}
