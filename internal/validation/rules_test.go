package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/pfm-dashboard/backend/internal/errors"
)

func TestEmail(t *testing.T) {
	valid := []string{"a@x.com", "user.name+tag@example.co.uk", "u_1@sub.domain.io"}
	for _, email := range valid {
		assert.NoError(t, Email.Validate(email), email)
	}

	invalid := []string{"plainstring", "@x.com", "a@", "a@x", "a b@x.com"}
	for _, email := range invalid {
		assert.Error(t, Email.Validate(email), email)
	}
}

func TestMonth(t *testing.T) {
	assert.NoError(t, Month.Validate("2025-01"))
	assert.NoError(t, Month.Validate("2025-12"))
	assert.Error(t, Month.Validate("2025-13"))
	assert.Error(t, Month.Validate("2025-1"))
	assert.Error(t, Month.Validate("25-01"))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("alice"))
	assert.Error(t, NotBlank.Validate("   "))
	assert.Error(t, NotBlank.Validate(""))
}

func TestWrapValidationError(t *testing.T) {
	assert.Nil(t, WrapValidationError(nil))

	err := WrapValidationError(Email.Validate("nope"))
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}
