package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserSafeMessageHidesInternalDetail(t *testing.T) {
	assert.Equal(t, "internal error", UserSafeMessage(errors.New("pq: connection refused to 10.0.0.3")))
	assert.Equal(t, "invalid credentials", UserSafeMessage(fmt.Errorf("auth: verify: %w", ErrAuthenticationInvalid)))
	assert.Equal(t, "", UserSafeMessage(nil))
}

func TestUserSafeMessageKeepsValidationText(t *testing.T) {
	err := fmt.Errorf("%w: limit must not exceed 100", ErrValidation)
	assert.Equal(t, "validation failed: limit must not exceed 100", UserSafeMessage(err))
}
