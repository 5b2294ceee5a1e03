package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"boutique/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(apperrors.Validation("items are required")))
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(apperrors.NotFound("order %s not found", "o-1")))
	assert.Equal(t, apperrors.KindUnknown, apperrors.KindOf(errors.New("boom")))
	assert.Equal(t, apperrors.KindUnknown, apperrors.KindOf(nil))

	// Kind survives fmt.Errorf wrapping
	wrapped := fmt.Errorf("saving cart: %w", apperrors.Conflict("product already in set"))
	assert.True(t, apperrors.Is(wrapped, apperrors.KindConflict))
	assert.False(t, apperrors.Is(wrapped, apperrors.KindValidation))
}

func TestProviderErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperrors.Provider(cause, "payment provider unavailable")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "payment provider unavailable: connection refused", err.Error())
	assert.Equal(t, "payment provider unavailable", apperrors.Message(err, "generic"))
	assert.Equal(t, "generic", apperrors.Message(cause, "generic"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "CONFIGURATION", apperrors.KindConfiguration.String())
	assert.Equal(t, "UNKNOWN", apperrors.Kind(42).String())
}
