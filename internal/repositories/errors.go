package repositories

import (
	"errors"
	"fmt"

	"boutique/internal/apperrors"

	"gorm.io/gorm"
)

// translate maps GORM sentinel errors onto application error kinds and wraps
// everything else with the operation name.
func translate(err error, op string, notFound *apperrors.Error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict("%s: record already exists", op)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
