package services

import (
	"errors"
	"fmt"
	"strings"

	"boutique/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator caches struct metadata and is safe for
// concurrent use.
var validate = validator.New()

// validateStruct runs tag validation and converts failures into a single
// validation error naming every failing field.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.Validation("invalid input: %v", err)
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("field '%s' failed on the '%s' tag", e.Namespace(), e.Tag()))
	}
	return apperrors.Validation("%s", strings.Join(messages, "; "))
}
