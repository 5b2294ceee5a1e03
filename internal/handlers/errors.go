package handlers

import (
	"errors"
	"fmt"

	"boutique/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const genericErrorMessage = "Internal server error"

// respondError maps an error to its HTTP status and writes the uniform
// error body. Configuration and unknown errors are logged and hidden from
// the client; provider messages are relayed.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	status := fiber.StatusInternalServerError
	message := genericErrorMessage

	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		status = fiber.StatusBadRequest
		message = apperrors.Message(err, "Invalid request")
	case apperrors.KindNotFound:
		status = fiber.StatusNotFound
		message = apperrors.Message(err, "Not found")
	case apperrors.KindConflict:
		status = fiber.StatusConflict
		message = apperrors.Message(err, "Conflict")
	case apperrors.KindProvider:
		status = fiber.StatusBadGateway
		message = apperrors.Message(err, "Upstream provider error")
		logger.Error("provider error", zap.String("path", c.Path()), zap.Error(err))
	case apperrors.KindConfiguration:
		logger.Error("configuration error", zap.String("path", c.Path()), zap.Error(err))
	default:
		logger.Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// validateBody runs struct validation and, on failure, writes a 400 with one
// message per failing field. It returns true when the request was answered.
func validateBody(c *fiber.Ctx, validate *validator.Validate, body interface{}) (bool, error) {
	err := validate.Struct(body)
	if err == nil {
		return false, nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return true, badRequest(c, "Invalid request")
	}
	details := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		details[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "Validation failed",
		"details": details,
	})
}

// userID returns the authenticated user id stored by the auth middleware, if any.
func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
