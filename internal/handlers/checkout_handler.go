package handlers

import (
	"boutique/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CheckoutHandler starts hosted checkout sessions.
type CheckoutHandler struct {
	builder *services.CheckoutSessionBuilder
	logger  *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(builder *services.CheckoutSessionBuilder, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{builder: builder, logger: logger}
}

// RegisterRoutes registers the checkout routes.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout-sessions", h.HandleCreateSession)
}

// HandleCreateSession answers { sessionId } or { error }. The request is
// validated by the builder before any provider call.
func (h *CheckoutHandler) HandleCreateSession(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.UserID = userID(c)

	result, err := h.builder.Build(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"sessionId": result.SessionID})
}
