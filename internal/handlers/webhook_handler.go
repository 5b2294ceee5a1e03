package handlers

import (
	"encoding/json"

	"boutique/internal/apperrors"
	"boutique/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v83"
	"go.uber.org/zap"
)

// WebhookVerifier checks provider signatures on webhook deliveries.
type WebhookVerifier interface {
	CanVerifyWebhooks() bool
	VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error)
}

// WebhookHandler receives payment provider events.
type WebhookHandler struct {
	verifier WebhookVerifier
	recorder *services.OrderRecorder
	logger   *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(verifier WebhookVerifier, recorder *services.OrderRecorder, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, recorder: recorder, logger: logger}
}

// RegisterRoutes registers the webhook routes.
func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/webhooks/stripe", h.HandleStripeWebhook)
}

// HandleStripeWebhook verifies the Stripe-Signature header and records the
// order for completed sessions. Recording failures other than a bad payload
// answer 500 so the provider retries; a retry is safe because recording is
// idempotent per session.
func (h *WebhookHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")
	if signature == "" {
		return badRequest(c, "Missing stripe-signature header")
	}
	if h.verifier == nil || !h.verifier.CanVerifyWebhooks() {
		h.logger.Error("stripe webhook received but stripe keys are not configured")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericErrorMessage})
	}

	// The body buffer is reused by fasthttp after the handler returns.
	payload := append([]byte(nil), c.Body()...)
	event, err := h.verifier.VerifyWebhook(payload, signature)
	if err != nil {
		h.logger.Warn("stripe webhook verification failed", zap.Error(err))
		return badRequest(c, "Webhook signature verification failed")
	}

	var data json.RawMessage
	if event.Data != nil {
		data = event.Data.Raw
	}
	result, err := h.recorder.Record(c.UserContext(), services.PaymentEvent{
		ID:   event.ID,
		Type: string(event.Type),
		Data: data,
	})
	if err != nil {
		if apperrors.Is(err, apperrors.KindValidation) {
			h.logger.Warn("rejecting webhook payload", zap.String("event_id", event.ID), zap.Error(err))
		}
		return respondError(c, h.logger, err)
	}

	if result.Order != nil {
		h.logger.Info("webhook handled",
			zap.String("event_id", event.ID),
			zap.String("order_id", result.Order.ID),
			zap.Bool("duplicate", result.Duplicate))
	}
	return c.JSON(fiber.Map{"received": true})
}
