package handlers

import (
	"boutique/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for order administration.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterAdminRoutes registers the order routes on an admin-only router.
// Orders are created by the payment webhook, never through this API.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/shipping-status", h.HandleUpdateShippingStatus)
}

// HandleGetOrders retrieves orders, optionally filtered by ?shipping_status=.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext(), c.Query("shipping_status"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(order)
}

// ShippingStatusRequest is the body of a shipping status change.
type ShippingStatusRequest struct {
	ShippingStatus string `json:"shipping_status" validate:"required,oneof=pending in_transit delivered cancelled"`
}

// HandleUpdateShippingStatus moves an order along its shipping lifecycle.
func (h *OrderHandler) HandleUpdateShippingStatus(c *fiber.Ctx) error {
	var req ShippingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body for status update")
	}
	if answered, err := validateBody(c, h.validate, req); answered {
		return err
	}

	order, err := h.service.UpdateShippingStatus(c.UserContext(), c.Params("id"), req.ShippingStatus)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(order)
}
