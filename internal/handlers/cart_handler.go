package handlers

import (
	"boutique/internal/models"
	"boutique/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CartHandler handles HTTP requests for carts.
type CartHandler struct {
	carts    *services.CartService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *services.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/carts/:cartId")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/refresh", h.HandleRefreshCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:variantId", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:variantId", h.HandleRemoveItem)
}

type cartResponse struct {
	ID         string            `json:"id"`
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice float64           `json:"total_price"`
}

func newCartResponse(cart *services.CartStore) cartResponse {
	return cartResponse{
		ID:         cart.ID(),
		Items:      cart.Items(),
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
}

// AddItemRequest is the body of an add-to-cart call. Product details are
// read from the catalog, not from the client.
type AddItemRequest struct {
	VariantID string `json:"variant_id" validate:"required,max=36"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=100"`
}

// UpdateQuantityRequest is the body of a quantity change. Negative values
// are rejected by the cart itself.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.carts.Open(c.UserContext(), c.Params("cartId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newCartResponse(cart))
}

func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if answered, err := validateBody(c, h.validate, req); answered {
		return err
	}

	ctx := c.UserContext()
	cart, err := h.carts.Open(ctx, c.Params("cartId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	item, err := h.carts.ItemForVariant(ctx, req.VariantID, req.Quantity)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := cart.AddToCart(ctx, item); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newCartResponse(cart))
}

func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if answered, err := validateBody(c, h.validate, req); answered {
		return err
	}

	ctx := c.UserContext()
	cart, err := h.carts.Open(ctx, c.Params("cartId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := cart.UpdateQuantity(ctx, c.Params("variantId"), *req.Quantity); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newCartResponse(cart))
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	ctx := c.UserContext()
	cart, err := h.carts.Open(ctx, c.Params("cartId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := cart.RemoveFromCart(ctx, c.Params("variantId")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newCartResponse(cart))
}

func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	ctx := c.UserContext()
	cart, err := h.carts.Open(ctx, c.Params("cartId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := cart.ClearCart(ctx); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRefreshCart re-reads stock for every line, clamping quantities.
func (h *CartHandler) HandleRefreshCart(c *fiber.Ctx) error {
	ctx := c.UserContext()
	cart, err := h.carts.Open(ctx, c.Params("cartId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := cart.Refresh(ctx); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newCartResponse(cart))
}
