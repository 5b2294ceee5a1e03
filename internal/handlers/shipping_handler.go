package handlers

import (
	"boutique/internal/models"
	"boutique/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// shippingCacheControl lets the CDN serve prices for an hour and revalidate
// in the background for another half hour.
const shippingCacheControl = "public, s-maxage=3600, stale-while-revalidate=1800"

// ShippingHandler handles HTTP requests for shipping prices.
type ShippingHandler struct {
	resolver *services.ShippingResolver
	validate *validator.Validate
	logger   *zap.Logger
}

// NewShippingHandler creates a new ShippingHandler.
func NewShippingHandler(resolver *services.ShippingResolver, logger *zap.Logger) *ShippingHandler {
	return &ShippingHandler{
		resolver: resolver,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the public shipping price lookup.
func (h *ShippingHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/shipping-price", h.HandleGetShippingPrice)
}

// RegisterAdminRoutes registers shipping price management.
func (h *ShippingHandler) RegisterAdminRoutes(router fiber.Router) {
	shippingRoutes := router.Group("/shipping-prices")
	shippingRoutes.Get("/", h.HandleListPrices)
	shippingRoutes.Put("/default", h.HandleSetDefault)
	shippingRoutes.Put("/:code", h.HandleSavePrice)
	shippingRoutes.Delete("/:code", h.HandleDeletePrice)
}

// ShippingPriceQuery is the query of the public price lookup.
type ShippingPriceQuery struct {
	Country string `query:"country" validate:"required"`
}

// HandleGetShippingPrice answers { price } for ?country=<ISO2>.
func (h *ShippingHandler) HandleGetShippingPrice(c *fiber.Ctx) error {
	var query ShippingPriceQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c, "Invalid query")
	}
	if answered, err := validateBody(c, h.validate, query); answered {
		return err
	}

	quote, err := h.resolver.Quote(c.UserContext(), query.Country)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	c.Set(fiber.HeaderCacheControl, shippingCacheControl)
	return c.JSON(fiber.Map{
		"price":             quote.Price,
		"country":           quote.CountryCode,
		"is_default":        quote.IsDefault,
		"min_delivery_days": quote.MinDeliveryDays,
		"max_delivery_days": quote.MaxDeliveryDays,
	})
}

func (h *ShippingHandler) HandleListPrices(c *fiber.Ctx) error {
	prices, err := h.resolver.ListPrices(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(prices)
}

// SavePriceRequest is the body of a country price upsert.
type SavePriceRequest struct {
	CountryName     string  `json:"country_name" validate:"required,max=100"`
	ShippingPrice   float64 `json:"shipping_price" validate:"gte=0"`
	MinDeliveryDays int     `json:"min_delivery_days" validate:"gte=0"`
	MaxDeliveryDays int     `json:"max_delivery_days" validate:"gtefield=MinDeliveryDays"`
}

func (h *ShippingHandler) HandleSavePrice(c *fiber.Ctx) error {
	var req SavePriceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if answered, err := validateBody(c, h.validate, req); answered {
		return err
	}

	price := &models.CountryShippingPrice{
		CountryCode:     c.Params("code"),
		CountryName:     req.CountryName,
		ShippingPrice:   req.ShippingPrice,
		MinDeliveryDays: req.MinDeliveryDays,
		MaxDeliveryDays: req.MaxDeliveryDays,
	}
	if err := h.resolver.SavePrice(c.UserContext(), price); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(price)
}

func (h *ShippingHandler) HandleDeletePrice(c *fiber.Ctx) error {
	if err := h.resolver.DeletePrice(c.UserContext(), c.Params("code")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DefaultPriceRequest is the body of the default price update.
type DefaultPriceRequest struct {
	Price *float64 `json:"price" validate:"required,gte=0"`
}

func (h *ShippingHandler) HandleSetDefault(c *fiber.Ctx) error {
	var req DefaultPriceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if answered, err := validateBody(c, h.validate, req); answered {
		return err
	}
	if err := h.resolver.SetDefaultPrice(c.UserContext(), *req.Price); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"default_price": *req.Price})
}
