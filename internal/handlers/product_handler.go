package handlers

import (
	"boutique/internal/models"
	"boutique/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	guard    *services.StockGuard
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, guard *services.StockGuard, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		guard:    guard,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the storefront catalog routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:slug", h.HandleGetProduct)
	productRoutes.Get("/:id/stock", h.HandleGetStock)
}

// RegisterAdminRoutes registers catalog management routes.
func (h *ProductHandler) RegisterAdminRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleAdminListProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	router.Put("/variants/:id/stock", h.HandleSetVariantStock)
}

func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext(), true)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) HandleAdminListProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext(), false)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(product)
}

// HandleGetStock returns the live stock of every variant of a product,
// keyed by variant id.
func (h *ProductHandler) HandleGetStock(c *fiber.Ctx) error {
	levels, err := h.guard.RefreshStock(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(fiber.Map{"product_id": c.Params("id"), "stock": levels})
}

func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid request body")
	}
	product.ID = ""
	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid request body")
	}
	product.ID = c.Params("id")
	if err := h.service.UpdateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// StockRequest is the body of a variant stock update.
type StockRequest struct {
	Stock *int `json:"stock" validate:"required,gte=0"`
}

func (h *ProductHandler) HandleSetVariantStock(c *fiber.Ctx) error {
	var req StockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if answered, err := validateBody(c, h.validate, req); answered {
		return err
	}
	if err := h.service.SetVariantStock(c.UserContext(), c.Params("id"), *req.Stock); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"variant_id": c.Params("id"), "stock": *req.Stock})
}
