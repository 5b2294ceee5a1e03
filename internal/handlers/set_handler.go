package handlers

import (
	"strconv"

	"boutique/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const maxImageSize = 10 << 20

// SetHandler handles the admin HTTP requests for product sets.
type SetHandler struct {
	service  *services.SetService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSetHandler creates a new SetHandler.
func NewSetHandler(service *services.SetService, logger *zap.Logger) *SetHandler {
	return &SetHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterAdminRoutes registers the set routes on an admin-only router.
func (h *SetHandler) RegisterAdminRoutes(router fiber.Router) {
	setRoutes := router.Group("/sets")
	setRoutes.Get("/", h.HandleListSets)
	setRoutes.Post("/", h.HandleCreateSet)
	setRoutes.Get("/:id", h.HandleGetSet)
	setRoutes.Put("/:id", h.HandleUpdateSet)
	setRoutes.Delete("/:id", h.HandleDeleteSet)
	setRoutes.Post("/:id/products", h.HandleAddProduct)
	setRoutes.Delete("/:id/products/:productId", h.HandleRemoveProduct)
	setRoutes.Post("/:id/images", h.HandleUploadImage)
}

// ListSetsRequest is the raw query of the set listing. Every value arrives
// as text and is checked before it is converted.
type ListSetsRequest struct {
	OrderBy  string `query:"orderBy" validate:"omitempty,oneof=created_at updated_at name"`
	OrderAsc string `query:"orderAsc" validate:"omitempty,oneof=true false"`
	Limit    string `query:"limit" validate:"omitempty,numeric"`
	Offset   string `query:"offset" validate:"omitempty,numeric"`
	Name     string `query:"name" validate:"max=200"`
	Type     string `query:"type" validate:"max=50"`
	IsActive string `query:"is_active" validate:"omitempty,oneof=true false"`
}

func (r ListSetsRequest) toQuery() (services.ListSetsQuery, error) {
	q := services.ListSetsQuery{
		OrderBy:  r.OrderBy,
		OrderAsc: r.OrderAsc == "true",
		Name:     r.Name,
		Type:     r.Type,
	}
	var err error
	if r.Limit != "" {
		if q.Limit, err = strconv.Atoi(r.Limit); err != nil {
			return q, err
		}
	}
	if r.Offset != "" {
		if q.Offset, err = strconv.Atoi(r.Offset); err != nil {
			return q, err
		}
	}
	if r.IsActive != "" {
		active := r.IsActive == "true"
		q.IsActive = &active
	}
	return q, nil
}

// HandleListSets returns one page of sets and the total count.
func (h *SetHandler) HandleListSets(c *fiber.Ctx) error {
	var req ListSetsRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "Invalid query")
	}
	if answered, err := validateBody(c, h.validate, req); answered {
		return err
	}
	query, err := req.toQuery()
	if err != nil {
		return badRequest(c, "Invalid query")
	}

	page, err := h.service.List(c.UserContext(), query)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(page)
}

func (h *SetHandler) HandleGetSet(c *fiber.Ctx) error {
	set, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(set)
}

func (h *SetHandler) HandleCreateSet(c *fiber.Ctx) error {
	var input services.SetInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	set, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(set)
}

func (h *SetHandler) HandleUpdateSet(c *fiber.Ctx) error {
	var input services.SetInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	set, err := h.service.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(set)
}

// HandleDeleteSet deletes the set. Image objects that could not be removed
// from storage are listed in the response.
func (h *SetHandler) HandleDeleteSet(c *fiber.Ctx) error {
	result, err := h.service.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(result)
}

// SetProductRequest is the body of a set product link.
type SetProductRequest struct {
	ProductID string `json:"product_id" validate:"required,max=36"`
}

func (h *SetHandler) HandleAddProduct(c *fiber.Ctx) error {
	var req SetProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if answered, err := validateBody(c, h.validate, req); answered {
		return err
	}
	if err := h.service.AddProduct(c.UserContext(), c.Params("id"), req.ProductID); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"set_id": c.Params("id"), "product_id": req.ProductID})
}

func (h *SetHandler) HandleRemoveProduct(c *fiber.Ctx) error {
	if err := h.service.RemoveProduct(c.UserContext(), c.Params("id"), c.Params("productId")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUploadImage stores the multipart "file" field as a set image.
func (h *SetHandler) HandleUploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	if fileHeader.Size > maxImageSize {
		return badRequest(c, "file is too large")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	defer file.Close()

	image, err := h.service.AddImage(c.UserContext(), c.Params("id"), fileHeader.Filename, file,
		fileHeader.Size, fileHeader.Header.Get(fiber.HeaderContentType))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}
