package services

import (
	"context"

	"boutique/internal/apperrors"
	"boutique/internal/models"
	"boutique/internal/repositories"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// ProductService handles business logic for the catalog.
type ProductService struct {
	productRepo repositories.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, logger: logger}
}

// CreateProduct validates a product and its variants and saves it.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validateStruct(product); err != nil {
		return err
	}
	if len(product.Variants) == 0 {
		return apperrors.Validation("a product needs at least one variant")
	}
	product.Slug = slug.Make(product.Name)

	if err := s.productRepo.Create(ctx, product); err != nil {
		if apperrors.Is(err, apperrors.KindConflict) {
			return apperrors.Conflict("a product named %q already exists", product.Name)
		}
		return err
	}
	s.logger.Info("product created", zap.String("product_id", product.ID), zap.String("slug", product.Slug))
	return nil
}

// GetProductByID retrieves a product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// GetProductBySlug retrieves an active product for the storefront.
func (s *ProductService) GetProductBySlug(ctx context.Context, productSlug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, apperrors.NotFound("product %s not found", productSlug)
	}
	return product, nil
}

// ListProducts retrieves products. The storefront only sees active ones.
func (s *ProductService) ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	return s.productRepo.List(ctx, activeOnly)
}

// UpdateProduct updates the product fields. Variants are managed through
// SetVariantStock.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	variants := product.Variants
	product.Variants = nil
	defer func() { product.Variants = variants }()

	if err := validateStruct(product); err != nil {
		return err
	}
	product.Slug = slug.Make(product.Name)
	if err := s.productRepo.Update(ctx, product); err != nil {
		if apperrors.Is(err, apperrors.KindConflict) {
			return apperrors.Conflict("a product named %q already exists", product.Name)
		}
		return err
	}
	return nil
}

// DeleteProduct deletes a product and its variants.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.productRepo.Delete(ctx, id)
}

// SetVariantStock sets the stock of one variant.
func (s *ProductService) SetVariantStock(ctx context.Context, variantID string, stock int) error {
	if stock < 0 {
		return apperrors.Validation("stock must not be negative")
	}
	if err := s.productRepo.SetVariantStock(ctx, variantID, stock); err != nil {
		return err
	}
	s.logger.Info("variant stock set", zap.String("variant_id", variantID), zap.Int("stock", stock))
	return nil
}
