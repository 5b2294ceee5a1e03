package repositories

import (
	"context"

	"boutique/internal/models"
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error

	ListVariants(ctx context.Context, productID string) ([]models.ProductVariant, error)
	GetVariant(ctx context.Context, variantID string) (*models.ProductVariant, error)
	SetVariantStock(ctx context.Context, variantID string, stock int) error
}
