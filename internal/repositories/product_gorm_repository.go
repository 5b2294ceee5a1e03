package repositories

import (
	"context"

	"boutique/internal/apperrors"
	"boutique/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves products with their variants, newest first.
func (r *GORMProductRepository) List(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	var products []models.Product
	q := r.db.WithContext(ctx).Preload("Variants").Order("created_at DESC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, translate(err, "list products", nil)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Variants").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "get product "+id, apperrors.NotFound("product with ID %s not found", id))
	}
	return &product, nil
}

// GetBySlug retrieves a single product by its slug.
func (r *GORMProductRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Variants").First(&product, "slug = ?", slug).Error
	if err != nil {
		return nil, translate(err, "get product "+slug, apperrors.NotFound("product %s not found", slug))
	}
	return &product, nil
}

// Create inserts a product together with its variants.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for i := range product.Variants {
		if product.Variants[i].ID == "" {
			product.Variants[i].ID = uuid.New().String()
		}
		product.Variants[i].ProductID = product.ID
	}
	return translate(r.db.WithContext(ctx).Create(product).Error, "create product", nil)
}

// Update saves the product's own columns. Variants are managed separately.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":        product.Name,
		"slug":        product.Slug,
		"description": product.Description,
		"price":       product.Price,
		"image_url":   product.ImageURL,
		"is_active":   product.IsActive,
	})
	if res.Error != nil {
		return translate(res.Error, "update product", nil)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product with ID %s not found for update", product.ID)
	}
	return nil
}

// Delete removes a product and its variants.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProductVariant{}, "product_id = ?", id).Error; err != nil {
			return translate(err, "delete variants", nil)
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error, "delete product", nil)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("product with ID %s not found for deletion", id)
		}
		return nil
	})
}

// ListVariants returns the variants of a product ordered by size.
func (r *GORMProductRepository) ListVariants(ctx context.Context, productID string) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("size").Find(&variants).Error
	if err != nil {
		return nil, translate(err, "list variants", nil)
	}
	return variants, nil
}

// GetVariant retrieves a single variant by its ID.
func (r *GORMProductRepository) GetVariant(ctx context.Context, variantID string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).First(&variant, "id = ?", variantID).Error
	if err != nil {
		return nil, translate(err, "get variant", apperrors.NotFound("variant with ID %s not found", variantID))
	}
	return &variant, nil
}

// SetVariantStock overwrites the stock count of a variant.
func (r *GORMProductRepository) SetVariantStock(ctx context.Context, variantID string, stock int) error {
	res := r.db.WithContext(ctx).Model(&models.ProductVariant{}).Where("id = ?", variantID).Update("stock", stock)
	if res.Error != nil {
		return translate(res.Error, "set variant stock", nil)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("variant with ID %s not found", variantID)
	}
	return nil
}
