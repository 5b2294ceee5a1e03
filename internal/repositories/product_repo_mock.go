package repositories

import (
	"context"
	"sort"
	"sync"

	"boutique/internal/apperrors"
	"boutique/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// List returns all products sorted by name.
func (r *MockProductRepository) List(_ context.Context, activeOnly bool) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if activeOnly && !p.IsActive {
			continue
		}
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].Name < productList[j].Name })
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound("product with ID %s not found", id)
	}
	return &product, nil
}

// GetBySlug returns a product by its slug.
func (r *MockProductRepository) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, apperrors.NotFound("product %s not found", slug)
}

// Create adds a new product.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for i := range product.Variants {
		if product.Variants[i].ID == "" {
			product.Variants[i].ID = uuid.New().String()
		}
		product.Variants[i].ProductID = product.ID
	}
	stored := *product
	stored.Variants = append([]models.ProductVariant(nil), product.Variants...)
	r.products[product.ID] = stored
	return nil
}

// Update modifies an existing product, keeping its variants.
func (r *MockProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return apperrors.NotFound("product with ID %s not found for update", product.ID)
	}
	updated := *product
	updated.Variants = existing.Variants
	r.products[product.ID] = updated
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperrors.NotFound("product with ID %s not found for deletion", id)
	}
	delete(r.products, id)
	return nil
}

// ListVariants returns the variants of a product.
func (r *MockProductRepository) ListVariants(_ context.Context, productID string) ([]models.ProductVariant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[productID]
	if !ok {
		return []models.ProductVariant{}, nil
	}
	return append([]models.ProductVariant(nil), product.Variants...), nil
}

// GetVariant returns a variant by its ID.
func (r *MockProductRepository) GetVariant(_ context.Context, variantID string) (*models.ProductVariant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		for _, v := range p.Variants {
			if v.ID == variantID {
				return &v, nil
			}
		}
	}
	return nil, apperrors.NotFound("variant with ID %s not found", variantID)
}

// SetVariantStock overwrites the stock count of a variant.
func (r *MockProductRepository) SetVariantStock(_ context.Context, variantID string, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.products {
		for i := range p.Variants {
			if p.Variants[i].ID == variantID {
				p.Variants[i].Stock = stock
				r.products[id] = p
				return nil
			}
		}
	}
	return apperrors.NotFound("variant with ID %s not found", variantID)
}
