package services

import (
	"context"

	"boutique/internal/apperrors"
	"boutique/internal/repositories"
)

// StockGuard reads live variant stock from the catalog. Reads are not
// transactional; the authoritative check happens when an order is saved.
type StockGuard struct {
	products repositories.ProductRepository
}

// NewStockGuard creates a StockGuard.
func NewStockGuard(products repositories.ProductRepository) *StockGuard {
	return &StockGuard{products: products}
}

// RefreshStock returns the current stock of every variant of a product,
// keyed by variant id.
func (g *StockGuard) RefreshStock(ctx context.Context, productID string) (map[string]int, error) {
	if productID == "" {
		return nil, apperrors.Validation("product id is required")
	}
	variants, err := g.products.ListVariants(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, apperrors.NotFound("product %s has no variants", productID)
	}

	levels := make(map[string]int, len(variants))
	for _, v := range variants {
		levels[v.ID] = v.Stock
	}
	return levels, nil
}

// VariantStock returns the current stock of one variant.
func (g *StockGuard) VariantStock(ctx context.Context, variantID string) (int, error) {
	if variantID == "" {
		return 0, apperrors.Validation("variant id is required")
	}
	variant, err := g.products.GetVariant(ctx, variantID)
	if err != nil {
		return 0, err
	}
	return variant.Stock, nil
}
