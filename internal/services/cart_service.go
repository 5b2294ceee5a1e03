package services

import (
	"context"

	"boutique/internal/apperrors"
	"boutique/internal/models"
	"boutique/internal/repositories"

	"go.uber.org/zap"
)

const maxCartIDLength = 64

// CartService opens carts from the snapshot store and resolves catalog data
// for new lines.
type CartService struct {
	snapshots repositories.CartSnapshotStore
	products  repositories.ProductRepository
	stock     StockChecker
	logger    *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(snapshots repositories.CartSnapshotStore, products repositories.ProductRepository, stock StockChecker, logger *zap.Logger) *CartService {
	return &CartService{
		snapshots: snapshots,
		products:  products,
		stock:     stock,
		logger:    logger,
	}
}

// Open loads the cart stored under cartID. Unknown ids give an empty cart.
func (s *CartService) Open(ctx context.Context, cartID string) (*CartStore, error) {
	if cartID == "" || len(cartID) > maxCartIDLength {
		return nil, apperrors.Validation("cart id must be between 1 and %d characters", maxCartIDLength)
	}
	items, err := s.snapshots.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return NewCartStore(cartID, items, s.snapshots, s.stock, s.logger), nil
}

// ItemForVariant builds a cart line for variantID from the catalog. Only
// active products can be added.
func (s *CartService) ItemForVariant(ctx context.Context, variantID string, quantity int) (models.CartItem, error) {
	variant, err := s.products.GetVariant(ctx, variantID)
	if err != nil {
		return models.CartItem{}, err
	}
	product, err := s.products.GetByID(ctx, variant.ProductID)
	if err != nil {
		return models.CartItem{}, err
	}
	if !product.IsActive {
		return models.CartItem{}, apperrors.NotFound("product %s is not available", product.ID)
	}

	return models.CartItem{
		VariantID:      variant.ID,
		ProductID:      product.ID,
		Slug:           product.Slug,
		Size:           variant.Size,
		Quantity:       quantity,
		Name:           product.Name,
		Price:          product.Price,
		ImageURL:       product.ImageURL,
		AvailableStock: variant.Stock,
	}, nil
}
