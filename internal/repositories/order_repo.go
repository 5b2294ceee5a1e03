package repositories

import (
	"context"

	"boutique/internal/models"
)

// StockShortfall reports a variant whose stock could not cover an order line.
type StockShortfall struct {
	VariantID string
	Requested int
	Available int
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	List(ctx context.Context, shippingStatus string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	// CreatePaid inserts the order and its items and decrements variant stock
	// in one transaction. Lines whose stock runs short drive the stock to zero
	// and are reported back.
	CreatePaid(ctx context.Context, order *models.Order) ([]StockShortfall, error)
	UpdateShippingStatus(ctx context.Context, id string, status string) error
	// Deletion of orders is not supported; they are kept for accounting.
}
