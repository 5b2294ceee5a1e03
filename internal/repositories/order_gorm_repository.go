package repositories

import (
	"context"

	"boutique/internal/apperrors"
	"boutique/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// List returns orders newest first, optionally filtered by shipping status.
func (r *GORMOrderRepository) List(ctx context.Context, shippingStatus string) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if shippingStatus != "" {
		q = q.Where("shipping_status = ?", shippingStatus)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, translate(err, "list orders", nil)
	}
	return orders, nil
}

// GetByID returns an order with its items.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "get order", apperrors.NotFound("order with ID %s not found", id))
	}
	return &order, nil
}

// GetBySessionID returns the order recorded for a payment session.
func (r *GORMOrderRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "stripe_session_id = ?", sessionID).Error
	if err != nil {
		return nil, translate(err, "get order by session", apperrors.NotFound("no order for session %s", sessionID))
	}
	return &order, nil
}

// CreatePaid inserts the order and decrements stock atomically.
func (r *GORMOrderRepository) CreatePaid(ctx context.Context, order *models.Order) ([]StockShortfall, error) {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	var shortfalls []StockShortfall
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return translate(err, "create order", nil)
		}

		for _, item := range order.Items {
			if item.VariantID == "" {
				continue
			}
			res := tx.Model(&models.ProductVariant{}).
				Where("id = ? AND stock >= ?", item.VariantID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return translate(res.Error, "decrement stock", nil)
			}
			if res.RowsAffected > 0 {
				continue
			}

			var variant models.ProductVariant
			if err := tx.First(&variant, "id = ?", item.VariantID).Error; err != nil {
				// Variant deleted since checkout; nothing to decrement.
				shortfalls = append(shortfalls, StockShortfall{VariantID: item.VariantID, Requested: item.Quantity})
				continue
			}
			shortfalls = append(shortfalls, StockShortfall{VariantID: item.VariantID, Requested: item.Quantity, Available: variant.Stock})
			if err := tx.Model(&variant).Update("stock", 0).Error; err != nil {
				return translate(err, "clamp stock", nil)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shortfalls, nil
}

// UpdateShippingStatus sets the shipping status of an order.
func (r *GORMOrderRepository) UpdateShippingStatus(ctx context.Context, id string, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("shipping_status", status)
	if res.Error != nil {
		return translate(res.Error, "update shipping status", nil)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("order with ID %s not found for status update", id)
	}
	return nil
}
