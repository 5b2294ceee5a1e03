package services

import (
	"context"

	"boutique/internal/apperrors"
	"boutique/internal/models"
	"boutique/internal/repositories"

	"go.uber.org/zap"
)

// EventShippingStatusChanged is published after staff move an order along.
const EventShippingStatusChanged = "order.shipping_status_changed"

// shippingTransitions lists the statuses each status may move to.
// Delivered and cancelled are terminal.
var shippingTransitions = map[string][]string{
	models.ShippingStatusPending:   {models.ShippingStatusInTransit, models.ShippingStatusCancelled},
	models.ShippingStatusInTransit: {models.ShippingStatusDelivered, models.ShippingStatusCancelled},
}

// IsShippingStatus reports whether status is a known shipping status.
func IsShippingStatus(status string) bool {
	switch status {
	case models.ShippingStatusPending, models.ShippingStatusInTransit,
		models.ShippingStatusDelivered, models.ShippingStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one shipping status to another.
func CanTransition(from, to string) bool {
	for _, next := range shippingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ShippingStatusChange is the payload of EventShippingStatusChanged.
type ShippingStatusChange struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// OrderService handles order administration for fulfilment staff.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, publisher EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// ListOrders returns orders, newest first, optionally filtered by shipping status.
func (s *OrderService) ListOrders(ctx context.Context, shippingStatus string) ([]models.Order, error) {
	if shippingStatus != "" && !IsShippingStatus(shippingStatus) {
		return nil, apperrors.Validation("unknown shipping status %q", shippingStatus)
	}
	return s.orderRepo.List(ctx, shippingStatus)
}

// GetOrder retrieves an order with its items.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// UpdateShippingStatus moves an order to a new shipping status.
func (s *OrderService) UpdateShippingStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if !IsShippingStatus(status) {
		return nil, apperrors.Validation("unknown shipping status %q", status)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.ShippingStatus == status {
		return order, nil
	}
	if !CanTransition(order.ShippingStatus, status) {
		return nil, apperrors.Conflict("cannot move order from %s to %s", order.ShippingStatus, status)
	}

	if err := s.orderRepo.UpdateShippingStatus(ctx, id, status); err != nil {
		return nil, err
	}
	from := order.ShippingStatus
	order.ShippingStatus = status
	s.logger.Info("order shipping status updated",
		zap.String("order_id", id),
		zap.String("from", from),
		zap.String("to", status))

	if s.publisher != nil {
		change := ShippingStatusChange{OrderID: id, From: from, To: status}
		if err := s.publisher.PublishEvent(EventShippingStatusChanged, change); err != nil {
			s.logger.Error("failed to publish shipping status event", zap.String("order_id", id), zap.Error(err))
		}
	}
	return order, nil
}
