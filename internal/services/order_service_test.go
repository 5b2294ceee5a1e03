package services_test

import (
	"context"
	"testing"

	"boutique/internal/apperrors"
	"boutique/internal/models"
	"boutique/internal/repositories"
	"boutique/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) List(ctx context.Context, shippingStatus string) ([]models.Order, error) {
	args := m.Called(shippingStatus)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) CreatePaid(ctx context.Context, order *models.Order) ([]repositories.StockShortfall, error) {
	args := m.Called(order)
	shortfalls, _ := args.Get(0).([]repositories.StockShortfall)
	return shortfalls, args.Error(1)
}

func (m *MockOrderRepository) UpdateShippingStatus(ctx context.Context, id string, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, services.CanTransition(models.ShippingStatusPending, models.ShippingStatusInTransit))
	assert.True(t, services.CanTransition(models.ShippingStatusPending, models.ShippingStatusCancelled))
	assert.True(t, services.CanTransition(models.ShippingStatusInTransit, models.ShippingStatusDelivered))
	assert.True(t, services.CanTransition(models.ShippingStatusInTransit, models.ShippingStatusCancelled))

	assert.False(t, services.CanTransition(models.ShippingStatusPending, models.ShippingStatusDelivered))
	assert.False(t, services.CanTransition(models.ShippingStatusDelivered, models.ShippingStatusPending))
	assert.False(t, services.CanTransition(models.ShippingStatusCancelled, models.ShippingStatusInTransit))
}

func TestOrderService_UpdateShippingStatus(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOrderRepository)
	publisher := new(MockEventPublisher)
	orderService := services.NewOrderService(mockRepo, publisher, zap.NewNop())

	pending := &models.Order{ID: "o-1", ShippingStatus: models.ShippingStatusPending}
	mockRepo.On("GetByID", "o-1").Return(pending, nil).Once()
	mockRepo.On("UpdateShippingStatus", "o-1", models.ShippingStatusInTransit).Return(nil).Once()
	publisher.On("PublishEvent", services.EventShippingStatusChanged, services.ShippingStatusChange{
		OrderID: "o-1", From: models.ShippingStatusPending, To: models.ShippingStatusInTransit,
	}).Return(nil).Once()

	order, err := orderService.UpdateShippingStatus(ctx, "o-1", models.ShippingStatusInTransit)
	require.NoError(t, err)
	assert.Equal(t, models.ShippingStatusInTransit, order.ShippingStatus)

	// Terminal status cannot move
	delivered := &models.Order{ID: "o-2", ShippingStatus: models.ShippingStatusDelivered}
	mockRepo.On("GetByID", "o-2").Return(delivered, nil).Once()
	_, err = orderService.UpdateShippingStatus(ctx, "o-2", models.ShippingStatusPending)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	// Unknown status never reaches the repository
	_, err = orderService.UpdateShippingStatus(ctx, "o-1", "lost")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	mockRepo.On("GetByID", "missing").Return(nil, apperrors.NotFound("order with ID missing not found")).Once()
	_, err = orderService.UpdateShippingStatus(ctx, "missing", models.ShippingStatusCancelled)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_ListOrders(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOrderRepository)
	orderService := services.NewOrderService(mockRepo, nil, zap.NewNop())

	mockRepo.On("List", models.ShippingStatusPending).Return([]models.Order{{ID: "o-1"}}, nil).Once()
	orders, err := orderService.ListOrders(ctx, models.ShippingStatusPending)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = orderService.ListOrders(ctx, "shipped")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	mockRepo.AssertExpectations(t)
}
