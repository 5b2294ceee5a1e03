package services_test

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"boutique/internal/apperrors"
	"boutique/internal/models"
	"boutique/internal/repositories"
	"boutique/internal/services"
	"boutique/pkg/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockStockChecker is a mock implementation of services.StockChecker
type MockStockChecker struct {
	mock.Mock
}

func (m *MockStockChecker) RefreshStock(ctx context.Context, productID string) (map[string]int, error) {
	args := m.Called(productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// stockFunc adapts a function to services.StockChecker.
type stockFunc func(productID string) (map[string]int, error)

func (f stockFunc) RefreshStock(_ context.Context, productID string) (map[string]int, error) {
	return f(productID)
}

// failingSnapshotStore rejects every save.
type failingSnapshotStore struct {
	repositories.CartSnapshotStore
}

func (failingSnapshotStore) Save(context.Context, string, []models.CartItem) error {
	return errors.New("redis unavailable")
}

func cartItem(variantID string, qty, stock int, price float64) models.CartItem {
	return models.CartItem{
		VariantID:      variantID,
		ProductID:      "p-" + variantID,
		Name:           "Item " + variantID,
		Size:           "M",
		Quantity:       qty,
		Price:          price,
		AvailableStock: stock,
	}
}

func newCart(stock services.StockChecker) (*services.CartStore, *repositories.MemoryCartSnapshotStore) {
	snapshots := repositories.NewMemoryCartSnapshotStore()
	return services.NewCartStore("cart-1", nil, snapshots, stock, zap.NewNop()), snapshots
}

func TestCartStore_AddToCart(t *testing.T) {
	ctx := context.Background()
	cart, snapshots := newCart(nil)

	require.NoError(t, cart.AddToCart(ctx, cartItem("v1", 2, 5, 19.99)))
	require.NoError(t, cart.AddToCart(ctx, cartItem("v1", 2, 5, 19.99)))
	require.Len(t, cart.Items(), 1)
	assert.Equal(t, 4, cart.Items()[0].Quantity)

	// Increment past stock clamps
	require.NoError(t, cart.AddToCart(ctx, cartItem("v1", 10, 5, 19.99)))
	assert.Equal(t, 5, cart.Items()[0].Quantity)

	require.NoError(t, cart.AddToCart(ctx, cartItem("v2", 0, 3, 5.00)))
	assert.Equal(t, 1, cart.Items()[1].Quantity)
	assert.Equal(t, 6, cart.TotalItems())

	// Every mutation persisted the full snapshot
	stored, err := snapshots.Load(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, cart.Items(), stored)

	// Sold out
	err = cart.AddToCart(ctx, cartItem("v3", 1, 0, 5.00))
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	err = cart.AddToCart(ctx, cartItem("v3", -1, 4, 5.00))
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Len(t, cart.Items(), 2)
}

func TestCartStore_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	cart, snapshots := newCart(nil)
	require.NoError(t, cart.AddToCart(ctx, cartItem("v1", 1, 5, 10)))
	require.NoError(t, cart.AddToCart(ctx, cartItem("v2", 1, 5, 10)))

	require.NoError(t, cart.RemoveFromCart(ctx, "v1"))
	assert.Len(t, cart.Items(), 1)
	err := cart.RemoveFromCart(ctx, "v1")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	require.NoError(t, cart.ClearCart(ctx))
	assert.Empty(t, cart.Items())
	stored, err := snapshots.Load(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCartStore_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	stock := new(MockStockChecker)
	cart, _ := newCart(stock)
	require.NoError(t, cart.AddToCart(ctx, cartItem("v1", 1, 5, 10)))

	// Live stock dropped to 3: request of 4 clamps to 3
	stock.On("RefreshStock", "p-v1").Return(map[string]int{"v1": 3}, nil).Once()
	require.NoError(t, cart.UpdateQuantity(ctx, "v1", 4))
	assert.Equal(t, 3, cart.Items()[0].Quantity)
	assert.Equal(t, 3, cart.Items()[0].AvailableStock)

	// Negative is rejected without a stock lookup
	err := cart.UpdateQuantity(ctx, "v1", -1)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Equal(t, 3, cart.Items()[0].Quantity)

	// A failed stock check leaves the cart as it was
	stock.On("RefreshStock", "p-v1").Return(nil, errors.New("timeout")).Once()
	assert.Error(t, cart.UpdateQuantity(ctx, "v1", 2))
	assert.Equal(t, 3, cart.Items()[0].Quantity)

	// Zero removes the line
	require.NoError(t, cart.UpdateQuantity(ctx, "v1", 0))
	assert.Empty(t, cart.Items())

	err = cart.UpdateQuantity(ctx, "v1", 1)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	stock.AssertExpectations(t)
}

func TestCartStore_UpdateQuantitySoldOutRemovesLine(t *testing.T) {
	ctx := context.Background()
	stock := new(MockStockChecker)
	cart, _ := newCart(stock)
	require.NoError(t, cart.AddToCart(ctx, cartItem("v1", 2, 5, 10)))

	stock.On("RefreshStock", "p-v1").Return(map[string]int{"v1": 0}, nil).Once()
	require.NoError(t, cart.UpdateQuantity(ctx, "v1", 1))
	assert.Empty(t, cart.Items())
}

func TestCartStore_FailedSaveKeepsState(t *testing.T) {
	ctx := context.Background()
	cart := services.NewCartStore("cart-1", []models.CartItem{cartItem("v1", 1, 5, 10)},
		failingSnapshotStore{}, nil, zap.NewNop())

	assert.Error(t, cart.AddToCart(ctx, cartItem("v2", 1, 5, 10)))
	assert.Error(t, cart.RemoveFromCart(ctx, "v1"))
	require.Len(t, cart.Items(), 1)
	assert.Equal(t, "v1", cart.Items()[0].VariantID)
}

func TestCartStore_Refresh(t *testing.T) {
	ctx := context.Background()
	stock := new(MockStockChecker)
	cart, _ := newCart(stock)
	require.NoError(t, cart.AddToCart(ctx, cartItem("v1", 4, 5, 10)))
	require.NoError(t, cart.AddToCart(ctx, cartItem("v2", 1, 5, 10)))

	stock.On("RefreshStock", "p-v1").Return(map[string]int{"v1": 2}, nil).Once()
	stock.On("RefreshStock", "p-v2").Return(nil, apperrors.NotFound("gone")).Once()

	require.NoError(t, cart.Refresh(ctx))
	require.Len(t, cart.Items(), 1)
	assert.Equal(t, "v1", cart.Items()[0].VariantID)
	assert.Equal(t, 2, cart.Items()[0].Quantity)
	assert.Equal(t, 2, cart.Items()[0].AvailableStock)
	stock.AssertExpectations(t)
}

// Random add/remove/update sequences never push a line above its stock, and
// the total price always equals the sum of line totals.
func TestCartStore_RandomOperationsStayWithinStock(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	variants := []string{"v1", "v2", "v3", "v4"}
	prices := map[string]float64{"v1": 19.99, "v2": 0.1, "v3": 49.9, "v4": 7.35}

	for run := 0; run < 50; run++ {
		liveStock := map[string]int{}
		cart, _ := newCart(stockFunc(func(productID string) (map[string]int, error) {
			variant := strings.TrimPrefix(productID, "p-")
			return map[string]int{variant: liveStock[variant]}, nil
		}))

		for step := 0; step < 40; step++ {
			v := variants[rng.Intn(len(variants))]
			liveStock[v] = rng.Intn(6)
			switch rng.Intn(3) {
			case 0:
				_ = cart.AddToCart(ctx, cartItem(v, rng.Intn(8), liveStock[v], prices[v]))
			case 1:
				_ = cart.RemoveFromCart(ctx, v)
			case 2:
				_ = cart.UpdateQuantity(ctx, v, rng.Intn(10)-2)
			}

			expected := decimal.Zero
			for _, item := range cart.Items() {
				assert.GreaterOrEqual(t, item.Quantity, 1)
				assert.LessOrEqual(t, item.Quantity, item.AvailableStock)
				expected = expected.Add(money.LineTotal(item.Price, item.Quantity))
			}
			assert.Equal(t, money.Float(expected), cart.TotalPrice())
		}
	}
}

func TestCartService_OpenAndItemForVariant(t *testing.T) {
	ctx := context.Background()
	products := repositories.NewMockProductRepository()
	product := &models.Product{Name: "Silk Robe", Slug: "silk-robe", Price: 89, IsActive: true,
		Variants: []models.ProductVariant{{Size: "S", Stock: 2}}}
	require.NoError(t, products.Create(ctx, product))
	hidden := &models.Product{Name: "Draft", Slug: "draft", Price: 10,
		Variants: []models.ProductVariant{{Size: "S", Stock: 2}}}
	require.NoError(t, products.Create(ctx, hidden))

	svc := services.NewCartService(repositories.NewMemoryCartSnapshotStore(), products,
		services.NewStockGuard(products), zap.NewNop())

	_, err := svc.Open(ctx, "")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	cart, err := svc.Open(ctx, "cart-42")
	require.NoError(t, err)
	assert.Empty(t, cart.Items())

	item, err := svc.ItemForVariant(ctx, product.Variants[0].ID, 5)
	require.NoError(t, err)
	assert.Equal(t, "silk-robe", item.Slug)
	assert.Equal(t, 2, item.AvailableStock)
	require.NoError(t, cart.AddToCart(ctx, item))
	assert.Equal(t, 2, cart.TotalItems())

	// A reopened cart sees the stored snapshot
	reopened, err := svc.Open(ctx, "cart-42")
	require.NoError(t, err)
	assert.Equal(t, cart.Items(), reopened.Items())

	_, err = svc.ItemForVariant(ctx, hidden.Variants[0].ID, 1)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestStockGuard(t *testing.T) {
	ctx := context.Background()
	products := repositories.NewMockProductRepository()
	product := &models.Product{Name: "Slip", Slug: "slip", Price: 30, IsActive: true,
		Variants: []models.ProductVariant{{Size: "S", Stock: 1}, {Size: "M", Stock: 4}}}
	require.NoError(t, products.Create(ctx, product))
	guard := services.NewStockGuard(products)

	levels, err := guard.RefreshStock(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{product.Variants[0].ID: 1, product.Variants[1].ID: 4}, levels)

	_, err = guard.RefreshStock(ctx, "unknown")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	n, err := guard.VariantStock(ctx, product.Variants[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
