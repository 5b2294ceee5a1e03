package services

import (
	"context"
	"sync"

	"boutique/internal/apperrors"
	"boutique/internal/models"
	"boutique/internal/repositories"
	"boutique/pkg/money"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockChecker reads live stock for the variants of a product.
type StockChecker interface {
	RefreshStock(ctx context.Context, productID string) (map[string]int, error)
}

// CartStore holds the lines of one cart. Every mutation saves the complete
// snapshot first and only then replaces the in-memory state, so a failed
// save leaves the cart unchanged.
type CartStore struct {
	id       string
	items    []models.CartItem
	snapshot repositories.CartSnapshotStore
	stock    StockChecker
	logger   *zap.Logger
	mu       sync.Mutex
}

// NewCartStore creates a CartStore seeded with items.
func NewCartStore(id string, items []models.CartItem, snapshot repositories.CartSnapshotStore, stock StockChecker, logger *zap.Logger) *CartStore {
	if items == nil {
		items = []models.CartItem{}
	}
	return &CartStore{
		id:       id,
		items:    items,
		snapshot: snapshot,
		stock:    stock,
		logger:   logger,
	}
}

// ID returns the cart id.
func (c *CartStore) ID() string {
	return c.id
}

// Items returns a copy of the cart lines.
func (c *CartStore) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneItems(c.items)
}

// TotalItems returns the sum of quantities.
func (c *CartStore) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum of price × quantity over all lines.
func (c *CartStore) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]decimal.Decimal, 0, len(c.items))
	for _, item := range c.items {
		lines = append(lines, money.LineTotal(item.Price, item.Quantity))
	}
	return money.Float(money.Sum(lines...))
}

// AddToCart inserts item or, when its variant is already in the cart,
// increments that line. The resulting quantity is clamped to the item's
// available stock.
func (c *CartStore) AddToCart(ctx context.Context, item models.CartItem) error {
	if item.VariantID == "" || item.ProductID == "" {
		return apperrors.Validation("variant id and product id are required")
	}
	if item.Quantity < 0 {
		return apperrors.Validation("quantity must not be negative")
	}
	if item.Price < 0 {
		return apperrors.Validation("price must not be negative")
	}
	if item.AvailableStock <= 0 {
		return apperrors.Conflict("%s is out of stock", item.Name)
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := cloneItems(c.items)
	if idx := indexOf(next, item.VariantID); idx >= 0 {
		item.Quantity += next[idx].Quantity
		item.Quantity = clamp(item.Quantity, item.AvailableStock)
		next[idx] = item
	} else {
		item.Quantity = clamp(item.Quantity, item.AvailableStock)
		next = append(next, item)
	}
	return c.commit(ctx, next)
}

// RemoveFromCart deletes the line for variantID.
func (c *CartStore) RemoveFromCart(ctx context.Context, variantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := indexOf(c.items, variantID)
	if idx < 0 {
		return apperrors.NotFound("variant %s is not in the cart", variantID)
	}
	next := cloneItems(c.items)
	next = append(next[:idx], next[idx+1:]...)
	return c.commit(ctx, next)
}

// UpdateQuantity sets the quantity of a line after checking live stock.
// The value is clamped to [0, available]; a line that resolves to zero is
// removed. A failed stock check leaves the cart untouched.
func (c *CartStore) UpdateQuantity(ctx context.Context, variantID string, quantity int) error {
	if quantity < 0 {
		return apperrors.Validation("quantity must not be negative")
	}

	c.mu.Lock()
	idx := indexOf(c.items, variantID)
	if idx < 0 {
		c.mu.Unlock()
		return apperrors.NotFound("variant %s is not in the cart", variantID)
	}
	productID := c.items[idx].ProductID
	c.mu.Unlock()

	available := -1
	if quantity > 0 && c.stock != nil {
		levels, err := c.stock.RefreshStock(ctx, productID)
		if err != nil {
			return err
		}
		available = levels[variantID]
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// The line may have gone while the stock check ran.
	idx = indexOf(c.items, variantID)
	if idx < 0 {
		return apperrors.NotFound("variant %s is not in the cart", variantID)
	}
	next := cloneItems(c.items)
	if available >= 0 {
		next[idx].AvailableStock = available
	}
	resolved := clamp(quantity, next[idx].AvailableStock)
	if resolved == 0 {
		next = append(next[:idx], next[idx+1:]...)
	} else {
		next[idx].Quantity = resolved
	}
	return c.commit(ctx, next)
}

// ClearCart removes every line and the stored snapshot.
func (c *CartStore) ClearCart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.snapshot.Delete(ctx, c.id); err != nil {
		return err
	}
	c.items = []models.CartItem{}
	return nil
}

// Refresh re-reads stock for every product in the cart and clamps each line
// to it. Products that no longer exist count as out of stock.
func (c *CartStore) Refresh(ctx context.Context) error {
	if c.stock == nil {
		return nil
	}

	c.mu.Lock()
	productIDs := make([]string, 0, len(c.items))
	seen := make(map[string]bool)
	for _, item := range c.items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}
	c.mu.Unlock()

	levels := make(map[string]int)
	for _, productID := range productIDs {
		productLevels, err := c.stock.RefreshStock(ctx, productID)
		if apperrors.Is(err, apperrors.KindNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		for variantID, stock := range productLevels {
			levels[variantID] = stock
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	changed := false
	next := make([]models.CartItem, 0, len(c.items))
	for _, item := range c.items {
		available := levels[item.VariantID]
		resolved := clamp(item.Quantity, available)
		if available != item.AvailableStock || resolved != item.Quantity {
			changed = true
		}
		if resolved == 0 {
			c.logger.Info("dropping sold out cart line",
				zap.String("cart_id", c.id),
				zap.String("variant_id", item.VariantID))
			continue
		}
		item.AvailableStock = available
		item.Quantity = resolved
		next = append(next, item)
	}
	if !changed {
		return nil
	}
	return c.commit(ctx, next)
}

// commit must be called with c.mu held.
func (c *CartStore) commit(ctx context.Context, next []models.CartItem) error {
	if err := c.snapshot.Save(ctx, c.id, next); err != nil {
		c.logger.Error("failed to persist cart", zap.String("cart_id", c.id), zap.Error(err))
		return err
	}
	c.items = next
	return nil
}

func clamp(quantity, available int) int {
	if available < 0 {
		available = 0
	}
	if quantity > available {
		return available
	}
	if quantity < 0 {
		return 0
	}
	return quantity
}

func indexOf(items []models.CartItem, variantID string) int {
	for i, item := range items {
		if item.VariantID == variantID {
			return i
		}
	}
	return -1
}

func cloneItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
