package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"boutique/internal/models"

	"github.com/redis/go-redis/v9"
)

// CartSnapshotStore persists the full item list of a cart under its id.
// Loading an unknown cart yields an empty list.
type CartSnapshotStore interface {
	Load(ctx context.Context, cartID string) ([]models.CartItem, error)
	Save(ctx context.Context, cartID string, items []models.CartItem) error
	Delete(ctx context.Context, cartID string) error
}

func cartKey(cartID string) string {
	return "cart:" + cartID
}

// RedisCartSnapshotStore keeps cart snapshots as JSON values in Redis.
// Each save refreshes the expiry.
type RedisCartSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartSnapshotStore creates a RedisCartSnapshotStore.
func NewRedisCartSnapshotStore(client *redis.Client, ttl time.Duration) *RedisCartSnapshotStore {
	return &RedisCartSnapshotStore{client: client, ttl: ttl}
}

func (s *RedisCartSnapshotStore) Load(ctx context.Context, cartID string) ([]models.CartItem, error) {
	data, err := s.client.Get(ctx, cartKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", cartID, err)
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart %s: %w", cartID, err)
	}
	return items, nil
}

func (s *RedisCartSnapshotStore) Save(ctx context.Context, cartID string, items []models.CartItem) error {
	if len(items) == 0 {
		return s.Delete(ctx, cartID)
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart %s: %w", cartID, err)
	}
	if err := s.client.Set(ctx, cartKey(cartID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", cartID, err)
	}
	return nil
}

func (s *RedisCartSnapshotStore) Delete(ctx context.Context, cartID string) error {
	if err := s.client.Del(ctx, cartKey(cartID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", cartID, err)
	}
	return nil
}

// MemoryCartSnapshotStore is an in-memory CartSnapshotStore.
type MemoryCartSnapshotStore struct {
	carts map[string][]byte
	mu    sync.RWMutex
}

// NewMemoryCartSnapshotStore creates an empty MemoryCartSnapshotStore.
func NewMemoryCartSnapshotStore() *MemoryCartSnapshotStore {
	return &MemoryCartSnapshotStore{carts: make(map[string][]byte)}
}

func (s *MemoryCartSnapshotStore) Load(_ context.Context, cartID string) ([]models.CartItem, error) {
	s.mu.RLock()
	data, ok := s.carts[cartID]
	s.mu.RUnlock()
	if !ok {
		return []models.CartItem{}, nil
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart %s: %w", cartID, err)
	}
	return items, nil
}

func (s *MemoryCartSnapshotStore) Save(ctx context.Context, cartID string, items []models.CartItem) error {
	if len(items) == 0 {
		return s.Delete(ctx, cartID)
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart %s: %w", cartID, err)
	}
	s.mu.Lock()
	s.carts[cartID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryCartSnapshotStore) Delete(_ context.Context, cartID string) error {
	s.mu.Lock()
	delete(s.carts, cartID)
	s.mu.Unlock()
	return nil
}
