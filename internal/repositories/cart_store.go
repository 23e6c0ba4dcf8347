package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"atelier/internal/models"

	"github.com/redis/go-redis/v9"
)

// CartStore persists session carts. Every mutation in the cart service
// writes through immediately, so a cart survives across requests until
// the session expires or the cart is cleared at order creation.
type CartStore interface {
	Get(ctx context.Context, session string) (*models.Cart, error)
	Save(ctx context.Context, session string, cart *models.Cart) error
	Clear(ctx context.Context, session string) error
}

// RedisCartStore keeps carts in Redis as JSON, keyed by session token
// with a TTL matching the session lifetime.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStore creates a Redis-backed cart store.
func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

func cartKey(session string) string {
	return "cart:" + session
}

// Get retrieves the cart for a session. A missing key yields an empty
// cart, not an error.
func (s *RedisCartStore) Get(ctx context.Context, session string) (*models.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(session)).Result()
	if err == redis.Nil {
		return &models.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for session %s: %w", session, err)
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart for session %s: %w", session, err)
	}
	return &cart, nil
}

// Save writes the cart back, refreshing the TTL.
func (s *RedisCartStore) Save(ctx context.Context, session string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart for session %s: %w", session, err)
	}
	if err := s.client.Set(ctx, cartKey(session), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart for session %s: %w", session, err)
	}
	return nil
}

// Clear removes the cart for a session.
func (s *RedisCartStore) Clear(ctx context.Context, session string) error {
	if err := s.client.Del(ctx, cartKey(session)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart for session %s: %w", session, err)
	}
	return nil
}

// MemoryCartStore is an in-memory CartStore used by tests and by
// deployments running without Redis.
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string]models.Cart
}

// NewMemoryCartStore creates an empty in-memory cart store.
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string]models.Cart)}
}

// Get retrieves a copy of the cart for a session.
func (s *MemoryCartStore) Get(ctx context.Context, session string) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[session]
	if !ok {
		return &models.Cart{}, nil
	}
	lines := make([]models.CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	return &models.Cart{Lines: lines}, nil
}

// Save stores the cart for a session.
func (s *MemoryCartStore) Save(ctx context.Context, session string, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]models.CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	s.carts[session] = models.Cart{Lines: lines}
	return nil
}

// Clear removes the cart for a session.
func (s *MemoryCartStore) Clear(ctx context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, session)
	return nil
}
