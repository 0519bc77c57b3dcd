package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/application/checkout"
)

const (
	defaultKeyPrefix = "cart:"

	// Marker values share the key space with cart payloads, which are JSON objects.
	goneMarker  = "gone"
	staleMarker = "stale"
)

// RedisCartCache caches rendered carts as JSON under "cart:<id>".
//
// Writes use SET NX so a reader that loaded a cart before a mutation cannot
// overwrite the marker the mutation left behind:
//   - Invalidate leaves a short-lived stale marker that reads treat as a miss
//   - Tombstone leaves a gone marker that reads report as checkout.ErrCartGone
type RedisCartCache struct {
	client          *redis.Client
	keyPrefix       string
	ttl             time.Duration
	maxJitter       time.Duration
	invalidationTTL time.Duration
}

// RedisCartCacheOption configures a RedisCartCache
type RedisCartCacheOption func(*RedisCartCache)

// WithKeyPrefix overrides the "cart:" key prefix
func WithKeyPrefix(prefix string) RedisCartCacheOption {
	return func(c *RedisCartCache) {
		c.keyPrefix = prefix
	}
}

// WithJitter sets the upper bound of the random extension added to each TTL
func WithJitter(maxJitter time.Duration) RedisCartCacheOption {
	return func(c *RedisCartCache) {
		c.maxJitter = maxJitter
	}
}

// WithInvalidationWindow sets how long a stale marker blocks repopulation
func WithInvalidationWindow(d time.Duration) RedisCartCacheOption {
	return func(c *RedisCartCache) {
		c.invalidationTTL = d
	}
}

// NewRedisCartCache creates a cart cache whose entries live for ttl plus jitter
func NewRedisCartCache(client *redis.Client, ttl time.Duration, opts ...RedisCartCacheOption) *RedisCartCache {
	c := &RedisCartCache{
		client:          client,
		keyPrefix:       defaultKeyPrefix,
		ttl:             ttl,
		maxJitter:       ttl / 5,
		invalidationTTL: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached view of cartID
func (c *RedisCartCache) Get(ctx context.Context, cartID uuid.UUID) (*checkout.CartResponse, error) {
	data, err := c.client.Get(ctx, c.key(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, checkout.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	switch string(data) {
	case goneMarker:
		return nil, checkout.ErrCartGone
	case staleMarker:
		return nil, checkout.ErrCacheMiss
	}

	var cart checkout.CartResponse
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

// Set stores the view of cartID unless any entry already exists for it
func (c *RedisCartCache) Set(ctx context.Context, cartID uuid.UUID, cart *checkout.CartResponse) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := c.client.SetNX(ctx, c.key(cartID), payload, c.entryTTL()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate replaces the cached view with a short-lived stale marker
func (c *RedisCartCache) Invalidate(ctx context.Context, cartID uuid.UUID) error {
	if err := c.client.Set(ctx, c.key(cartID), staleMarker, c.invalidationTTL).Err(); err != nil {
		return fmt.Errorf("redis invalidate failed: %w", err)
	}
	return nil
}

// Tombstone marks cartID as deleted for one TTL
func (c *RedisCartCache) Tombstone(ctx context.Context, cartID uuid.UUID) error {
	if err := c.client.Set(ctx, c.key(cartID), goneMarker, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis tombstone failed: %w", err)
	}
	return nil
}

func (c *RedisCartCache) key(cartID uuid.UUID) string {
	return c.keyPrefix + cartID.String()
}

func (c *RedisCartCache) entryTTL() time.Duration {
	if c.maxJitter <= 0 {
		return c.ttl
	}
	return c.ttl + rand.N(c.maxJitter)
}

var _ checkout.CartCache = (*RedisCartCache)(nil)
