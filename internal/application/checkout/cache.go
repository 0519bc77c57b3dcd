package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrCacheMiss is returned by CartCache.Get when nothing is cached for a cart
var ErrCacheMiss = errors.New("cache miss")

// ErrCartGone is returned by CartCache.Get when the cart was recently deleted or checked out
var ErrCartGone = errors.New("cart gone")

// CartCache is a read-through cache of rendered cart views.
type CartCache interface {
	Get(ctx context.Context, cartID uuid.UUID) (*CartResponse, error)
	// Set stores the view unless a tombstone or fresher entry already exists
	Set(ctx context.Context, cartID uuid.UUID, cart *CartResponse) error
	// Invalidate drops the cached view after a mutation
	Invalidate(ctx context.Context, cartID uuid.UUID) error
	// Tombstone marks the cart as removed so racing readers cannot repopulate it
	Tombstone(ctx context.Context, cartID uuid.UUID) error
}

// NoOpCartCache disables caching
type NoOpCartCache struct{}

// Get always misses
func (NoOpCartCache) Get(context.Context, uuid.UUID) (*CartResponse, error) {
	return nil, ErrCacheMiss
}

// Set does nothing
func (NoOpCartCache) Set(context.Context, uuid.UUID, *CartResponse) error { return nil }

// Invalidate does nothing
func (NoOpCartCache) Invalidate(context.Context, uuid.UUID) error { return nil }

// Tombstone does nothing
func (NoOpCartCache) Tombstone(context.Context, uuid.UUID) error { return nil }

var _ CartCache = NoOpCartCache{}
