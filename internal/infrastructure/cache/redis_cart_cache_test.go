package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*RedisCartCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCartCache(client, time.Minute, WithJitter(0), WithInvalidationWindow(time.Second)), mr
}

func sampleCart(cartID uuid.UUID) *checkout.CartResponse {
	productID := uuid.New()
	return &checkout.CartResponse{
		ID: cartID,
		Items: []checkout.CartItemResponse{{
			ID: uuid.New(),
			Product: checkout.CartProductResponse{
				ID:        productID,
				Name:      "Mug",
				UnitPrice: decimal.RequireFromString("10.00"),
			},
			Quantity:   2,
			TotalPrice: decimal.RequireFromString("20.00"),
		}},
		TotalPrice: decimal.RequireFromString("20.00"),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

func TestRedisCartCache_SetThenGet(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()
	cartID := uuid.New()
	want := sampleCart(cartID)

	require.NoError(t, c.Set(ctx, cartID, want))
	assert.True(t, mr.Exists("cart:"+cartID.String()))
	assert.Equal(t, time.Minute, mr.TTL("cart:"+cartID.String()))

	got, err := c.Get(ctx, cartID)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, want.TotalPrice.Equal(got.TotalPrice))
}

func TestRedisCartCache_Miss(t *testing.T) {
	c, _ := setupTestCache(t)

	_, err := c.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, checkout.ErrCacheMiss)
}

func TestRedisCartCache_EntriesExpire(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()
	cartID := uuid.New()

	require.NoError(t, c.Set(ctx, cartID, sampleCart(cartID)))
	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, cartID)
	assert.ErrorIs(t, err, checkout.ErrCacheMiss)
}

func TestRedisCartCache_InvalidateBlocksStaleRepopulation(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()
	cartID := uuid.New()

	require.NoError(t, c.Set(ctx, cartID, sampleCart(cartID)))
	require.NoError(t, c.Invalidate(ctx, cartID))

	_, err := c.Get(ctx, cartID)
	assert.ErrorIs(t, err, checkout.ErrCacheMiss)

	// A reader that loaded the cart before the mutation cannot write it back.
	require.NoError(t, c.Set(ctx, cartID, sampleCart(cartID)))
	_, err = c.Get(ctx, cartID)
	assert.ErrorIs(t, err, checkout.ErrCacheMiss)

	mr.FastForward(2 * time.Second)
	require.NoError(t, c.Set(ctx, cartID, sampleCart(cartID)))
	_, err = c.Get(ctx, cartID)
	assert.NoError(t, err)
}

func TestRedisCartCache_Tombstone(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()
	cartID := uuid.New()

	require.NoError(t, c.Set(ctx, cartID, sampleCart(cartID)))
	require.NoError(t, c.Tombstone(ctx, cartID))

	_, err := c.Get(ctx, cartID)
	assert.ErrorIs(t, err, checkout.ErrCartGone)

	require.NoError(t, c.Set(ctx, cartID, sampleCart(cartID)))
	_, err = c.Get(ctx, cartID)
	assert.ErrorIs(t, err, checkout.ErrCartGone, "a tombstone is never overwritten by a read")

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, cartID)
	assert.ErrorIs(t, err, checkout.ErrCacheMiss)
}

func TestRedisCartCache_CorruptPayload(t *testing.T) {
	c, mr := setupTestCache(t)
	cartID := uuid.New()
	require.NoError(t, mr.Set("cart:"+cartID.String(), "{not json"))

	_, err := c.Get(context.Background(), cartID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, checkout.ErrCacheMiss)
}

func TestRedisCartCache_ConnectionFailure(t *testing.T) {
	c, mr := setupTestCache(t)
	mr.Close()

	_, err := c.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis get failed")
}

func TestRedisCartCache_JitterExtendsTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := NewRedisCartCache(client, time.Minute, WithKeyPrefix("test:cart:"))
	cartID := uuid.New()

	require.NoError(t, c.Set(context.Background(), cartID, sampleCart(cartID)))

	ttl := mr.TTL("test:cart:" + cartID.String())
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.Less(t, ttl, time.Minute+12*time.Second)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Host: mr.Host(), Port: mustPort(t, mr)})
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: 1})
	assert.Error(t, err)
}

func mustPort(t *testing.T, mr *miniredis.Miniredis) int {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return port
}
