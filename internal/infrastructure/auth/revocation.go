package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList answers whether a token ID was revoked before it expired,
// e.g. on logout in the identity service.
type RevocationList interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocationList reads the revocation keys the identity service writes
// as "token:blacklist:jti:<jti>".
type RedisRevocationList struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRevocationList creates a revocation list on an existing client
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{
		client:    client,
		keyPrefix: "token:blacklist:jti:",
	}
}

// IsRevoked checks whether jti is present in the list
func (r *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists > 0, nil
}

// Revoke adds jti to the list for ttl
func (r *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// NoRevocation never reports a token as revoked
type NoRevocation struct{}

// IsRevoked always returns false
func (NoRevocation) IsRevoked(context.Context, string) (bool, error) { return false, nil }

var (
	_ RevocationList = (*RedisRevocationList)(nil)
	_ RevocationList = NoRevocation{}
)
