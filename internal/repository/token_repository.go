package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "auth:revoked:"

// TokenRepository tracks revoked token ids until their natural expiry.
type TokenRepository struct {
	client *redis.Client
}

// NewTokenRepository constructs the repository. Without Redis nothing is
// ever reported as revoked.
func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{client: client}
}

// Revoke blacklists jti for ttl.
func (r *TokenRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if r.client == nil || jti == "" {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedTokenPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti has been revoked.
func (r *TokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if r.client == nil || jti == "" {
		return false, nil
	}
	err := r.client.Get(ctx, revokedTokenPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return true, nil
}
