package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupeKeyPrefix = "day-results:dedupe:"

// DedupeRepository remembers submission fingerprints in Redis for a bounded
// window so retried client posts are not stored twice. Best effort only: it
// is never a durability guarantee.
type DedupeRepository struct {
	client *redis.Client
}

// NewDedupeRepository constructs the repository.
func NewDedupeRepository(client *redis.Client) *DedupeRepository {
	return &DedupeRepository{client: client}
}

// Remember records the fingerprint and reports whether it was already
// present within the TTL window.
func (r *DedupeRepository) Remember(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	if r.client == nil {
		return false, nil
	}
	stored, err := r.client.SetNX(ctx, dedupeKeyPrefix+fingerprint, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedupe setnx: %w", err)
	}
	return !stored, nil
}

// Forget drops a remembered fingerprint, e.g. after a failed insert so the
// client's retry is accepted.
func (r *DedupeRepository) Forget(ctx context.Context, fingerprint string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, dedupeKeyPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("dedupe del: %w", err)
	}
	return nil
}
