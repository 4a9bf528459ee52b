package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neuroscan/scan-api/internal/api/metrics"
	"github.com/neuroscan/scan-api/internal/core/domain"
)

const cacheTTL = 24 * time.Hour

// ResultCache caches classification results keyed by the SHA-256 of the
// uploaded content. Identical scans classify identically, so a hit skips the
// worker invocation entirely. Entries expire after cacheTTL.
// Key format: inference:<hex digest>
type ResultCache struct {
	client *redis.Client
}

func NewResultCache(client *redis.Client) *ResultCache {
	return &ResultCache{client: client}
}

func (c *ResultCache) Get(ctx context.Context, key string) (*domain.InferenceResult, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.InferenceCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var result domain.InferenceResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		metrics.InferenceCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}

	metrics.InferenceCacheTotal.WithLabelValues("hit").Inc()
	return &result, true, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, result *domain.InferenceResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), raw, cacheTTL).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *ResultCache) key(digest string) string {
	return "inference:" + digest
}
