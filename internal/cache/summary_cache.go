package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/seydifall/dindetrack/internal/config"
	"github.com/seydifall/dindetrack/internal/domain/models"
)

// SummaryCache keeps computed weekly summaries in Redis so the record-entry
// UI can re-render without refetching the whole record store. Every failure
// path degrades to a cache miss; the rollup is always recomputable.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSummaryCache connects to Redis. A nil cache is returned (not an error)
// when no address is configured or the server is unreachable, so callers
// can run cache-less.
func NewSummaryCache(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *SummaryCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Addr == "" {
		logger.Info("summary cache disabled, no redis address configured")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, summary cache disabled", zap.Error(err))
		_ = client.Close()
		return nil
	}

	return &SummaryCache{client: client, ttl: cfg.TTL, logger: logger}
}

// Key derives the cache key of one rollup scope. The building list is part
// of the key: a two-building view and a four-building view are different
// summaries.
func Key(farmID, lot, semaine string, batiments []string) string {
	return fmt.Sprintf("summary:%s:%s:%s:%s", farmID, lot, semaine, strings.Join(batiments, "+"))
}

// Get returns the cached summary for a key, or nil on miss.
func (c *SummaryCache) Get(ctx context.Context, key string) *models.WeeklySummary {
	if c == nil {
		return nil
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}

	summary := new(models.WeeklySummary)
	if err := json.Unmarshal(payload, summary); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, key).Err()
		return nil
	}
	return summary
}

// Set stores a computed summary under the key for the configured TTL.
func (c *SummaryCache) Set(ctx context.Context, key string, summary *models.WeeklySummary) {
	if c == nil || summary == nil {
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Debug("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateScope drops every cached summary of one (farm, lot, semaine)
// scope, whatever building list it was computed for. Called by the
// record-writing application after any contributing write.
func (c *SummaryCache) InvalidateScope(ctx context.Context, farmID, lot, semaine string) int {
	if c == nil {
		return 0
	}
	pattern := fmt.Sprintf("summary:%s:%s:%s:*", farmID, lot, semaine)

	var dropped int
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err == nil {
			dropped++
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Debug("cache invalidation scan failed", zap.String("pattern", pattern), zap.Error(err))
	}
	return dropped
}

// Close releases the Redis connection.
func (c *SummaryCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
