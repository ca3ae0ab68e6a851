// internal/store/cache.go
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"skillmatch/internal/common/logger"
	"skillmatch/internal/common/metrics"
)

const (
	searchKeyPrefix     = "search:v1:"
	categoriesCacheKey  = "skill:categories:v1"
	statisticsKeyPrefix = "stats:v1:"
)

// Cache is a Redis-backed cache-aside layer. Cache failures are reported to
// the caller but the service treats them as misses; a broken Redis never
// breaks a search.
type Cache struct {
	client *redis.Client
	logger logger.Logger
}

func NewCache(client *redis.Client, log logger.Logger) *Cache {
	return &Cache{
		client: client,
		logger: log.WithFields(map[string]interface{}{"store": "cache"}),
	}
}

// SearchKey derives a stable cache key from everything that affects a search
// result. Skills are normalized and sorted so equivalent requests share one
// entry.
func SearchKey(mode string, skills []string, experience string, weights [4]float64, limit int) string {
	normalized := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			normalized = append(normalized, s)
		}
	}
	sort.Strings(normalized)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%v|%d", mode, strings.Join(normalized, ","), strings.ToLower(strings.TrimSpace(experience)), weights, limit)
	return searchKeyPrefix + mode + ":" + hex.EncodeToString(h.Sum(nil))[:16]
}

func CategoriesKey() string {
	return categoriesCacheKey
}

func StatisticsKey(mode string, topN int) string {
	return fmt.Sprintf("%s%s:%d", statisticsKeyPrefix, mode, topN)
}

// GetJSON loads a cached value into dest. The bool reports whether the key
// was present and decodable.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMisses.WithLabelValues(keyGroup(key)).Inc()
		return false, nil
	}
	if err != nil {
		metrics.CacheMisses.WithLabelValues(keyGroup(key)).Inc()
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("dropping undecodable cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		c.client.Del(ctx, key)
		metrics.CacheMisses.WithLabelValues(keyGroup(key)).Inc()
		return false, nil
	}
	metrics.CacheHits.WithLabelValues(keyGroup(key)).Inc()
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// InvalidatePrefix removes every key under a prefix via SCAN, so it stays
// safe on large keyspaces.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) (int, error) {
	var deleted int
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("cache invalidate %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("cache scan %s: %w", prefix, err)
	}
	return deleted, nil
}

func keyGroup(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
