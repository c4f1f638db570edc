// Package cache implements the derived read caches for the catalog and the
// pattern-based invalidation contract: every write to catalog data fans out
// deletions over the related cache key patterns. Cache trouble never fails a
// request: reads fall through to the store and writes are best-effort.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Cache key prefixes for the derived read caches.
const (
	KeyProductList        = "product_list"
	KeyCategoryList       = "category_list"
	KeyFeaturedCategories = "featured_categories"
	KeyCategoryProducts   = "category_products" // suffixed with ":<slug>"
	KeyTopSelling         = "top_selling_products"
)

// Invalidation fan-out per written entity, mirroring the derived caches that
// embed its data.
var (
	productPatterns    = []string{KeyProductList + "*", KeyCategoryProducts + "*", KeyTopSelling + "*"}
	categoryPatterns   = []string{KeyCategoryList + "*", KeyFeaturedCategories + "*", KeyCategoryProducts + "*"}
	reviewPatterns     = []string{KeyProductList + "*", KeyCategoryProducts + "*"}
	topSellingPatterns = []string{KeyTopSelling + "*"}
)

// Cache is a read-through JSON cache over Redis. A nil-client Cache is a
// no-op: every Get misses and every write succeeds silently, so callers need
// no conditionals when Redis is not configured.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a Cache with the given TTL for read-through entries.
// rdb may be nil to disable caching entirely.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetJSON loads key into dest. The second return value reports a hit.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if c.rdb == nil {
		return false, nil
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		zctx.From(ctx).Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A corrupt entry behaves like a miss; the next SetJSON repairs it.
		return false, nil
	}
	return true, nil
}

// SetJSON stores v under key with the cache TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		zctx.From(ctx).Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateProducts drops every cache derived from product rows.
// Invoked after any product write.
func (c *Cache) InvalidateProducts(ctx context.Context) {
	c.invalidate(ctx, productPatterns)
}

// InvalidateCategories drops every cache derived from category rows.
func (c *Cache) InvalidateCategories(ctx context.Context) {
	c.invalidate(ctx, categoryPatterns)
}

// InvalidateReviews drops the product caches that embed review data.
func (c *Cache) InvalidateReviews(ctx context.Context) {
	c.invalidate(ctx, reviewPatterns)
}

// InvalidateTopSelling drops the top-selling products cache.
func (c *Cache) InvalidateTopSelling(ctx context.Context) {
	c.invalidate(ctx, topSellingPatterns)
}

// invalidate deletes all keys matching the given patterns, one SCAN walk per
// pattern in parallel. Errors are logged and swallowed: a stale cache entry
// expires by TTL anyway.
func (c *Cache) invalidate(ctx context.Context, patterns []string) {
	if c.rdb == nil {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, pattern := range patterns {
		g.Go(func() error {
			iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
			for iter.Next(ctx) {
				if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
					return err
				}
			}
			return iter.Err()
		})
	}
	if err := g.Wait(); err != nil {
		zctx.From(ctx).Warn("cache invalidation failed", zap.Error(err))
	}
}
