package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kolyapvp/products-app/internal/domain/product"
)

// ProductCache caches single-product reads. Errors are logged and treated
// as misses so the repository stays the source of truth.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

// versionTTL outlives any entry so a bumped version is still visible to a
// reader that started before the bump.
const versionTTL = 24 * time.Hour

// setIfVersion stores KEYS[1] only while KEYS[2] still holds ARGV[1].
// A missing version key counts as 0.
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[2])
if not current then current = '0' end
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func versionKey(id string) string {
	return fmt.Sprintf("product:%s:version", id)
}

func (c *ProductCache) Get(ctx context.Context, id string) (product.Product, bool) {
	val, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "product cache get failed", "product_id", id, "error", err)
		}
		return product.Product{}, false
	}

	var p product.Product
	if err := json.Unmarshal(val, &p); err != nil {
		slog.WarnContext(ctx, "product cache entry corrupt", "product_id", id, "error", err)
		return product.Product{}, false
	}
	return p, true
}

// Version reports false when the version cannot be read; the caller must
// then skip Set.
func (c *ProductCache) Version(ctx context.Context, id string) (int64, bool) {
	v, err := c.client.Get(ctx, versionKey(id)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, true
	case err != nil:
		slog.WarnContext(ctx, "product cache version failed", "product_id", id, "error", err)
		return 0, false
	}
	return v, true
}

// Set is dropped when the entry was invalidated after version was read.
func (c *ProductCache) Set(ctx context.Context, p product.Product, version int64) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	keys := []string{productKey(p.ID), versionKey(p.ID)}
	ttl := c.ttl.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	if err := setIfVersion.Run(ctx, c.client, keys, strconv.FormatInt(version, 10), data, ttl).Err(); err != nil {
		slog.WarnContext(ctx, "product cache set failed", "product_id", p.ID, "error", err)
	}
}

func (c *ProductCache) Invalidate(ctx context.Context, id string) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(id))
		pipe.Expire(ctx, versionKey(id), versionTTL)
		pipe.Del(ctx, productKey(id))
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "product cache invalidate failed", "product_id", id, "error", err)
	}
}
