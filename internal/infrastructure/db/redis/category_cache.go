package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/openmarket/catalog-api/internal/core/domain"
	"github.com/openmarket/catalog-api/internal/core/ports"
)

const (
	categoryTTL = 5 * time.Minute
	missMarker  = "!"
)

// CategoryCache is a read-through cache over category status lookups, which
// product, profile and vendor hooks perform on every create. Cache errors are
// logged and fall back to the underlying source; a cached miss is stored too
// so repeated creates against a bad category id stay cheap.
// Key format: category:status:<id>
type CategoryCache struct {
	client *redis.Client
	source ports.CategorySource
	log    zerolog.Logger
}

func NewCategoryCache(client *redis.Client, source ports.CategorySource, log zerolog.Logger) *CategoryCache {
	return &CategoryCache{client: client, source: source, log: log}
}

func (c *CategoryCache) CategoryStatus(ctx context.Context, id string) (domain.ResourceStatus, error) {
	key := "category:status:" + id

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil && cached == missMarker:
		return "", domain.NotFound("category %s not found", id)
	case err == nil:
		return domain.ResourceStatus(cached), nil
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("category", id).Msg("category cache read failed")
	}

	status, err := c.source.CategoryStatus(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.set(ctx, key, missMarker)
		}
		return "", err
	}
	c.set(ctx, key, string(status))
	return status, nil
}

// Invalidate drops the cached entry after a category mutation.
func (c *CategoryCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, "category:status:"+id).Err(); err != nil {
		c.log.Warn().Err(err).Str("category", id).Msg("category cache invalidation failed")
	}
}

func (c *CategoryCache) set(ctx context.Context, key, value string) {
	if err := c.client.Set(ctx, key, value, categoryTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("category cache write failed")
	}
}
