package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Arzion032/binhi-fms-backend/internal/domain/catalog"
	"github.com/Arzion032/binhi-fms-backend/pkg/logger"
)

const categoriesKey = "catalog:categories"

// CategoriesCache keeps the category list in Redis so every instance
// shares one copy. Redis failures degrade to cache misses.
type CategoriesCache struct {
	client *goredis.Client
	log    logger.Logger
}

func NewCategoriesCache(client *goredis.Client, log logger.Logger) *CategoriesCache {
	return &CategoriesCache{client: client, log: log}
}

func (c *CategoriesCache) Get() ([]catalog.Category, bool) {
	ctx, cancel := opContext()
	defer cancel()

	payload, err := c.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("redis: categories cache read failed", "err", err)
		}
		return nil, false
	}

	var categories []catalog.Category
	if err := json.Unmarshal(payload, &categories); err != nil {
		c.log.Warn("redis: categories cache decode failed", "err", err)
		return nil, false
	}
	return categories, true
}

func (c *CategoriesCache) Set(categories []catalog.Category, ttl time.Duration) {
	payload, err := json.Marshal(categories)
	if err != nil {
		c.log.Warn("redis: categories cache encode failed", "err", err)
		return
	}

	ctx, cancel := opContext()
	defer cancel()
	if err := c.client.Set(ctx, categoriesKey, payload, ttl).Err(); err != nil {
		c.log.Warn("redis: categories cache write failed", "err", err)
	}
}

func (c *CategoriesCache) Invalidate() {
	ctx, cancel := opContext()
	defer cancel()
	if err := c.client.Del(ctx, categoriesKey).Err(); err != nil {
		c.log.Warn("redis: categories cache invalidate failed", "err", err)
	}
}

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}
