package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/sales/internal/domain"
)

const goodsKey = "sales:goods"

// GoodsCache caches the storefront goods listing in Redis with a short
// TTL. It is a read-through cache: a miss is not an error.
type GoodsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGoodsCache creates a Redis-backed goods listing cache.
func NewGoodsCache(client *redis.Client, ttl time.Duration) *GoodsCache {
	return &GoodsCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached listing, or ok=false on a miss.
func (c *GoodsCache) Get(ctx context.Context) ([]domain.Good, bool, error) {
	data, err := c.client.Get(ctx, goodsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get goods: %w", err)
	}

	var goods []domain.Good
	if err := json.Unmarshal(data, &goods); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached goods: %w", err)
	}

	return goods, true, nil
}

// Set stores the listing with the configured TTL.
func (c *GoodsCache) Set(ctx context.Context, goods []domain.Good) error {
	data, err := json.Marshal(goods)
	if err != nil {
		return fmt.Errorf("marshal goods: %w", err)
	}

	if err := c.client.Set(ctx, goodsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set goods: %w", err)
	}

	return nil
}

// Invalidate drops the cached listing.
func (c *GoodsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, goodsKey).Err(); err != nil {
		return fmt.Errorf("redis del goods: %w", err)
	}
	return nil
}
