package products

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const priceListKey = "lucero:pricelist"

// PriceCache keeps the POS price map in Redis so the sale form does not hit
// the database on every keystroke.
type PriceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPriceCache returns a cache with the given TTL.
func NewPriceCache(client *redis.Client, ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PriceCache{client: client, ttl: ttl}
}

// Get returns the cached price map, or nil on a miss.
func (c *PriceCache) Get(ctx context.Context) (map[int64]string, error) {
	raw, err := c.client.Get(ctx, priceListKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var prices map[int64]string
	if err := json.Unmarshal(raw, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

// Set stores the price map.
func (c *PriceCache) Set(ctx context.Context, prices map[int64]string) error {
	raw, err := json.Marshal(prices)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, priceListKey, raw, c.ttl).Err()
}

// Invalidate drops the cached map after any product mutation.
func (c *PriceCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, priceListKey).Err()
}
