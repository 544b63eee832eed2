package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/artemisia-corp/preference-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func buildKey(userID int64, limit int) string {
	return fmt.Sprintf("rec:user:%d:limit:%d", userID, limit)
}

// Get returns cached recommendations and whether the key was present.
func (c *Cache) Get(ctx context.Context, userID int64, limit int) ([]domain.Product, bool, error) {
	key := buildKey(userID, limit)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get recommendations from cache: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal([]byte(val), &products); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached recommendations %s: %w", key, err)
	}
	return products, true, nil
}

func (c *Cache) Set(ctx context.Context, userID int64, limit int, products []domain.Product) error {
	key := buildKey(userID, limit)
	val, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("set recommendations in cache: %w", err)
	}
	return nil
}

// ClearUserCache drops every cached recommendation list for the user. Called
// after a tracked view changes the underlying signal.
func (c *Cache) ClearUserCache(ctx context.Context, userID int64) error {
	pattern := fmt.Sprintf("rec:user:%d:limit:*", userID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
