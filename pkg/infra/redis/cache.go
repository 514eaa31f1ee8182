package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"oip/dprate/internal/business/shipping"
)

const clearBatchSize = 100

// AggregateCache 基于 Redis 的费率缓存，值为 JSON 编码的 Aggregate
// 所有 key 都带 prefix，Clear 只删除 prefix 下的 key
type AggregateCache struct {
	client *redis.Client
	prefix string
}

// NewAggregateCache 创建 Redis 费率缓存
func NewAggregateCache(client *redis.Client, prefix string) *AggregateCache {
	return &AggregateCache{client: client, prefix: prefix}
}

func (c *AggregateCache) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// Get 读取缓存
func (c *AggregateCache) Get(ctx context.Context, key string) (*shipping.Aggregate, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s failed: %w", key, err)
	}

	var agg shipping.Aggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		return nil, false, fmt.Errorf("decode cached aggregate failed: %w", err)
	}
	return &agg, true, nil
}

// Set 写入缓存
func (c *AggregateCache) Set(ctx context.Context, key string, agg *shipping.Aggregate, ttl time.Duration) error {
	data, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("encode aggregate failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s failed: %w", key, err)
	}
	return nil
}

// Clear 删除 prefix 下的所有缓存
func (c *AggregateCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.key("*"), clearBatchSize).Iterator()
	batch := make([]string, 0, clearBatchSize)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatchSize {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis del failed: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis del failed: %w", err)
		}
	}
	return nil
}
