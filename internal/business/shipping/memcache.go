package shipping

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	agg       *Aggregate
	expiresAt time.Time
}

// MemoryCache 进程内 TTL 缓存，未配置 Redis 时使用
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryCache 创建进程内缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

// Get 读取缓存，过期视为未命中
func (c *MemoryCache) Get(_ context.Context, key string) (*Aggregate, bool, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !item.expiresAt.After(c.now()) {
		c.mu.Lock()
		if cur, ok := c.items[key]; ok && cur.expiresAt.Equal(item.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return item.agg, true, nil
}

// Set 写入缓存
func (c *MemoryCache) Set(_ context.Context, key string, agg *Aggregate, ttl time.Duration) error {
	c.mu.Lock()
	c.items[key] = memoryItem{agg: agg, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Clear 清空所有缓存
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.items = make(map[string]memoryItem)
	c.mu.Unlock()
	return nil
}
