package utils

import (
	"context"
	"fmt"
	"log"
	"quill/internal/config"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// PageCache stores rendered-page data for a bounded time. Entries are only
// removed by expiry or Clear; writes to the store never invalidate them.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// NewPageCache builds the cache backend selected by cfg.Backend.
func NewPageCache(cfg config.CacheConfig) (PageCache, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewLocalCache(cfg.Size), nil
	case "redis":
		return NewRedisCache(cfg)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// CacheItem 包装缓存数据和过期时间
type CacheItem struct {
	Data      []byte
	ExpiresAt time.Time
}

// LocalCache 进程内 LRU 缓存
type LocalCache struct {
	lruCache *lru.Cache[string, CacheItem]
	now      func() time.Time
}

func NewLocalCache(size int) *LocalCache {
	if size <= 0 {
		size = 500
	}
	l, err := lru.New[string, CacheItem](size)
	if err != nil {
		log.Fatalf("Failed to create LRU cache: %v", err)
	}
	return &LocalCache{
		lruCache: l,
		now:      time.Now,
	}
}

// Set 设置缓存，TTL 为过期时间
func (c *LocalCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: c.now().Add(ttl),
	})
	return nil
}

// Get 获取缓存，若不存在或已过期则返回 false
func (c *LocalCache) Get(_ context.Context, key string) ([]byte, bool) {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil, false
	}

	if c.now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil, false
	}

	return val.Data, true
}

// Clear 清空全部缓存
func (c *LocalCache) Clear(_ context.Context) error {
	c.lruCache.Purge()
	return nil
}
