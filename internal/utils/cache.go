package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// NewMemoryCache 创建带默认过期时间的内存缓存，清理间隔为过期时间的两倍
func NewMemoryCache(ttl time.Duration) *cache.Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return cache.New(ttl, 2*ttl)
}

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// TTLCache 有容量上限、按访问时间过期的 LRU 缓存
type TTLCache[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
	now     func() time.Time
}

// NewTTLCache size 是最大缓存条数，ttl 是数据有效期（每次读取会续期）
func NewTTLCache[T any](size int, ttl time.Duration) *TTLCache[T] {
	if size <= 0 {
		size = 1024
	}
	// lru.New 是线程安全的，只有 size <= 0 时返回错误
	c, _ := lru.New[string, CacheItem[T]](size)
	return &TTLCache[T]{
		storage: c,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Set 写入或覆盖
func (c *TTLCache[T]) Set(key string, value T) {
	c.storage.Add(key, CacheItem[T]{
		Value:     value,
		ExpiredAt: c.now().Add(c.ttl),
	})
}

// Get 读取，过期的条目会被删除
func (c *TTLCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}
	if c.now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}
	// 续期
	item.ExpiredAt = c.now().Add(c.ttl)
	c.storage.Add(key, item)
	return item.Value, true
}

// GetOrCreate 读取，不存在时用 create 创建并写入
func (c *TTLCache[T]) GetOrCreate(key string, create func() T) T {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := create()
	// 并发创建时以先写入者为准
	if existing, ok, _ := c.storage.PeekOrAdd(key, CacheItem[T]{Value: v, ExpiredAt: c.now().Add(c.ttl)}); ok {
		if !c.now().After(existing.ExpiredAt) {
			return existing.Value
		}
		c.Set(key, v)
	}
	return v
}

// RemoveExpired 删除所有已过期的条目，返回删除数量
func (c *TTLCache[T]) RemoveExpired() int {
	now := c.now()
	removed := 0
	for _, key := range c.storage.Keys() {
		item, ok := c.storage.Peek(key)
		if ok && now.After(item.ExpiredAt) {
			c.storage.Remove(key)
			removed++
		}
	}
	return removed
}

// Len 当前条数（包含尚未清理的过期条目）
func (c *TTLCache[T]) Len() int {
	return c.storage.Len()
}
