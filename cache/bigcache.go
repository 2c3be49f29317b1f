// Package cache 提供基于 BigCache 的本地结果缓存.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/wyfcoding/montecarlo/metrics"
)

// ErrMiss 缓存未命中.
var ErrMiss = errors.New("cache miss")

// Config BigCache 参数. 所有条目共享同一个 TTL.
type Config struct {
	TTL    time.Duration
	Shards int // 必须为 2 的幂
	MaxMB  int
}

// BigCache 以 JSON 序列化存储值的本地缓存.
type BigCache struct {
	cache   *bigcache.BigCache
	metrics *metrics.Metrics
}

// NewBigCache 创建缓存实例. m 可为 nil.
func NewBigCache(cfg Config, m *metrics.Metrics) (*BigCache, error) {
	bc := bigcache.DefaultConfig(cfg.TTL)
	if cfg.Shards > 0 {
		bc.Shards = cfg.Shards
	}
	bc.HardMaxCacheSize = cfg.MaxMB
	bc.CleanWindow = cfg.TTL / 2
	if bc.CleanWindow <= 0 {
		bc.CleanWindow = time.Minute
	}

	c, err := bigcache.New(context.Background(), bc)
	if err != nil {
		return nil, fmt.Errorf("init bigcache failed: %w", err)
	}
	return &BigCache{cache: c, metrics: m}, nil
}

// Get 读取 key 并反序列化到 value，未命中时返回 ErrMiss.
func (c *BigCache) Get(_ context.Context, key string, value any) error {
	data, err := c.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		c.observe("miss")
		return ErrMiss
	}
	if err != nil {
		return err
	}
	c.observe("hit")
	return json.Unmarshal(data, value)
}

// Set 以 JSON 序列化写入 value.
func (c *BigCache) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(key, data)
}

// Delete 删除一个或多个键，不存在的键被忽略.
func (c *BigCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if err := c.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
			return err
		}
	}
	return nil
}

// Len 当前条目数.
func (c *BigCache) Len() int {
	return c.cache.Len()
}

// Close 释放底层资源.
func (c *BigCache) Close() error {
	return c.cache.Close()
}

func (c *BigCache) observe(result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.CacheRequestsTotal.WithLabelValues(result).Inc()
}

// Key 以 v 的 JSON 编码的 SHA-256 作为缓存键. 同一请求总是得到同一个键.
func Key(prefix string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:]), nil
}
