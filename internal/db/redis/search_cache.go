package redisdb

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"docsearcher/internal/domain/document"
	applog "docsearcher/internal/platform/log"
)

// SearchCache 检索结果 Redis 缓存。同一文档同一词表的检索结果是
// 确定性的，短 TTL 下陈旧无害：文档过期后查找先于缓存命中返回 404。
type SearchCache struct {
	redis  *redis.Client
	ttl    time.Duration
	prefix string
}

// NewSearchCache 创建检索缓存。
func NewSearchCache(rdb *redis.Client, ttlSeconds int) *SearchCache {
	ttl := 5 * time.Minute
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &SearchCache{
		redis:  rdb,
		ttl:    ttl,
		prefix: "doc:search:",
	}
}

// Get 从缓存获取检索结果。
func (c *SearchCache) Get(ctx context.Context, docID string, words []string) ([]document.PageMatch, bool) {
	key := c.cacheKey(docID, words)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var results []document.PageMatch
	if err := json.Unmarshal(data, &results); err != nil {
		applog.Warn("[SearchCache] Failed to unmarshal cached result", "error", err)
		return nil, false
	}

	applog.Debug("[SearchCache] Hit", "key", key)
	return results, true
}

// Set 写入检索结果到缓存。写失败只记日志，不影响请求。
func (c *SearchCache) Set(ctx context.Context, docID string, words []string, results []document.PageMatch) {
	key := c.cacheKey(docID, words)
	data, err := json.Marshal(results)
	if err != nil {
		applog.Warn("[SearchCache] Failed to marshal result", "error", err)
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		applog.Warn("[SearchCache] Failed to set cache", "key", key, "error", err)
	}
}

// cacheKey 词表已归一化且保序，直接参与摘要。
func (c *SearchCache) cacheKey(docID string, words []string) string {
	h := sha256.Sum256([]byte(docID + "\x00" + strings.Join(words, "\x1f")))
	return c.prefix + fmt.Sprintf("%x", h[:16])
}
