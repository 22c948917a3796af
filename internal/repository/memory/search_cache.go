package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"doc-knowledge-be/internal/entity"

	"github.com/redis/go-redis/v9"
)

// SearchCache is a short-TTL cache for composed search responses, keyed by
// the normalized query plus the resolved bucket set and page window. It is
// strictly fail-open: any Redis error behaves like a miss.
type SearchCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSearchCache(rdb *redis.Client, ttl time.Duration) *SearchCache {
	return &SearchCache{rdb: rdb, ttl: ttl}
}

// Key derives the cache key. Buckets are sorted so the key is independent
// of resolver iteration order.
func (c *SearchCache) Key(queryText string, buckets []entity.Bucket, limit, offset int) string {
	names := make([]string, 0, len(buckets))
	for _, b := range buckets {
		names = append(names, string(b))
	}
	sort.Strings(names)

	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%d", queryText, strings.Join(names, ","), limit, offset)))
	return "search:" + hex.EncodeToString(h[:])
}

func (c *SearchCache) Get(ctx context.Context, key string, out interface{}) bool {
	if c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

func (c *SearchCache) Set(ctx context.Context, key string, value interface{}) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, c.ttl)
}
