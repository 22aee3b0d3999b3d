package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// EmbeddingCache stores query embeddings keyed by a hash of the query text,
// so repeated knowledge-base questions skip the embedding API round trip.
type EmbeddingCache struct {
	cache *Cache
	ttl   time.Duration
}

func NewEmbeddingCache(c *Cache) *EmbeddingCache {
	return &EmbeddingCache{cache: c, ttl: time.Hour}
}

func embeddingKey(text string) string {
	sum := sha1.Sum([]byte(text))
	return "embed:query:" + hex.EncodeToString(sum[:])
}

func (e *EmbeddingCache) Get(ctx context.Context, text string) ([]float32, bool) {
	if e == nil || e.cache == nil {
		return nil, false
	}
	var vec []float32
	if err := e.cache.Get(ctx, embeddingKey(text), &vec); err != nil {
		return nil, false
	}
	return vec, len(vec) > 0
}

func (e *EmbeddingCache) Put(ctx context.Context, text string, vec []float32) {
	if e == nil || e.cache == nil || len(vec) == 0 {
		return
	}
	// Cache writes are best-effort.
	_ = e.cache.Set(ctx, embeddingKey(text), vec, e.ttl)
}
