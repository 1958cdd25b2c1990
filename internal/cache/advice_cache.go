package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/stockroom/internal/config"
)

const (
	adviceKeyPrefix     = "advice"
	adviceScanBatchSize = 100
)

// AdviceEntry is a cached advice response.
type AdviceEntry struct {
	Topic       string    `json:"topic"`
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generated_at"`
}

type AdviceCache interface {
	Get(ctx context.Context, key string) (*AdviceEntry, bool, error)
	Set(ctx context.Context, key string, entry AdviceEntry) error
	InvalidateAll(ctx context.Context) (int, error)
}

type redisAdviceCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopAdviceCache struct{}

// NewAdviceCache returns a redis-backed cache when caching is enabled and a
// no-op cache otherwise.
func NewAdviceCache(cfg config.CacheConfig) (AdviceCache, error) {
	if !cfg.Enabled {
		return &noopAdviceCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisAdviceCache(client, ttl), nil
}

// NewRedisAdviceCache wraps an existing client.
func NewRedisAdviceCache(client *redis.Client, ttl time.Duration) AdviceCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisAdviceCache{client: client, ttl: ttl}
}

func NewNoopAdviceCache() AdviceCache {
	return &noopAdviceCache{}
}

func (c *redisAdviceCache) Get(ctx context.Context, key string) (*AdviceEntry, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var entry AdviceEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, false, fmt.Errorf("decode advice cache: %w", err)
	}

	return &entry, true, nil
}

func (c *redisAdviceCache) Set(ctx context.Context, key string, entry AdviceEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode advice cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisAdviceCache) InvalidateAll(ctx context.Context) (int, error) {
	return deleteKeysWithPrefix(ctx, c.client, adviceKeyPrefix+":", adviceScanBatchSize)
}

func (n *noopAdviceCache) Get(ctx context.Context, key string) (*AdviceEntry, bool, error) {
	return nil, false, nil
}

func (n *noopAdviceCache) Set(ctx context.Context, key string, entry AdviceEntry) error {
	return nil
}

func (n *noopAdviceCache) InvalidateAll(ctx context.Context) (int, error) {
	return 0, nil
}

// AdviceKey derives the cache key for a request. The same prompt asked
// against different shop data must not share an entry, so the serialised
// context is part of the hash.
func AdviceKey(topic, prompt, systemOverride string, contextData interface{}) (string, error) {
	payload, err := json.Marshal(contextData)
	if err != nil {
		return "", fmt.Errorf("encode advice context: %w", err)
	}

	h := sha1.New()
	h.Write([]byte(prompt))
	h.Write([]byte{0})
	h.Write([]byte(systemOverride))
	h.Write([]byte{0})
	h.Write(payload)

	return fmt.Sprintf("%s:%s:%s", adviceKeyPrefix, topic, hex.EncodeToString(h.Sum(nil))), nil
}
