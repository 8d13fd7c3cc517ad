package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LocalCache mirrors tenant snapshots keyed by slug. It is a write-through
// fallback, never an independent write path. Deployments may run without
// one entirely; the DataStore degrades to remote-only when handed nil.
type LocalCache interface {
	Read(ctx context.Context, slug string) (*Snapshot, error)
	Write(ctx context.Context, slug string, snap *Snapshot) error
	Delete(ctx context.Context, slug string) error
}

const cacheKeyPrefix = "qrmenu:snapshot:"

// RedisCache persists snapshots as JSON blobs, one key per tenant slug.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects and pings; an unreachable Redis is reported to the
// caller so the service can start remote-only instead of failing hard.
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Read(ctx context.Context, slug string) (*Snapshot, error) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+slug).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *RedisCache) Write(ctx context.Context, slug string, snap *Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	// No TTL: the mirror must survive until the next write-through.
	return c.client.Set(ctx, cacheKeyPrefix+slug, raw, 0).Err()
}

func (c *RedisCache) Delete(ctx context.Context, slug string) error {
	return c.client.Del(ctx, cacheKeyPrefix+slug).Err()
}

// MemoryCache is an in-process LocalCache used in tests and cache-disabled
// runs. Entries are stored serialized so reads return independent copies.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (c *MemoryCache) Read(ctx context.Context, slug string) (*Snapshot, error) {
	c.mu.RLock()
	raw, ok := c.entries[slug]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *MemoryCache) Write(ctx context.Context, slug string, snap *Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[slug] = raw
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, slug string) error {
	c.mu.Lock()
	delete(c.entries, slug)
	c.mu.Unlock()
	return nil
}
