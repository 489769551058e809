// Package cache defines the read-result cache the availability resolver
// is constructed with. The cache is deliberately an injected interface
// rather than ambient memoization: scope and TTL are visible at the call
// site and the whole thing can be swapped for an in-memory map in tests.
// Stale-within-TTL reads are acceptable; writes to the catalog happen out
// of band via seeding.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a byte-value cache with per-entry TTL. Implementations must
// treat failures as misses; callers never see a cache error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

// Redis backs the cache with a shared Redis instance so multiple API
// replicas see the same entries.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis constructs a Redis-backed cache. Keys are namespaced under the
// given prefix.
func NewRedis(rdb *redis.Client, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	bs, err := r.rdb.Get(ctx, r.prefix+":"+key).Bytes()
	if err != nil {
		return nil, false
	}
	return bs, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	_ = r.rdb.SetEx(ctx, r.prefix+":"+key, val, ttl).Err()
}

type memEntry struct {
	val     []byte
	expires time.Time
}

// Memory is a process-local cache used in tests and as a fallback when
// Redis is unreachable at startup.
type Memory struct {
	mu    sync.Mutex
	items map[string]memEntry
}

// NewMemory constructs an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]memEntry)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(m.items, key)
		return nil, false
	}
	return e.val, true
}

func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memEntry{val: val, expires: time.Now().Add(ttl)}
}
