// Package idcache remembers name to id resolutions between runs.
//
// Only successful lookups are stored: a name the platform did not know, or a
// lookup that failed, is asked again next time.
package idcache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a resolved id is trusted.
const DefaultTTL = 24 * time.Hour

const redisKeyPrefix = "clipfinder:id:"

// Store holds resolved ids by key.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, id string, ttl time.Duration) error
}

type memoryEntry struct {
	id        string
	expiresAt time.Time
}

// Memory is an in-process Store. The zero value is not usable; use NewMemory.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", false, nil
	}
	return entry.id, true, nil
}

func (m *Memory) Set(_ context.Context, key, id string, ttl time.Duration) error {
	entry := memoryEntry{id: id}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Redis stores ids in Redis so they survive between runs.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// OpenRedis connects to rawURL (redis://host:port/db) and checks the server answers.
func OpenRedis(ctx context.Context, rawURL string) (*Redis, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedis(client), nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	id, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return id, true, nil
}

func (r *Redis) Set(ctx context.Context, key, id string, ttl time.Duration) error {
	return r.client.Set(ctx, redisKeyPrefix+key, id, ttl).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
