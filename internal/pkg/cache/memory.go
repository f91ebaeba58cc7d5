// Package cache provides the cache port implementations: an in-memory
// TTL cache for single-process deployments and tests, and a Redis-backed
// cache for production.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Memory is an in-memory TTL cache backed by go-cache. It is the
// default cache port implementation when no Redis address is configured.
type Memory struct {
	store  *gocache.Cache
	logger *zap.Logger
}

// NewMemory creates an in-memory cache. Expired entries are purged
// every cleanupInterval.
func NewMemory(defaultTTL, cleanupInterval time.Duration, logger *zap.Logger) *Memory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Memory{
		store:  gocache.New(defaultTTL, cleanupInterval),
		logger: logger,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, found := m.store.Get(key)
	if !found {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		// Entry written by an incompatible caller; treat as a miss.
		m.logger.Warn("cache entry has unexpected type, evicting", zap.String("key", key))
		m.store.Delete(key)
		return nil, false, nil
	}
	return data, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.store.Delete(key)
	return nil
}
