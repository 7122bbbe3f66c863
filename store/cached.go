package store

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of objects Cached keeps when no size is configured.
const DefaultCacheSize = 128

// Cached is a Backend keeping recently read and written objects in an LRU cache in
// front of another backend. Writes go through to the backend first.
type Cached struct {
	backend Backend
	cache   *lru.Cache[string, []byte]
	logger  *slog.Logger

	// mu orders cache updates against writes; gen counts writes so a read that raced a
	// write does not fill the cache with what it read before the write.
	mu  sync.Mutex
	gen uint64
}

var _ Backend = (*Cached)(nil)

// NewCached wraps backend with a cache of size entries. A size of zero or less uses
// DefaultCacheSize.
func NewCached(backend Backend, size int, logger *slog.Logger) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &Cached{backend: backend, cache: cache, logger: logger}, nil
}

func (c *Cached) Name() string { return c.backend.Name() }

// Len reports the number of cached objects.
func (c *Cached) Len() int { return c.cache.Len() }

func (c *Cached) Put(ctx context.Context, key string, data []byte) error {
	err := c.backend.Put(ctx, key, data)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if err != nil {
		c.cache.Remove(key)
		return err
	}
	c.cache.Add(key, bytes.Clone(data))
	return nil
}

func (c *Cached) Get(ctx context.Context, key string) ([]byte, error) {
	if data, ok := c.cache.Get(key); ok {
		return bytes.Clone(data), nil
	}
	c.logger.DebugContext(ctx, "cache miss", "key", key, "backend", c.backend.Name())
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	data, err := c.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.cache.ContainsOrAdd(key, bytes.Clone(data))
	}
	c.mu.Unlock()
	return data, nil
}

func (c *Cached) Delete(ctx context.Context, key string) error {
	err := c.backend.Delete(ctx, key)
	c.mu.Lock()
	c.gen++
	c.cache.Remove(key)
	c.mu.Unlock()
	return err
}

func (c *Cached) Keys(ctx context.Context) ([]string, error) {
	return c.backend.Keys(ctx)
}

// Close purges the cache and closes the backend.
func (c *Cached) Close() error {
	c.cache.Purge()
	return c.backend.Close()
}

// Ping forwards to the wrapped backend when it is a Pinger.
func (c *Cached) Ping(ctx context.Context) error {
	if p, ok := c.backend.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
