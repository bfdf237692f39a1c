package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/wm-appcontext/internal/remote"
)

// Cache memoizes successful fetches for the lifetime of one extraction run.
// Failed fetches are never stored, so a later request for the same path is retried.
type Cache struct {
	next   remote.Fetcher
	store  otter.Cache[string, []byte]
	logger *slog.Logger
}

// New wraps next with a bounded response memo holding at most capacity bodies.
func New(next remote.Fetcher, capacity int, logger *slog.Logger) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	store, err := otter.MustBuilder[string, []byte](capacity).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("build cache: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{next: next, store: store, logger: logger}, nil
}

// Fetch implements remote.Fetcher.
func (c *Cache) Fetch(ctx context.Context, path string) ([]byte, bool) {
	if body, ok := c.store.Get(path); ok {
		return body, true
	}
	body, ok := c.next.Fetch(ctx, path)
	if ok {
		c.store.Set(path, body)
	}
	return body, ok
}

// Close logs hit statistics and releases the store.
func (c *Cache) Close() {
	stats := c.store.Stats()
	c.logger.Debug("response cache closed",
		slog.Int64("hits", stats.Hits()),
		slog.Int64("misses", stats.Misses()))
	c.store.Close()
}
