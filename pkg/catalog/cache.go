package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a CachedSource serves a fetched catalog.
const DefaultTTL = time.Hour

var _ Source = (*CachedSource)(nil)

// CachedSource serves entries from an upstream Source and refetches them
// once the TTL has elapsed. Concurrent refreshes share one upstream call, and
// while it runs callers holding an expired copy are served that copy. When a
// refresh fails and a previous copy exists, the stale copy is served and the
// error is logged.
type CachedSource struct {
	upstream Source
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger

	group singleflight.Group

	mu         sync.Mutex
	entries    []Entry
	fetchedAt  time.Time
	refreshing bool
}

// CacheOption configures a CachedSource.
type CacheOption func(*CachedSource)

// WithClock overrides the time source.
func WithClock(now func() time.Time) CacheOption {
	return func(c *CachedSource) { c.now = now }
}

// WithLogger sets the logger used to report failed refreshes.
func WithLogger(logger *zap.Logger) CacheOption {
	return func(c *CachedSource) { c.logger = logger }
}

// NewCachedSource wraps upstream with a TTL cache. A ttl <= 0 uses DefaultTTL.
func NewCachedSource(upstream Source, ttl time.Duration, opts ...CacheOption) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &CachedSource{
		upstream: upstream,
		ttl:      ttl,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Entries returns the cached entries, refreshing them when expired.
func (c *CachedSource) Entries(ctx context.Context) ([]Entry, error) {
	c.mu.Lock()
	if c.entries != nil && (c.refreshing || c.now().Sub(c.fetchedAt) < c.ttl) {
		cp := c.copyLocked()
		c.mu.Unlock()
		return cp, nil
	}
	c.mu.Unlock()

	if _, err, _ := c.group.Do("entries", func() (any, error) {
		return nil, c.refresh(ctx)
	}); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLocked(), nil
}

// refresh fetches from upstream without holding mu.
func (c *CachedSource) refresh(ctx context.Context) error {
	c.mu.Lock()
	c.refreshing = true
	c.mu.Unlock()

	fresh, err := c.upstream.Entries(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshing = false
	if err != nil {
		if c.entries == nil {
			return err
		}
		c.logger.Warn("catalog refresh failed, serving stale entries",
			zap.Error(err),
			zap.Time("fetched_at", c.fetchedAt),
		)
		return nil
	}
	c.entries = fresh
	c.fetchedAt = c.now()
	return nil
}

// Invalidate drops the cached copy so the next call refetches.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.fetchedAt = time.Time{}
}

func (c *CachedSource) copyLocked() []Entry {
	cp := make([]Entry, len(c.entries))
	copy(cp, c.entries)
	return cp
}
