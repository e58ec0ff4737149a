package inkwell

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eringen/inkwell/content"
	"github.com/eringen/inkwell/index"
)

// IndexCache is an in-memory cache of the post index and its tags with TTL.
// A TTL of zero or less caches until Invalidate is called.
type IndexCache struct {
	mu      sync.RWMutex
	posts   index.PostIndex
	tags    []string
	fetched time.Time
	ttl     time.Duration
	source  content.Source
}

// NewIndexCache creates an IndexCache backed by the given source.
func NewIndexCache(src content.Source, ttl time.Duration) *IndexCache {
	return &IndexCache{source: src, ttl: ttl}
}

func (c *IndexCache) valid() bool {
	if c.posts == nil {
		return false
	}
	return c.ttl <= 0 || time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *IndexCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.tags = nil
	c.mu.Unlock()
}

func (c *IndexCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	raw, err := c.source.Index(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIndexFetch, err)
	}
	posts, err := index.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIndexFetch, err)
	}
	c.posts = posts
	c.tags = index.AllTags(posts)
	c.fetched = time.Now()
	return nil
}

// Index returns the cached index and tags after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
// Failures wrap ErrIndexFetch.
func (c *IndexCache) Index(ctx context.Context) (index.PostIndex, []string, error) {
	c.mu.RLock()
	if c.valid() {
		posts, tags := c.posts, c.tags
		c.mu.RUnlock()
		return posts, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.posts, c.tags, nil
}
