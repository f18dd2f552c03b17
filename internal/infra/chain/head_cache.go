package chain

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/ftindexer/internal/core/domain"
)

// HeadCache wraps an Adapter and caches GetLatestBlock for ttl, so the
// prefetcher and health checks polling at the tip share one request.
type HeadCache struct {
	Adapter
	ttl time.Duration

	mu       sync.RWMutex
	cached   uint64
	cachedAt time.Time
}

var _ Adapter = (*HeadCache)(nil)

// NewHeadCache creates a new head cache with the given TTL.
func NewHeadCache(adapter Adapter, ttl time.Duration) *HeadCache {
	return &HeadCache{
		Adapter: adapter,
		ttl:     ttl,
	}
}

// GetLatestBlock returns the cached chain head if within TTL, otherwise fetches fresh.
func (c *HeadCache) GetLatestBlock(ctx context.Context) (uint64, error) {
	c.mu.RLock()
	if time.Since(c.cachedAt) < c.ttl && c.cached > 0 {
		cached := c.cached
		c.mu.RUnlock()
		return cached, nil
	}
	c.mu.RUnlock()

	head, err := c.Adapter.GetLatestBlock(ctx)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	if head > c.cached {
		c.cached = head
	}
	c.cachedAt = time.Now()
	head = c.cached
	c.mu.Unlock()

	return head, nil
}

// GetBlock fetches a block, raising the cached head when the block is newer.
func (c *HeadCache) GetBlock(ctx context.Context, height uint64) (*domain.Block, error) {
	b, err := c.Adapter.GetBlock(ctx, height)
	if err == nil && b != nil {
		c.mu.Lock()
		if b.Height > c.cached {
			c.cached = b.Height
		}
		c.mu.Unlock()
	}
	return b, err
}
