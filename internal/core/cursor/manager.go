package cursor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vietddude/ftindexer/internal/infra/storage"
)

var (
	// ErrNotAdvancing is returned when Advance is called with a height at or
	// below the saved one.
	ErrNotAdvancing = errors.New("cursor height not advancing")

	// ErrInvalidRange is returned when the resolved start is past the end block.
	ErrInvalidRange = errors.New("start block is after end block")
)

// HeadFunc returns the latest final block height of the chain.
type HeadFunc func(ctx context.Context) (uint64, error)

// Manager reads and moves a single named cursor.
type Manager struct {
	repo storage.CursorRepository
	name string

	mu      sync.Mutex
	metrics *MetricsCollector
}

// Name returns the cursor name.
func (m *Manager) Name() string {
	return m.name
}

// Get returns the saved cursor, or nil if nothing was processed yet.
func (m *Manager) Get(ctx context.Context) (*Cursor, error) {
	c, err := m.repo.Get(ctx, m.name)
	if err != nil {
		return nil, fmt.Errorf("failed to get cursor %s: %w", m.name, err)
	}
	return c, nil
}

// ResolveStart picks the first height to process: the configured height if
// set, otherwise one past the checkpoint, otherwise the chain head.
func (m *Manager) ResolveStart(ctx context.Context, configured *uint64, head HeadFunc) (uint64, error) {
	if configured != nil {
		return *configured, nil
	}

	c, err := m.Get(ctx)
	if err != nil {
		return 0, err
	}
	if c != nil {
		return c.BlockHeight + 1, nil
	}

	if head == nil {
		return 0, errors.New("no checkpoint and no chain head source")
	}
	h, err := head(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain head: %w", err)
	}
	return h, nil
}

// Advance records height as fully processed.
func (m *Manager) Advance(ctx context.Context, height uint64) error {
	c, err := m.Get(ctx)
	if err != nil {
		return err
	}
	if c != nil && height <= c.BlockHeight {
		return fmt.Errorf("%w: cursor at %d, got %d", ErrNotAdvancing, c.BlockHeight, height)
	}

	now := time.Now()
	if err := m.repo.Save(ctx, &Cursor{Name: m.name, BlockHeight: height, UpdatedAt: now}); err != nil {
		return fmt.Errorf("failed to save cursor: %w", err)
	}

	m.record(height, now)
	return nil
}

// Track counts height towards throughput without saving it. Replays of an
// explicit range use it so the checkpoint stays where auto-continue left it.
func (m *Manager) Track(height uint64) {
	m.record(height, time.Now())
}

func (m *Manager) record(height uint64, at time.Time) {
	m.mu.Lock()
	m.metrics.RecordBlock(height, at)
	m.mu.Unlock()
}

// Reset overwrites the cursor regardless of its current height.
func (m *Manager) Reset(ctx context.Context, height uint64) error {
	if err := m.repo.Save(ctx, &Cursor{Name: m.name, BlockHeight: height, UpdatedAt: time.Now()}); err != nil {
		return fmt.Errorf("failed to reset cursor: %w", err)
	}
	m.mu.Lock()
	m.metrics.Reset()
	m.mu.Unlock()
	return nil
}

// GetLag returns how many heights the cursor trails latest.
func (m *Manager) GetLag(ctx context.Context, latest uint64) (int64, error) {
	c, err := m.Get(ctx)
	if err != nil {
		return 0, err
	}
	if c == nil {
		return int64(latest), nil
	}
	return int64(latest) - int64(c.BlockHeight), nil
}

// GetMetrics returns throughput over the recent window.
func (m *Manager) GetMetrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics.GetMetrics()
}
