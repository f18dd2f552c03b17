// Package cursor tracks the last block whose events reached the streams.
//
// The cursor is a bookmark: it only moves after a block was processed and
// its buffered events were flushed, so a restart resumes at the next height
// and replays at most the block that was in flight.
//
//	manager := cursor.NewManager(repo, "ftindexer")
//	start, _ := manager.ResolveStart(ctx, nil, head)
//	manager.Advance(ctx, 129_190_044) // OK
//	manager.Advance(ctx, 129_190_044) // ErrNotAdvancing
//
// NEAR heights are not contiguous (skipped blocks), so Advance only requires
// strictly increasing heights, not height+1.
//
//   - manager.go - Manager implementation, start resolution
//   - metrics.go - throughput window (blocks/sec)
package cursor

import (
	"github.com/vietddude/ftindexer/internal/core/domain"
	"github.com/vietddude/ftindexer/internal/infra/storage"
)

// Cursor represents the indexing position.
type Cursor = domain.Cursor

// DefaultName is the cursor name used when none is configured.
const DefaultName = "ftindexer"

// NewManager creates a cursor manager for the named cursor.
func NewManager(repo storage.CursorRepository, name string) *Manager {
	if name == "" {
		name = DefaultName
	}
	return &Manager{
		repo:    repo,
		name:    name,
		metrics: NewMetricsCollector(100),
	}
}

// NewMetricsCollector creates a new metrics collector with the given window size.
func NewMetricsCollector(windowSize int) *MetricsCollector {
	if windowSize <= 0 {
		windowSize = 100
	}
	return &MetricsCollector{
		windowSize: windowSize,
		blockTimes: make([]blockRecord, 0, windowSize),
	}
}
