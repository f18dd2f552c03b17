package indexer

import (
	"context"
	"time"

	"github.com/vietddude/ftindexer/internal/core/cursor"
	"github.com/vietddude/ftindexer/internal/indexing/emitter"
	"github.com/vietddude/ftindexer/internal/infra/chain"
)

// Indexer is the main orchestrator that coordinates all components
type Indexer interface {
	// Run indexes blocks until the end block or context cancellation.
	// Any returned error is fatal.
	Run(ctx context.Context) error

	// GetStatus returns current indexing status
	GetStatus() Status
}

type Status struct {
	Running         bool
	StartBlock      uint64
	EndBlock        *uint64
	CurrentBlock    uint64
	BlocksPerSecond float64
	UpdatedAt       time.Time
}

// CursorManager is the subset of cursor.Manager the pipeline needs.
type CursorManager interface {
	ResolveStart(ctx context.Context, configured *uint64, head cursor.HeadFunc) (uint64, error)
	Advance(ctx context.Context, height uint64) error
	Track(height uint64)
	GetMetrics() cursor.Metrics
}

// Config holds indexer configuration
type Config struct {
	Adapter        chain.Adapter
	Processor      BlockProcessor
	Emitter        emitter.Emitter
	Cursor         CursorManager
	StartBlock     *uint64 // nil continues after the checkpoint; set replays without checkpointing
	EndBlock       *uint64 // nil follows the chain tip
	PrefetchBlocks int
	PollInterval   time.Duration
}
