package chain

import (
	"context"
	"errors"

	"github.com/vietddude/ftindexer/internal/core/domain"
)

var (
	// ErrBlockSkipped is returned for a height that was never produced.
	// NEAR heights are not contiguous, so this is not an error for callers
	// walking a range.
	ErrBlockSkipped = errors.New("block height skipped")

	// ErrBlockNotReady is returned for a height past the current chain tip.
	ErrBlockNotReady = errors.New("block not yet available")
)

// Adapter is the boundary between the indexer and a block source.
type Adapter interface {
	// GetLatestBlock returns the latest final block height
	GetLatestBlock(ctx context.Context) (uint64, error)

	// GetBlock fetches a block by height with its receipts grouped and ordered.
	// Returns ErrBlockSkipped or ErrBlockNotReady for heights without a block.
	GetBlock(ctx context.Context, height uint64) (*domain.Block, error)

	// Name identifies the source in logs
	Name() string
}
