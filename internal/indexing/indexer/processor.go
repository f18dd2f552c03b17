package indexer

import (
	"context"

	"github.com/vietddude/ftindexer/internal/core/domain"
)

// BlockProcessor extracts and forwards the events of one block.
type BlockProcessor interface {
	ProcessBlock(ctx context.Context, block *domain.Block) error
}
