package storage

import (
	"context"

	"github.com/vietddude/ftindexer/internal/core/domain"
)

// CursorRepository handles cursor storage operations
type CursorRepository interface {
	// Get retrieves a cursor by name, or nil if none was saved
	Get(ctx context.Context, name string) (*domain.Cursor, error)

	// Save saves/updates the cursor
	Save(ctx context.Context, cursor *domain.Cursor) error
}
