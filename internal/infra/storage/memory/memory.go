package memory

import (
	"context"
	"sync"

	"github.com/vietddude/ftindexer/internal/core/domain"
)

// CursorRepo keeps cursors in process memory. Progress is lost on restart.
type CursorRepo struct {
	cursors map[string]domain.Cursor
	mu      sync.RWMutex
}

func NewCursorRepo() *CursorRepo {
	return &CursorRepo{
		cursors: make(map[string]domain.Cursor),
	}
}

func (r *CursorRepo) Get(ctx context.Context, name string) (*domain.Cursor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cursors[name]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CursorRepo) Save(ctx context.Context, cursor *domain.Cursor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursors[cursor.Name] = *cursor
	return nil
}
