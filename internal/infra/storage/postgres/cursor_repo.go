package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vietddude/ftindexer/internal/core/domain"
)

const (
	getCursorQuery = `SELECT name, block_height, updated_at FROM cursors WHERE name = $1`

	upsertCursorQuery = `INSERT INTO cursors (name, block_height, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET block_height = EXCLUDED.block_height, updated_at = EXCLUDED.updated_at`
)

type cursorRow struct {
	Name        string `db:"name"`
	BlockHeight int64  `db:"block_height"`
	UpdatedAt   int64  `db:"updated_at"`
}

// CursorRepo implements storage.CursorRepository using PostgreSQL.
type CursorRepo struct {
	db *sqlx.DB
}

// NewCursorRepo creates a new PostgreSQL cursor repository.
func NewCursorRepo(db *sqlx.DB) *CursorRepo {
	return &CursorRepo{db: db}
}

// Get retrieves a cursor by name.
func (r *CursorRepo) Get(ctx context.Context, name string) (*domain.Cursor, error) {
	var row cursorRow
	err := r.db.GetContext(ctx, &row, getCursorQuery, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cursor: %w", err)
	}

	return &domain.Cursor{
		Name:        row.Name,
		BlockHeight: uint64(row.BlockHeight),
		UpdatedAt:   time.Unix(row.UpdatedAt, 0),
	}, nil
}

// Save upserts a cursor.
func (r *CursorRepo) Save(ctx context.Context, cursor *domain.Cursor) error {
	_, err := r.db.ExecContext(ctx, upsertCursorQuery,
		cursor.Name,
		int64(cursor.BlockHeight),
		cursor.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save cursor: %w", err)
	}
	return nil
}
