package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/ftindexer/internal/core/domain"
)

// CursorRepo implements storage.CursorRepository using a Redis hash per cursor.
type CursorRepo struct {
	rdb    *redis.Client
	prefix string
}

// NewCursorRepo creates a new Redis-backed cursor repository.
func NewCursorRepo(client *Client, prefix string) *CursorRepo {
	return &CursorRepo{
		rdb:    client.rdb,
		prefix: prefix,
	}
}

// Key helpers
func (r *CursorRepo) cursorKey(name string) string {
	return fmt.Sprintf("%scursor:%s", r.prefix, name)
}

// Get retrieves a cursor by name. It returns nil when none was saved.
func (r *CursorRepo) Get(ctx context.Context, name string) (*domain.Cursor, error) {
	values, err := r.rdb.HGetAll(ctx, r.cursorKey(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall failed: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	height, err := strconv.ParseUint(values["block_height"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor height: %w", err)
	}
	updatedAt, _ := strconv.ParseInt(values["updated_at"], 10, 64)

	return &domain.Cursor{
		Name:        name,
		BlockHeight: height,
		UpdatedAt:   time.Unix(updatedAt, 0),
	}, nil
}

// Save stores the cursor.
func (r *CursorRepo) Save(ctx context.Context, cursor *domain.Cursor) error {
	err := r.rdb.HSet(ctx, r.cursorKey(cursor.Name),
		"block_height", strconv.FormatUint(cursor.BlockHeight, 10),
		"updated_at", strconv.FormatInt(cursor.UpdatedAt.Unix(), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("hset failed: %w", err)
	}
	return nil
}
