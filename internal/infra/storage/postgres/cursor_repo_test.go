package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/ftindexer/internal/core/domain"
)

func newMockRepo(t *testing.T) (*CursorRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewCursorRepo(sqlx.NewDb(db, "pgx")), mock
}

func TestCursorRepo_Get(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"name", "block_height", "updated_at"}).
		AddRow("mainnet", 129190044, 1726000000)
	mock.ExpectQuery(regexp.QuoteMeta(getCursorQuery)).
		WithArgs("mainnet").
		WillReturnRows(rows)

	cursor, err := repo.Get(ctx, "mainnet")
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, uint64(129190044), cursor.BlockHeight)
	assert.Equal(t, int64(1726000000), cursor.UpdatedAt.Unix())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCursorRepo_GetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(getCursorQuery)).
		WithArgs("mainnet").
		WillReturnRows(sqlmock.NewRows([]string{"name", "block_height", "updated_at"}))

	cursor, err := repo.Get(context.Background(), "mainnet")
	require.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestCursorRepo_Save(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Unix(1726000000, 0)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cursors")).
		WithArgs("mainnet", int64(129190045), now.Unix()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Save(context.Background(), &domain.Cursor{Name: "mainnet", BlockHeight: 129190045, UpdatedAt: now})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCursorRepo_SaveError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cursors")).
		WillReturnError(errors.New("connection reset"))

	err := repo.Save(context.Background(), &domain.Cursor{Name: "mainnet", BlockHeight: 1, UpdatedAt: time.Now()})
	assert.Error(t, err)
}
