package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/ftindexer/internal/core/domain"
	"github.com/vietddude/ftindexer/internal/indexing/emitter"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(Config{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func record(height uint64, n int) emitter.Record {
	return emitter.Record{BlockHeight: height, Payload: []byte(fmt.Sprintf(`{"n":%d}`, n))}
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrURLRequired)
}

func TestStreamSink_Append(t *testing.T) {
	client, _ := newTestClient(t)
	sink := NewStreamSink(client)
	ctx := context.Background()

	require.NoError(t, sink.Append(ctx, "ft_transfer", record(100, 1), 1000))
	require.NoError(t, sink.Append(ctx, "ft_transfer", record(101, 2), 1000))

	entries, err := client.rdb.XRange(ctx, "ft_transfer", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "100", entries[0].Values[fieldBlockHeight])
	assert.Equal(t, `{"n":1}`, entries[0].Values[fieldEvent])
	assert.Equal(t, `{"n":2}`, entries[1].Values[fieldEvent])
}

func TestStreamSink_AppendBatchPreservesOrder(t *testing.T) {
	client, _ := newTestClient(t)
	sink := NewStreamSink(client)
	ctx := context.Background()

	recs := []emitter.Record{record(7, 1), record(7, 2), record(7, 3)}
	require.NoError(t, sink.AppendBatch(ctx, "ft_mint", recs, 1000))
	require.NoError(t, sink.AppendBatch(ctx, "ft_mint", nil, 1000))

	entries, err := client.rdb.XRange(ctx, "ft_mint", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf(`{"n":%d}`, i+1), entry.Values[fieldEvent])
	}
}

func TestStreamSink_CapIsEnforced(t *testing.T) {
	client, _ := newTestClient(t)
	sink := NewStreamSink(client)
	ctx := context.Background()
	const maxLen = 10

	for i := 0; i < 25; i++ {
		require.NoError(t, sink.Append(ctx, "capped", record(uint64(i), i), maxLen))
	}
	for block := 0; block < 5; block++ {
		batch := []emitter.Record{record(uint64(block), 100+block), record(uint64(block), 200+block)}
		require.NoError(t, sink.AppendBatch(ctx, "batched", batch, maxLen))
	}

	lengths, err := sink.StreamLengths(ctx, []string{"capped", "batched"})
	require.NoError(t, err)
	assert.LessOrEqual(t, lengths["capped"], int64(maxLen))
	assert.LessOrEqual(t, lengths["batched"], int64(maxLen))
	assert.NotZero(t, lengths["batched"])

	// Trimming drops the oldest entries first.
	entries, err := client.rdb.XRange(ctx, "capped", "-", "+").Result()
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, `{"n":24}`, entries[len(entries)-1].Values[fieldEvent])
}

func TestStreamSink_FailsWhenBrokerDown(t *testing.T) {
	client, _ := newTestClient(t)
	sink := NewStreamSink(client)
	require.NoError(t, client.rdb.Close())

	assert.Error(t, sink.Append(context.Background(), "ft_burn", record(1, 1), 10))
	assert.Error(t, sink.AppendBatch(context.Background(), "ft_burn", []emitter.Record{record(1, 1)}, 10))
}

func TestCursorRepo(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewCursorRepo(client, "ftindexer:")
	ctx := context.Background()

	cursor, err := repo.Get(ctx, "mainnet")
	require.NoError(t, err)
	assert.Nil(t, cursor)

	now := time.Unix(1_726_000_000, 0)
	require.NoError(t, repo.Save(ctx, &domain.Cursor{Name: "mainnet", BlockHeight: 129_190_044, UpdatedAt: now}))

	cursor, err = repo.Get(ctx, "mainnet")
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, uint64(129_190_044), cursor.BlockHeight)
	assert.Equal(t, now.Unix(), cursor.UpdatedAt.Unix())

	exists, err := client.rdb.Exists(ctx, "ftindexer:cursor:mainnet").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}
