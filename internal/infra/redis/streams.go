package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/ftindexer/internal/indexing/emitter"
)

// Stream entry fields.
const (
	fieldBlockHeight = "block_height"
	fieldEvent       = "event"
)

// StreamSink writes emitter records to Redis streams, capped with
// approximate MAXLEN trimming.
type StreamSink struct {
	rdb *redis.Client
}

var _ emitter.Sink = (*StreamSink)(nil)

// NewStreamSink creates a sink on top of client.
func NewStreamSink(client *Client) *StreamSink {
	return &StreamSink{rdb: client.rdb}
}

// Append runs XADD with MAXLEN ~ maxLen.
func (s *StreamSink) Append(ctx context.Context, stream string, rec emitter.Record, maxLen int64) error {
	err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: maxLen,
		Approx: true,
		Values: recordValues(rec),
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd failed: %w", err)
	}
	return nil
}

// AppendBatch adds all records and trims once inside MULTI/EXEC, so the
// batch lands as a contiguous, ordered run of entries or not at all.
func (s *StreamSink) AppendBatch(ctx context.Context, stream string, recs []emitter.Record, maxLen int64) error {
	if len(recs) == 0 {
		return nil
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, rec := range recs {
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: stream,
				Values: recordValues(rec),
			})
		}
		pipe.XTrimMaxLenApprox(ctx, stream, maxLen, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("xadd batch failed: %w", err)
	}
	return nil
}

// StreamLengths returns XLEN for each stream.
func (s *StreamSink) StreamLengths(ctx context.Context, streams []string) (map[string]int64, error) {
	lengths := make(map[string]int64, len(streams))
	for _, stream := range streams {
		n, err := s.rdb.XLen(ctx, stream).Result()
		if err != nil {
			return nil, fmt.Errorf("xlen %s failed: %w", stream, err)
		}
		lengths[stream] = n
	}
	return lengths, nil
}

func recordValues(rec emitter.Record) []any {
	return []any{
		fieldBlockHeight, strconv.FormatUint(rec.BlockHeight, 10),
		fieldEvent, rec.Payload,
	}
}
