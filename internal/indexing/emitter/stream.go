package emitter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/ftindexer/internal/core/domain"
	"github.com/vietddude/ftindexer/internal/indexing/metrics"
)

// StreamEmitter fans events out to one bounded stream per event kind.
//
// In buffered mode events wait in a per-kind buffer, in arrival order, until
// Flush is called at the end of a block; each buffer then goes to the sink as
// a single batch with a single trim. In immediate mode every event is
// appended and trimmed on its own and Flush does nothing.
//
// Write failures are returned to the caller and never retried here.
type StreamEmitter struct {
	sink    Sink
	cfg     Config
	streams map[domain.EventKind]string
	log     *slog.Logger

	mu      sync.Mutex
	pending map[domain.EventKind][]Record
}

var _ Emitter = (*StreamEmitter)(nil)

// NewStreamEmitter creates an emitter writing to sink. cfg must be validated.
func NewStreamEmitter(sink Sink, cfg Config) *StreamEmitter {
	streams := make(map[domain.EventKind]string, len(domain.EventKinds))
	for _, kind := range domain.EventKinds {
		streams[kind] = StreamName(cfg.StreamPrefix, kind)
	}
	return &StreamEmitter{
		sink:    sink,
		cfg:     cfg,
		streams: streams,
		log:     slog.Default().With("component", "emitter", "mode", string(cfg.Mode)),
		pending: make(map[domain.EventKind][]Record),
	}
}

// HandleMint emits a mint event.
func (e *StreamEmitter) HandleMint(ctx context.Context, mint domain.MintEvent, ectx domain.EventContext) error {
	return e.emit(ctx, mint, ectx)
}

// HandleTransfer emits a transfer event.
func (e *StreamEmitter) HandleTransfer(ctx context.Context, transfer domain.TransferEvent, ectx domain.EventContext) error {
	return e.emit(ctx, transfer, ectx)
}

// HandleBurn emits a burn event.
func (e *StreamEmitter) HandleBurn(ctx context.Context, burn domain.BurnEvent, ectx domain.EventContext) error {
	return e.emit(ctx, burn, ectx)
}

func (e *StreamEmitter) emit(ctx context.Context, ev domain.Event, ectx domain.EventContext) error {
	rec, err := NewRecord(ev, ectx)
	if err != nil {
		return err
	}
	kind := ev.Kind()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cfg.Mode == ModeImmediate {
		if err := e.sink.Append(ctx, e.streams[kind], rec, e.cfg.MaxStreamSize); err != nil {
			metrics.StreamWriteErrors.WithLabelValues(string(kind)).Inc()
			return fmt.Errorf("append to %s: %w", e.streams[kind], err)
		}
		metrics.EventsEmitted.WithLabelValues(string(kind)).Inc()
		return nil
	}

	e.pending[kind] = append(e.pending[kind], rec)
	return nil
}

// Flush writes buffered records of blocks up to and including blockHeight.
// Kinds are flushed in mint, transfer, burn order; a kind's buffer is only
// released once its batch was accepted, so a failed flush loses nothing.
func (e *StreamEmitter) Flush(ctx context.Context, blockHeight uint64) error {
	if e.cfg.Mode == ModeImmediate {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	flushed := 0
	for _, kind := range domain.EventKinds {
		recs := e.pending[kind]
		// Records arrive in block order, so the ready ones form a prefix.
		n := 0
		for n < len(recs) && recs[n].BlockHeight <= blockHeight {
			n++
		}
		if n == 0 {
			continue
		}

		stream := e.streams[kind]
		if err := e.sink.AppendBatch(ctx, stream, recs[:n], e.cfg.MaxStreamSize); err != nil {
			metrics.StreamWriteErrors.WithLabelValues(string(kind)).Inc()
			return fmt.Errorf("flush %d records to %s at block %d: %w", n, stream, blockHeight, err)
		}
		metrics.EventsEmitted.WithLabelValues(string(kind)).Add(float64(n))

		if n == len(recs) {
			delete(e.pending, kind)
		} else {
			e.pending[kind] = recs[n:]
		}
		flushed += n
	}

	if flushed > 0 {
		metrics.FlushLatency.Observe(time.Since(start).Seconds())
		e.log.Debug("Flushed events", "height", blockHeight, "records", flushed)
	}
	return nil
}

// Pending returns the number of buffered records for a kind.
func (e *StreamEmitter) Pending(kind domain.EventKind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending[kind])
}

// Streams returns the stream name of every kind, in flush order.
func (e *StreamEmitter) Streams() []string {
	names := make([]string, 0, len(domain.EventKinds))
	for _, kind := range domain.EventKinds {
		names = append(names, e.streams[kind])
	}
	return names
}
