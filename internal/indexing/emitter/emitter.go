package emitter

import (
	"context"
	"fmt"

	"github.com/vietddude/ftindexer/internal/core/domain"
	"github.com/vietddude/ftindexer/internal/indexing/extract"
)

// Record is one stream entry ready for the broker.
type Record struct {
	BlockHeight uint64
	Payload     []byte
}

// Sink is the broker side of the emitter. Both operations trim the stream
// to roughly maxLen entries; the broker decides how rough.
type Sink interface {
	// Append adds one record and trims the stream
	Append(ctx context.Context, stream string, rec Record, maxLen int64) error

	// AppendBatch adds records in order as one unit and trims the stream once
	AppendBatch(ctx context.Context, stream string, recs []Record, maxLen int64) error
}

// Emitter is an extraction handler whose writes become durable on Flush.
type Emitter interface {
	extract.Handler

	// Flush writes everything buffered for blocks up to and including blockHeight
	Flush(ctx context.Context, blockHeight uint64) error
}

// Mode selects when events reach the sink.
type Mode string

const (
	// ModeBuffered buffers events and writes them once per block on Flush.
	ModeBuffered Mode = "buffered"
	// ModeImmediate writes and trims on every event.
	ModeImmediate Mode = "immediate"
)

// DefaultMaxStreamSize is the default approximate cap of each stream.
const DefaultMaxStreamSize = 10_000

// Config holds emitter settings.
type Config struct {
	MaxStreamSize int64  `yaml:"max_stream_size"`
	Mode          Mode   `yaml:"mode"`
	StreamPrefix  string `yaml:"stream_prefix"`
}

// Validate checks the configuration and fills defaults.
func (c *Config) Validate() error {
	if c.MaxStreamSize == 0 {
		c.MaxStreamSize = DefaultMaxStreamSize
	}
	if c.MaxStreamSize < 0 {
		return fmt.Errorf("max_stream_size must be positive, got %d", c.MaxStreamSize)
	}
	switch c.Mode {
	case "":
		c.Mode = ModeBuffered
	case ModeBuffered, ModeImmediate:
	default:
		return fmt.Errorf("unknown emitter mode %q", c.Mode)
	}
	return nil
}

// StreamName returns the stream an event kind is written to.
func StreamName(prefix string, kind domain.EventKind) string {
	return prefix + string(kind)
}
