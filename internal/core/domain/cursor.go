package domain

import "time"

// Cursor is the last block whose events were fully flushed to the streams.
type Cursor struct {
	Name        string
	BlockHeight uint64
	UpdatedAt   time.Time
}
