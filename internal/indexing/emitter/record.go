package emitter

import (
	"encoding/json"
	"fmt"

	"github.com/vietddude/ftindexer/internal/core/domain"
)

// contextPayload is the provenance part of every stream entry.
type contextPayload struct {
	TransactionID         string           `json:"transaction_id"`
	ReceiptID             string           `json:"receipt_id"`
	BlockHeight           uint64           `json:"block_height"`
	BlockTimestampNanosec uint64           `json:"block_timestamp_nanosec,string"`
	PredecessorID         domain.AccountID `json:"predecessor_id"`
	TokenID               domain.AccountID `json:"token_id"`
}

func newContextPayload(ectx domain.EventContext) contextPayload {
	return contextPayload{
		TransactionID:         ectx.TransactionID,
		ReceiptID:             ectx.ReceiptID,
		BlockHeight:           ectx.BlockHeight,
		BlockTimestampNanosec: ectx.BlockTimestampNanosec,
		PredecessorID:         ectx.PredecessorID,
		TokenID:               ectx.ContractID,
	}
}

type mintPayload struct {
	domain.MintEvent
	contextPayload
}

type transferPayload struct {
	domain.TransferEvent
	contextPayload
}

type burnPayload struct {
	domain.BurnEvent
	contextPayload
}

// NewRecord serializes an event and its context into a stream record.
func NewRecord(ev domain.Event, ectx domain.EventContext) (Record, error) {
	var payload any
	cp := newContextPayload(ectx)
	switch ev := ev.(type) {
	case domain.MintEvent:
		payload = mintPayload{ev, cp}
	case domain.TransferEvent:
		payload = transferPayload{ev, cp}
	case domain.BurnEvent:
		payload = burnPayload{ev, cp}
	default:
		return Record{}, fmt.Errorf("unsupported event %T", ev)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Record{}, fmt.Errorf("marshal %s event: %w", ev.Kind(), err)
	}
	return Record{BlockHeight: ectx.BlockHeight, Payload: data}, nil
}
