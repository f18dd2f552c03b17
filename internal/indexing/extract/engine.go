package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vietddude/ftindexer/internal/core/domain"
	"github.com/vietddude/ftindexer/internal/indexing/metrics"
)

// ErrMissingTransaction is returned for a receipt delivered without the
// transaction it belongs to.
var ErrMissingTransaction = errors.New("receipt has no transaction")

// Handler receives every extracted event together with its context.
// A returned error aborts processing of the receipt.
type Handler interface {
	HandleMint(ctx context.Context, mint domain.MintEvent, ectx domain.EventContext) error
	HandleTransfer(ctx context.Context, transfer domain.TransferEvent, ectx domain.EventContext) error
	HandleBurn(ctx context.Context, burn domain.BurnEvent, ectx domain.EventContext) error
}

// LogClassifier turns one log line into zero or more events.
type LogClassifier struct {
	Name     string
	Classify func(log string) []domain.Event
}

// DefaultLogClassifiers is the ordered list run against every log line.
// All of them run on every line; a line matching several yields an event
// from each.
var DefaultLogClassifiers = []LogClassifier{
	{Name: "legacy_transfer", Classify: ClassifyLegacyTransfer},
	{Name: "nep141_mint", Classify: DecodeMint},
	{Name: "nep141_transfer", Classify: DecodeTransfer},
	{Name: "nep141_burn", Classify: DecodeBurn},
}

const actionDetector = "native_action"

// Engine runs every detector over a receipt and forwards what they find.
type Engine struct {
	handler     Handler
	classifiers []LogClassifier
	log         *slog.Logger
}

// NewEngine creates an engine that forwards events to handler.
func NewEngine(handler Handler) *Engine {
	return &Engine{
		handler:     handler,
		classifiers: DefaultLogClassifiers,
		log:         slog.Default().With("component", "extract"),
	}
}

// ProcessBlock processes the receipts of a block in delivery order.
func (e *Engine) ProcessBlock(ctx context.Context, block *domain.Block) error {
	for _, rt := range block.Receipts {
		if err := e.ProcessReceipt(ctx, rt.Receipt, rt.Transaction); err != nil {
			return fmt.Errorf("block %d: %w", block.Height, err)
		}
	}
	return nil
}

// ProcessReceipt extracts events from one receipt. Failed receipts produce
// nothing and need no transaction. Detection itself never fails; only the
// handler can.
func (e *Engine) ProcessReceipt(ctx context.Context, r *domain.Receipt, tx *domain.Transaction) error {
	if r == nil {
		return errors.New("nil receipt")
	}
	if !r.Status.Successful() {
		metrics.ReceiptsProcessed.WithLabelValues("failed").Inc()
		return nil
	}
	if tx == nil {
		return fmt.Errorf("receipt %s: %w", r.ReceiptID, ErrMissingTransaction)
	}
	metrics.ReceiptsProcessed.WithLabelValues("successful").Inc()

	ectx := BuildContext(r, tx)
	for _, line := range r.Logs {
		for _, c := range e.classifiers {
			events := c.Classify(line)
			if len(events) == 0 {
				continue
			}
			e.log.Debug("Log matched", "detector", c.Name, "receipt", r.ReceiptID, "events", len(events))
			metrics.DetectorMatches.WithLabelValues(c.Name).Add(float64(len(events)))
			if err := e.forward(ctx, events, ectx); err != nil {
				return fmt.Errorf("receipt %s: %w", r.ReceiptID, err)
			}
		}
	}

	if events := ScanActions(r); len(events) > 0 {
		metrics.DetectorMatches.WithLabelValues(actionDetector).Add(float64(len(events)))
		if err := e.forward(ctx, events, NativeContext(r, tx)); err != nil {
			return fmt.Errorf("receipt %s: %w", r.ReceiptID, err)
		}
	}
	return nil
}

func (e *Engine) forward(ctx context.Context, events []domain.Event, ectx domain.EventContext) error {
	for _, ev := range events {
		var err error
		switch ev := ev.(type) {
		case domain.MintEvent:
			err = e.handler.HandleMint(ctx, ev, ectx)
		case domain.TransferEvent:
			err = e.handler.HandleTransfer(ctx, ev, ectx)
		case domain.BurnEvent:
			err = e.handler.HandleBurn(ctx, ev, ectx)
		default:
			err = fmt.Errorf("unsupported event %T", ev)
		}
		if err != nil {
			return fmt.Errorf("handle %s: %w", ev.Kind(), err)
		}
	}
	return nil
}
