package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vietddude/ftindexer/internal/core/cursor"
	"github.com/vietddude/ftindexer/internal/core/domain"
	"github.com/vietddude/ftindexer/internal/indexing/metrics"
	"github.com/vietddude/ftindexer/internal/infra/chain"
)

// Pipeline implements the Indexer interface
type Pipeline struct {
	cfg     Config
	running atomic.Bool
	log     *slog.Logger

	mu     sync.RWMutex
	status Status
}

var _ Indexer = (*Pipeline)(nil)

// NewPipeline creates a new indexing pipeline
func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		log: slog.Default().With("component", "indexer"),
	}
}

// Run resolves the start height, then processes, flushes and checkpoints
// each block in order. The checkpoint for a block is written only after its
// events were flushed. A run with an explicit start block is a replay and
// never moves the checkpoint.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return errors.New("pipeline already running")
	}
	defer p.running.Store(false)

	start, err := p.cfg.Cursor.ResolveStart(ctx, p.cfg.StartBlock, p.cfg.Adapter.GetLatestBlock)
	if err != nil {
		return fmt.Errorf("resolve start block: %w", err)
	}
	end := p.cfg.EndBlock
	if end != nil && start > *end {
		return fmt.Errorf("%w: %d > %d", cursor.ErrInvalidRange, start, *end)
	}

	p.mu.Lock()
	p.status = Status{Running: true, StartBlock: start, EndBlock: end, UpdatedAt: time.Now()}
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.status.Running = false
		p.mu.Unlock()
	}()

	replay := p.cfg.StartBlock != nil
	p.log.Info("indexer started", "start", start, "end", formatEnd(end), "replay", replay, "source", p.cfg.Adapter.Name())

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	prefetcher := chain.NewPrefetcher(p.cfg.Adapter, p.cfg.PrefetchBlocks, p.cfg.PollInterval)
	blocks := make(chan *domain.Block, max(p.cfg.PrefetchBlocks, 1))
	fetchErr := make(chan error, 1)
	go func() {
		fetchErr <- prefetcher.Run(fetchCtx, start, end, blocks)
	}()

	for block := range blocks {
		if err := p.processBlock(ctx, block, replay); err != nil {
			cancel()
			for range blocks {
			}
			<-fetchErr
			return err
		}
	}

	if err := <-fetchErr; err != nil {
		if ctx.Err() != nil {
			p.log.Info("indexer stopped", "reason", ctx.Err())
			return nil
		}
		return fmt.Errorf("fetch blocks: %w", err)
	}

	p.log.Info("reached end block", "end", formatEnd(end))
	return nil
}

func (p *Pipeline) processBlock(ctx context.Context, block *domain.Block, replay bool) error {
	if err := p.cfg.Processor.ProcessBlock(ctx, block); err != nil {
		return fmt.Errorf("process block %d: %w", block.Height, err)
	}
	if err := p.cfg.Emitter.Flush(ctx, block.Height); err != nil {
		return fmt.Errorf("flush block %d: %w", block.Height, err)
	}
	if replay {
		p.cfg.Cursor.Track(block.Height)
	} else if err := p.cfg.Cursor.Advance(ctx, block.Height); err != nil {
		return fmt.Errorf("checkpoint block %d: %w", block.Height, err)
	}

	metrics.BlocksProcessed.Inc()
	metrics.IndexerLatestBlock.Set(float64(block.Height))

	p.mu.Lock()
	p.status.CurrentBlock = block.Height
	p.status.BlocksPerSecond = p.cfg.Cursor.GetMetrics().BlocksPerSecond
	p.status.UpdatedAt = time.Now()
	p.mu.Unlock()

	p.log.Debug("block processed", "height", block.Height, "receipts", len(block.Receipts))
	return nil
}

// GetStatus returns the current status
func (p *Pipeline) GetStatus() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func formatEnd(end *uint64) string {
	if end == nil {
		return "tip"
	}
	return fmt.Sprint(*end)
}
