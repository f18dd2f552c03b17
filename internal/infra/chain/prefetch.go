package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/ftindexer/internal/core/domain"
)

const (
	DefaultPrefetchBlocks = 100
	DefaultPollInterval   = time.Second
)

// Prefetcher reads blocks ahead of the consumer and delivers them strictly in
// height order. Skipped heights are not delivered.
type Prefetcher struct {
	adapter Adapter
	depth   int
	poll    time.Duration
	log     *slog.Logger
}

// NewPrefetcher creates a prefetcher fetching up to depth heights at once.
func NewPrefetcher(adapter Adapter, depth int, poll time.Duration) *Prefetcher {
	if depth <= 0 {
		depth = DefaultPrefetchBlocks
	}
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Prefetcher{
		adapter: adapter,
		depth:   depth,
		poll:    poll,
		log:     slog.Default().With("component", "prefetch", "source", adapter.Name()),
	}
}

// Run fetches heights from start through end (inclusive; nil means follow the
// chain tip forever) and sends them to out in order. It closes out when it
// returns. The returned error is nil once end has been delivered.
func (p *Prefetcher) Run(ctx context.Context, start uint64, end *uint64, out chan<- *domain.Block) error {
	defer close(out)

	next := start
	var head uint64
	for {
		if end != nil && next > *end {
			return nil
		}

		if next > head {
			h, err := p.adapter.GetLatestBlock(ctx)
			if err != nil {
				return fmt.Errorf("get latest block: %w", err)
			}
			head = h
			if next > head {
				if err := sleep(ctx, p.poll); err != nil {
					return err
				}
				continue
			}
		}

		last := min(next+uint64(p.depth)-1, head)
		if end != nil {
			last = min(last, *end)
		}

		blocks, reached, err := p.fetchWindow(ctx, next, last)
		if err != nil {
			return err
		}
		for _, b := range blocks {
			select {
			case out <- b:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if reached <= last {
			// reported final but not served yet
			p.log.Debug("block not ready", "height", reached)
			next = reached
			if err := sleep(ctx, p.poll); err != nil {
				return err
			}
			continue
		}
		next = last + 1
	}
}

// fetchWindow fetches [from, to] concurrently. It returns the blocks that form
// a contiguous prefix of the window and the first height not covered by it.
func (p *Prefetcher) fetchWindow(ctx context.Context, from, to uint64) ([]*domain.Block, uint64, error) {
	n := int(to - from + 1)
	blocks := make([]*domain.Block, n)
	notReady := make([]bool, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.depth)
	for i := range n {
		height := from + uint64(i)
		g.Go(func() error {
			b, err := p.adapter.GetBlock(gctx, height)
			switch {
			case err == nil:
				blocks[i] = b
			case errors.Is(err, ErrBlockSkipped):
			case errors.Is(err, ErrBlockNotReady):
				notReady[i] = true
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	out := make([]*domain.Block, 0, n)
	for i := range n {
		if notReady[i] {
			return out, from + uint64(i), nil
		}
		if blocks[i] != nil {
			out = append(out, blocks[i])
		}
	}
	return out, to + 1, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
