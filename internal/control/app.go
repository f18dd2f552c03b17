package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/ftindexer/internal/core/config"
	"github.com/vietddude/ftindexer/internal/core/cursor"
	"github.com/vietddude/ftindexer/internal/indexing/emitter"
	"github.com/vietddude/ftindexer/internal/indexing/extract"
	"github.com/vietddude/ftindexer/internal/indexing/health"
	"github.com/vietddude/ftindexer/internal/indexing/indexer"
	"github.com/vietddude/ftindexer/internal/infra/chain"
	"github.com/vietddude/ftindexer/internal/infra/chain/neardata"
	redisclient "github.com/vietddude/ftindexer/internal/infra/redis"
	"github.com/vietddude/ftindexer/internal/infra/storage"
	"github.com/vietddude/ftindexer/internal/infra/storage/memory"
	"github.com/vietddude/ftindexer/internal/infra/storage/postgres"
)

// App owns every long-lived component of an indexer process.
type App struct {
	cfg          *config.AppConfig
	redisClient  *redisclient.Client
	db           *postgres.DB
	source       *neardata.Client
	head         *chain.HeadCache
	sink         *redisclient.StreamSink
	emitter      *emitter.StreamEmitter
	cursor       *cursor.Manager
	pipeline     *indexer.Pipeline
	healthMon    *health.Monitor
	healthServer *health.Server
	log          *slog.Logger
}

// NewApp connects to Redis (and Postgres if it holds the checkpoint) and
// wires the pipeline. cfg must be validated.
func NewApp(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	a := &App{cfg: cfg, log: slog.Default()}

	var err error
	a.redisClient, err = redisclient.NewClient(cfg.Redis)
	if err != nil {
		return nil, err
	}

	repo, err := a.openCursorRepo(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.source = neardata.NewClient(cfg.Neardata)
	a.head = chain.NewHeadCache(a.source, cfg.Indexer.PollInterval)
	a.sink = redisclient.NewStreamSink(a.redisClient)
	a.emitter = emitter.NewStreamEmitter(a.sink, cfg.Emitter)
	a.cursor = cursor.NewManager(repo, cfg.Indexer.CursorName)

	a.pipeline = indexer.NewPipeline(indexer.Config{
		Adapter:        a.head,
		Processor:      extract.NewEngine(a.emitter),
		Emitter:        a.emitter,
		Cursor:         a.cursor,
		StartBlock:     cfg.Indexer.StartBlock,
		EndBlock:       cfg.Indexer.EndBlock,
		PrefetchBlocks: cfg.Indexer.PrefetchBlocks,
		PollInterval:   cfg.Indexer.PollInterval,
	})

	a.healthMon = health.NewMonitor(a.cursor, a.head)
	a.healthMon.AddComponent("redis", a.redisClient)
	a.healthMon.AddComponent("neardata", a.source)
	if a.db != nil {
		a.healthMon.AddComponent("postgres", a.db)
	}
	if cfg.Server.Port > 0 {
		a.healthServer = health.NewServer(a.healthMon, cfg.Server.Port)
	}
	a.log = a.log.With("run_id", a.healthMon.RunID())

	return a, nil
}

func (a *App) openCursorRepo(ctx context.Context) (storage.CursorRepository, error) {
	switch a.cfg.Indexer.Checkpoint {
	case config.CheckpointMemory:
		return memory.NewCursorRepo(), nil
	case config.CheckpointPostgres:
		db, err := postgres.NewDB(ctx, a.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		a.db = db
		if err := db.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}
		return postgres.NewCursorRepo(db.DB), nil
	default:
		return redisclient.NewCursorRepo(a.redisClient, a.cfg.Redis.KeyPrefix), nil
	}
}

// Run serves health endpoints and indexes until the range ends, the context
// is cancelled, or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.healthServer != nil {
		go func() {
			if err := a.healthServer.Start(); err != nil {
				a.log.Error("Health server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = a.healthServer.Stop(shutdownCtx)
		}()
	}

	a.log.Info("Indexer starting",
		"streams", a.emitter.Streams(),
		"mode", a.cfg.Emitter.Mode,
		"max_stream_size", a.cfg.Emitter.MaxStreamSize,
		"checkpoint", a.cfg.Indexer.Checkpoint,
	)

	err := a.pipeline.Run(ctx)
	if err != nil && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Cursor returns the checkpoint manager.
func (a *App) Cursor() *cursor.Manager {
	return a.cursor
}

// Status returns the pipeline status.
func (a *App) Status() indexer.Status {
	return a.pipeline.GetStatus()
}

// StreamLengths returns the current length of every event stream.
func (a *App) StreamLengths(ctx context.Context) (map[string]int64, error) {
	return a.sink.StreamLengths(ctx, a.emitter.Streams())
}

// LatestBlock returns the chain head as seen by the block source.
func (a *App) LatestBlock(ctx context.Context) (uint64, error) {
	return a.head.GetLatestBlock(ctx)
}

// Close releases connections.
func (a *App) Close() error {
	var errs []error
	if a.source != nil {
		errs = append(errs, a.source.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if a.redisClient != nil {
		errs = append(errs, a.redisClient.Close())
	}
	return errors.Join(errs...)
}
