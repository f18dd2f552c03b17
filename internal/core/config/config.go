package config

import (
	"fmt"
	"time"

	"github.com/vietddude/ftindexer/internal/indexing/emitter"
	"github.com/vietddude/ftindexer/internal/infra/chain/neardata"
	redisclient "github.com/vietddude/ftindexer/internal/infra/redis"
	"github.com/vietddude/ftindexer/internal/infra/storage/postgres"
)

// Checkpoint store backends.
const (
	CheckpointRedis    = "redis"
	CheckpointPostgres = "postgres"
	CheckpointMemory   = "memory"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Redis    redisclient.Config `yaml:"redis"`
	Emitter  emitter.Config     `yaml:"emitter"`
	Indexer  IndexerConfig      `yaml:"indexer"`
	Neardata neardata.Config    `yaml:"neardata"`
	Database postgres.Config    `yaml:"database"`
	Logging  LoggingConfig      `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"` // 0 disables the health server
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// IndexerConfig holds the block range and pacing of a run.
type IndexerConfig struct {
	StartBlock     *uint64       `yaml:"start_block"` // nil continues after the checkpoint; set replays without checkpointing
	EndBlock       *uint64       `yaml:"end_block"`   // nil follows the chain tip
	PrefetchBlocks int           `yaml:"prefetch_blocks"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	Checkpoint     string        `yaml:"checkpoint"`
	CursorName     string        `yaml:"cursor_name"`
}

// Validate checks cross-field constraints and fills defaults.
func (c *AppConfig) Validate() error {
	if c.Redis.URL == "" {
		return redisclient.ErrURLRequired
	}
	if err := c.Emitter.Validate(); err != nil {
		return fmt.Errorf("emitter: %w", err)
	}

	ic := &c.Indexer
	if ic.PrefetchBlocks == 0 {
		ic.PrefetchBlocks = 100
	}
	if ic.PrefetchBlocks < 0 {
		return fmt.Errorf("indexer: prefetch_blocks must be positive, got %d", ic.PrefetchBlocks)
	}
	if ic.PollInterval <= 0 {
		ic.PollInterval = time.Second
	}
	if ic.CursorName == "" {
		ic.CursorName = "ftindexer"
	}
	switch ic.Checkpoint {
	case "":
		ic.Checkpoint = CheckpointRedis
	case CheckpointRedis, CheckpointMemory:
	case CheckpointPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("indexer: checkpoint %q requires database.url", ic.Checkpoint)
		}
	default:
		return fmt.Errorf("indexer: unknown checkpoint store %q", ic.Checkpoint)
	}
	if ic.StartBlock != nil && ic.EndBlock != nil && *ic.StartBlock > *ic.EndBlock {
		return fmt.Errorf("indexer: start_block %d is after end_block %d", *ic.StartBlock, *ic.EndBlock)
	}

	if c.Neardata.URL == "" {
		c.Neardata.URL = neardata.DefaultURL
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	return nil
}
