package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/ftindexer/internal/control"
	"github.com/vietddude/ftindexer/internal/core/config"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "ftindexer [start-block] [end-block]",
	Short: "NEAR fungible token event indexer",
	Long: `ftindexer extracts NEP-141 mint, transfer and burn events and native NEAR
transfers from finalized blocks and appends them to bounded Redis streams.

Without arguments it continues after the last checkpoint (or from the chain
head on first run) and follows the chain. Block heights may contain _ , or .
separators, e.g. 129_190_044.`,
	Args: cobra.MaximumNArgs(2),
	Run:  runIndexer,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default: environment only)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// loadConfig loads, validates and sets up logging.
func loadConfig() *config.AppConfig {
	cfg, err := config.Load(cfgPath)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})
	return cfg
}

func runIndexer(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	if len(args) > 0 {
		start, err := ParseHeight(args[0])
		if err != nil {
			slog.Error("Invalid start block", "error", err)
			os.Exit(1)
		}
		cfg.Indexer.StartBlock = &start
	}
	if len(args) > 1 {
		end, err := ParseHeight(args[1])
		if err != nil {
			slog.Error("Invalid end block", "error", err)
			os.Exit(1)
		}
		cfg.Indexer.EndBlock = &end
	}
	if s, e := cfg.Indexer.StartBlock, cfg.Indexer.EndBlock; s != nil && e != nil && *s > *e {
		slog.Error("Invalid block range", "start", *s, "end", *e)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := control.NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize indexer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Warn("Error during shutdown", "error", err)
		}
	}()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Indexer failed", "error", err)
		_ = app.Close()
		os.Exit(1)
	}
	slog.Info("Indexer stopped", "last_block", app.Status().CurrentBlock)
}

// exitOnErr logs and exits when err is set.
func exitOnErr(msg string, err error) {
	if err != nil {
		slog.Error(msg, "error", err)
		os.Exit(1)
	}
}

func mustApp(ctx context.Context) (*control.App, *config.AppConfig) {
	cfg := loadConfig()
	app, err := control.NewApp(ctx, cfg)
	exitOnErr("Failed to initialize", err)
	return app, cfg
}
