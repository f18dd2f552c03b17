package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var resetCursorCmd = &cobra.Command{
	Use:   "reset-cursor [block_height]",
	Short: "Set the checkpoint so the next run starts after block_height",
	Args:  cobra.ExactArgs(1),
	Run:   runResetCursor,
}

func init() {
	rootCmd.AddCommand(resetCursorCmd)
}

func runResetCursor(cmd *cobra.Command, args []string) {
	height, err := ParseHeight(args[0])
	exitOnErr("Invalid block height", err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app, cfg := mustApp(ctx)
	defer func() {
		_ = app.Close()
	}()

	exitOnErr("Failed to reset cursor", app.Cursor().Reset(ctx, height))

	fmt.Printf("Successfully reset cursor %s (%s) to block %d\n", app.Cursor().Name(), cfg.Indexer.Checkpoint, height)
}
