package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the checkpoint, chain head and stream lengths",
	Args:  cobra.NoArgs,
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app, cfg := mustApp(ctx)
	defer func() {
		_ = app.Close()
	}()

	c, err := app.Cursor().Get(ctx)
	exitOnErr("Failed to read checkpoint", err)

	lengths, err := app.StreamLengths(ctx)
	exitOnErr("Failed to read stream lengths", err)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "KEY\tVALUE")
	_, _ = fmt.Fprintf(w, "checkpoint store\t%s\n", cfg.Indexer.Checkpoint)
	if c != nil {
		_, _ = fmt.Fprintf(w, "last block\t%d\n", c.BlockHeight)
		_, _ = fmt.Fprintf(w, "updated\t%s\n", c.UpdatedAt.Format(time.RFC3339))
	} else {
		_, _ = fmt.Fprintln(w, "last block\t-")
	}

	if latest, err := app.LatestBlock(ctx); err == nil {
		_, _ = fmt.Fprintf(w, "chain head\t%d\n", latest)
		if c != nil && latest >= c.BlockHeight {
			_, _ = fmt.Fprintf(w, "lag\t%d\n", latest-c.BlockHeight)
		}
	} else {
		_, _ = fmt.Fprintf(w, "chain head\tunavailable (%v)\n", err)
	}

	streams := make([]string, 0, len(lengths))
	for s := range lengths {
		streams = append(streams, s)
	}
	sort.Strings(streams)
	for _, s := range streams {
		_, _ = fmt.Fprintf(w, "stream %s\t%d/%d\n", s, lengths[s], cfg.Emitter.MaxStreamSize)
	}
	_ = w.Flush()
}
