package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/cli/handlers"
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:     "stop",
	Aliases: []string{"pause"},
	Short:   "Stop the running entry",
	Long: `Stop the running entry at the current time.

Stopping when nothing is running is not an error. An entry left running
from an earlier day ends at 23:59 of that day.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		stopEntry(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func stopEntry(ctx context.Context) {
	withServices(ctx, func(ctx context.Context, d *cli.Deps) {
		handlers.StopEntry(ctx, d)
	})
}
