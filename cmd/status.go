package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/cli/handlers"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running entry",
	Long: `Show the running entry, when it started and how long it has run,
followed by the total tracked today.

Examples:
  chronos status`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showStatus(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func showStatus(ctx context.Context) {
	withServices(ctx, func(ctx context.Context, d *cli.Deps) {
		handlers.ShowStatus(ctx, d)
	})
}
