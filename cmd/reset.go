package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/cli/handlers"
)

var resetYes bool

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:     "reset",
	Aliases: []string{"clear"},
	Short:   "Delete every entry and drink counter",
	Long: `Delete every entry and drink counter. Entry ids start again at 1.

The database is copied to a backup first (chronos.db.bak.1, rotating up to
three copies). You are asked to confirm unless --yes is given.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		resetData(cmd.Context(), resetYes)
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
}

func resetData(ctx context.Context, confirmed bool) {
	withServices(ctx, func(ctx context.Context, d *cli.Deps) {
		handlers.Reset(ctx, d, confirmed)
	})
}
