package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/cli/handlers"
)

// drinkCmd represents the drink command
var drinkCmd = &cobra.Command{
	Use:   "drink <kind>",
	Short: "Count a drink",
	Long: `Add one to today's counter for a kind of drink.

Kinds are case-insensitive. Set drink_kinds in the config file to restrict
the accepted kinds.

Examples:
  chronos drink coffee
  chronos drink water`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeDrinkKinds,
	Run: func(cmd *cobra.Command, args []string) {
		recordDrink(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(drinkCmd)
}

func recordDrink(ctx context.Context, kind string) {
	withServices(ctx, func(ctx context.Context, d *cli.Deps) {
		handlers.RecordDrink(ctx, d, kind)
	})
}
