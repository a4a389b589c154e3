package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/cli/handlers"
)

// todayCmd represents the today command
var todayCmd = &cobra.Command{
	Use:   "today [date]",
	Short: "Show the entries of a day",
	Long: `Show the entries, the total worked time and the drink counters of a
day. Without a date, today is shown. A running entry counts up to now.

Examples:
  chronos today
  chronos today 2024-01-15
  chronos today 15/01/2024`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		date := ""
		if len(args) == 1 {
			date = args[0]
		}
		showDay(cmd.Context(), date)
	},
}

var endDayDate string

// endDayCmd represents the end-day command
var endDayCmd = &cobra.Command{
	Use:     "end-day",
	Aliases: []string{"end_day"},
	Short:   "Assign task ids to the entries of a day",
	Long: `Stop the running entry, then ask for a task id for every entry of the
day that has none. When an entry's label already got a task id, that id is
offered: press enter to reuse it.

An empty answer asks again. End of input (Ctrl-D) stops early; the entries
answered so far keep their ids.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		endDay(cmd.Context(), endDayDate)
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(endDayCmd)

	endDayCmd.Flags().StringVar(&endDayDate, "date", "", "Day to reconcile (YYYY-MM-DD or DD/MM/YYYY, default today)")
}

func showDay(ctx context.Context, date string) {
	withServices(ctx, func(ctx context.Context, d *cli.Deps) {
		handlers.ShowDay(ctx, d, date)
	})
}

func endDay(ctx context.Context, date string) {
	withServices(ctx, func(ctx context.Context, d *cli.Deps) {
		handlers.EndDay(ctx, d, date)
	})
}
