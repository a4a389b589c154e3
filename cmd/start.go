package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/cli/handlers"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:     "start <label>",
	Aliases: []string{"log"},
	Short:   "Start an entry now",
	Long: `Start a new entry with the given label at the current time.
A running entry is stopped first, ending where the new one begins.

Examples:
  chronos start email
  chronos start code review`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		startEntry(cmd.Context(), args)
	},
}

// retroCmd represents the retro command
var retroCmd = &cobra.Command{
	Use:   "retro <minutes> <label>",
	Short: "Start an entry that began some minutes ago",
	Long: `Start a new entry back-dated by the given number of minutes.
A running entry is stopped at the new entry's start. The new start may not
be earlier than the running entry's start.

Examples:
  chronos retro 15 standup       Standup started 15 minutes ago
  chronos retro 0 email          Same as 'chronos start email'`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		retroEntry(cmd.Context(), args)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(retroCmd)
}

func startEntry(ctx context.Context, args []string) {
	label := strings.Join(args, " ")
	withServices(ctx, func(ctx context.Context, d *cli.Deps) {
		handlers.StartEntry(ctx, d, label)
	})
}

func retroEntry(ctx context.Context, args []string) {
	minutes, err := handlers.ParseMinutes(args[0])
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Usage: chronos retro <minutes> <label>")
		deps.Exit(1)
		return
	}
	label := strings.Join(args[1:], " ")
	withServices(ctx, func(ctx context.Context, d *cli.Deps) {
		handlers.RetroEntry(ctx, d, minutes, label)
	})
}
