package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch the interactive Terminal User Interface for chronos.

The TUI shows today's entries with a live total and lets you start and
stop entries without typing commands.

Views available:
  - Today: Entries, running session and drinks for today
  - Config: Settings and theme selection

Keyboard shortcuts:
  - Tab/Shift+Tab: Navigate between views
  - 1-2: Jump to specific view
  - n: Start a new entry
  - s: Stop the running entry
  - ?: Show help
  - q: Quit (the running entry keeps running)`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	// Add --tui flag to root command for quick access
	rootCmd.PersistentFlags().Bool("tui", false, "Launch interactive terminal UI instead of the shell")
}

// runTUI runs the dashboard against the shared time log
func runTUI(ctx context.Context) {
	withServices(ctx, func(ctx context.Context, d *cli.Deps) {
		if err := runDashboard(ctx, d); err != nil {
			_, _ = fmt.Fprintln(d.Stderr, "Error: Failed to run the terminal UI")
			_, _ = fmt.Fprintf(d.Stderr, "Details: %v\n", err)
			d.Exit(1)
		}
	})
}

// runDashboard is replaced in tests, which have no terminal.
var runDashboard = func(ctx context.Context, d *cli.Deps) error {
	return tui.Run(ctx, d.Services)
}

// CheckTUIFlag checks if the --tui flag is set and runs the TUI if so.
// Returns true if the TUI was launched, false otherwise.
func CheckTUIFlag(cmd *cobra.Command) bool {
	tuiFlag, _ := cmd.Root().PersistentFlags().GetBool("tui")
	if tuiFlag {
		runTUI(cmd.Context())
		return true
	}
	return false
}
