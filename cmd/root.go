package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/cli/shell"
	"github.com/xolan/chronos/internal/config"
	"github.com/xolan/chronos/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "chronos",
	Short: "A time tracking shell with end-of-day reconciliation",
	Long: `chronos records how you spend your working time as labeled intervals.
Exactly one interval is open at a time: starting a new one closes the last.
At the end of the day every interval gets a task id from your tracker.

Usage:
  chronos                              Start the interactive shell
  chronos start <label>                Start an entry now
  chronos retro <minutes> <label>      Start an entry that began <minutes> ago
  chronos stop                         Stop the running entry
  chronos today                        Show today's entries and drinks
  chronos end-day                      Assign task ids to today's entries
  chronos drink <kind>                 Count a drink
  chronos export --format csv          Export today's entries
  chronos reset                        Delete everything (a backup is kept)

While the shell runs, SIGUSR1 starts an entry labeled with trigger_label
(default "interrupt"). Bind 'pkill -USR1 chronos' to a hotkey.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if CheckTUIFlag(cmd) {
			return
		}
		runShell(cmd.Context())
	},
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"chronos version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// runShell runs the interactive prompt until "exit" or end of input.
func runShell(ctx context.Context) {
	withServices(ctx, func(ctx context.Context, d *cli.Deps) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		sigs := make(chan os.Signal, 1)
		stop := deps.Notify(sigs)
		defer stop()

		triggers := make(chan struct{})
		go relayTriggers(ctx, sigs, triggers)

		sh := shell.New(d, d.Services.NewLoop(), d.Services.Config.Get().TriggerLabel)
		if err := sh.Run(ctx, triggers); err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read command")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			deps.Exit(1)
		}
	})
}

// relayTriggers turns trigger signals into start-now requests for the shell.
func relayTriggers(ctx context.Context, sigs <-chan os.Signal, triggers chan<- struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigs:
			select {
			case triggers <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// withServices opens the database for one command and closes it afterwards.
// An entry left open by an earlier process is recovered before fn runs.
func withServices(ctx context.Context, fn func(ctx context.Context, d *cli.Deps)) {
	if ctx == nil {
		ctx = context.Background()
	}

	services, err := deps.OpenServices(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to open the time log")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		if path, perr := config.GetConfigPath(); perr == nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check the config file and that its directory is writable: %s\n", path)
		}
		deps.Exit(1)
		return
	}
	defer func() { _ = services.Close() }()

	d := newCLIDeps(services)
	warnStale(d)
	fn(ctx, d)
}

func newCLIDeps(services *service.Services) *cli.Deps {
	return &cli.Deps{
		Stdout:   deps.Stdout,
		Stderr:   deps.Stderr,
		In:       bufio.NewReader(deps.Stdin),
		Exit:     deps.Exit,
		Services: services,
		Session:  services.Session,
	}
}

// warnStale reports an entry recovered from an earlier day. It stays open
// until the user stops it; stopping it today ends it at 23:59 of its day.
func warnStale(d *cli.Deps) {
	open := d.Services.Recovered
	if open == nil || !d.Services.Session.Stale() {
		return
	}
	_, _ = fmt.Fprintf(d.Stderr, "Warning: '%s' has been running since %s %s\n", open.Label, open.Date, open.TimeStart)
	_, _ = fmt.Fprintf(d.Stderr, "Hint: 'chronos stop' ends it at 23:59 on %s\n", open.Date)
}
