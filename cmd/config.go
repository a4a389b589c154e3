package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/cli/handlers"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current effective configuration settings for chronos.

chronos works without any configuration file. All settings have defaults:
  - database_path: chronos.db next to the config file
  - timezone: Local (system timezone)
  - trigger_label: interrupt
  - drink_kinds: (any kind accepted)
  - log_level: warn

Configuration file location:
  ~/.config/chronos/config.toml      Linux
  %APPDATA%\chronos\config.toml      Windows

Examples:
  chronos config                     Show all current settings
  chronos config path                Print the config file location
  chronos config init                Write a config file with the defaults`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withConfig(cmd.Context(), handlers.ShowConfig)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all current settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withConfig(cmd.Context(), handlers.ShowConfig)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withConfig(cmd.Context(), handlers.ShowConfigPath)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withConfig(cmd.Context(), handlers.InitConfig)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

func withConfig(ctx context.Context, fn func(d *cli.Deps)) {
	withServices(ctx, func(_ context.Context, d *cli.Deps) {
		fn(d)
	})
}
