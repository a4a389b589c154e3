package handlers

import (
	"fmt"
	"strings"

	"github.com/xolan/chronos/internal/cli"
)

// ShowConfig displays the current configuration
func ShowConfig(deps *cli.Deps) {
	cfg := deps.Services.Config.Get()
	path := deps.Services.Config.GetPath()

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "Config file: %s\n", path)
	if deps.Services.Config.Exists() {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: File exists")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: Using defaults (no config file)")
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "database:       %s\n", deps.Services.Store.Path())
	_, _ = fmt.Fprintf(deps.Stdout, "timezone:       %s\n", cfg.Timezone)
	_, _ = fmt.Fprintf(deps.Stdout, "trigger_label:  %s\n", cfg.TriggerLabel)
	kinds := "(any)"
	if len(cfg.DrinkKinds) > 0 {
		kinds = strings.Join(cfg.DrinkKinds, ", ")
	}
	_, _ = fmt.Fprintf(deps.Stdout, "drink_kinds:    %s\n", kinds)
	_, _ = fmt.Fprintf(deps.Stdout, "log_level:      %s\n", cfg.LogLevel)
	theme := cfg.Theme
	if theme == "" {
		theme = "(default)"
	}
	_, _ = fmt.Fprintf(deps.Stdout, "theme:          %s\n", theme)
}

// ShowConfigPath prints the config file location
func ShowConfigPath(deps *cli.Deps) {
	_, _ = fmt.Fprintln(deps.Stdout, deps.Services.Config.GetPath())
}

// InitConfig creates a config file with the defaults
func InitConfig(deps *cli.Deps) {
	err := deps.Services.Config.Init()
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return
	}

	path := deps.Services.Config.GetPath()
	_, _ = fmt.Fprintf(deps.Stdout, "Created config file: %s\n", path)
	_, _ = fmt.Fprintln(deps.Stdout, "Edit this file to customize your settings.")
}
