package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/chronos/internal/export"
	"github.com/xolan/chronos/internal/storage"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a shell completion script for chronos.

Besides commands and flags, the scripts complete the drink kinds listed in
drink_kinds, the export formats and the numbers of existing backups.

Examples:
  source <(chronos completion bash)
  chronos completion zsh > ~/.zsh/completion/_chronos
  chronos completion fish > ~/.config/fish/completions/chronos.fish
  chronos completion powershell | Out-String | Invoke-Expression`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.ExactValidArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		generateCompletion(args[0])
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// generateCompletion generates the appropriate completion script based on shell type
func generateCompletion(shell string) {
	var err error

	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletionV2(deps.Stdout, true)
	case "zsh":
		err = rootCmd.GenZshCompletion(deps.Stdout)
	case "fish":
		err = rootCmd.GenFishCompletion(deps.Stdout, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(deps.Stdout)
	default:
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Unsupported shell '%s'\n", shell)
		_, _ = fmt.Fprintln(deps.Stderr, "Supported shells: bash, zsh, fish, powershell")
		deps.Exit(1)
		return
	}

	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to generate %s completion: %v\n", shell, err)
		deps.Exit(1)
	}
}

// completeDrinkKinds offers the kinds from drink_kinds. An empty list
// accepts any kind, so nothing is offered.
func completeDrinkKinds(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return withPrefix(cfg.DrinkKinds, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeExportFormats offers the values of export --format.
func completeExportFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		names = append(names, string(f))
	}
	return withPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeBackupNumbers offers the backups that exist on disk, described
// by their path.
func completeBackupNumbers(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	storagePath, err := deps.StoragePath()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	backups, err := storage.ListBackups(storagePath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var out []string
	for _, b := range backups {
		n := strconv.Itoa(b.Number)
		if strings.HasPrefix(n, toComplete) {
			out = append(out, n+"\t"+b.Path)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func withPrefix(values []string, prefix string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), prefix) {
			out = append(out, v)
		}
	}
	return out
}
