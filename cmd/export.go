package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/cli/handlers"
)

var (
	exportDate   string
	exportFormat string
	exportMark   bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the entries of a day",
	Long: `Export the stopped entries of a day for programmatic use.

Available formats:
  json    Metadata and an array of entries
  csv     One row per entry with a header
  yaml    Same document as json

A running entry is skipped. With --mark the written entries are flagged as
exported.

Examples:
  chronos export                              Today's entries as JSON
  chronos export --format csv > today.csv     Export to file
  chronos export --date 2024-01-15 --mark     Export and flag a day`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exportEntries(cmd.Context(), exportDate, exportFormat, exportMark)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportDate, "date", "", "Day to export (YYYY-MM-DD or DD/MM/YYYY, default today)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, csv or yaml")
	exportCmd.Flags().BoolVar(&exportMark, "mark", false, "Flag the exported entries")
	_ = exportCmd.RegisterFlagCompletionFunc("format", completeExportFormats)
}

func exportEntries(ctx context.Context, date, format string, mark bool) {
	withServices(ctx, func(ctx context.Context, d *cli.Deps) {
		handlers.Export(ctx, d, date, format, mark)
	})
}
