package cmd

import (
	"fmt"
	"log/slog"

	"github.com/LandyLee-gdut/essay-grader/internal/config"
	"github.com/LandyLee-gdut/essay-grader/internal/storage"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and export the grading history",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryExportCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List graded essays",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			entries := storage.NewHistoryStore(cfg.HistoryPath).Load()

			if len(entries) == 0 {
				fmt.Println("No graded essays yet.")
				return nil
			}

			for _, entry := range entries {
				fmt.Printf("%s  %s\n", entry.Timestamp, entry.Title)
				fmt.Printf("    text: %s\n", entry.TextPath)
				fmt.Printf("    rate: %s\n", entry.RatePath)
			}
			fmt.Printf("\n%d graded essay(s)\n", len(entries))
			return nil
		},
	}
}

func newHistoryExportCmd() *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the grading history to a dataset file",
		Long: `Exports the grading history for analysis outside the grader.

Parquet output is suited for loading into analytics tooling; YAML output is
human-readable.`,
		Example: `  # Export to parquet
  essay-grader history export --format parquet --output history.parquet

  # Export to YAML
  essay-grader history export --format yaml --output history.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			entries := storage.NewHistoryStore(cfg.HistoryPath).Load()

			if err := storage.Export(entries, output, format); err != nil {
				return err
			}

			slog.Info("History exported", "entries", len(entries), "format", format, "output", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "parquet", "Export format: parquet or yaml")
	cmd.Flags().StringVar(&output, "output", "history.parquet", "Output file path")

	return cmd
}
