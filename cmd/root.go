package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "essay-grader",
		Short: "Essay grading assistant for photographed handwritten essays",
		Long: `Essay-grader extracts the text of photographed handwritten essays with a
vision-capable LLM, then grades the extracted text against a rubric with a
second LLM call.

It serves a web interface that streams extraction and grading progressively,
and keeps a JSON history of every graded essay alongside the saved text and
feedback files.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newGradeCmd())
	cmd.AddCommand(newHistoryCmd())

	return cmd
}
