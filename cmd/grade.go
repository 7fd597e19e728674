package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LandyLee-gdut/essay-grader/internal/config"
	"github.com/LandyLee-gdut/essay-grader/internal/models"
	"github.com/LandyLee-gdut/essay-grader/internal/pipeline"
	"github.com/spf13/cobra"
)

func newGradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade [image files]",
		Short: "Grade one essay from its page images",
		Long: `Runs the full grading pipeline once, without the web interface: validates
the page images, extracts the essay text, grades it against the rubric, saves
both results, and appends a history entry.`,
		Example: `  # Grade a single-page essay
  essay-grader grade page1.jpg

  # Grade a multi-page essay
  essay-grader grade page1.jpg page2.jpg page3.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipeline.New(config.Load())
			if err != nil {
				return err
			}

			var last models.Snapshot
			var status models.Status
			for snapshot := range p.Run(context.Background(), args) {
				if snapshot.Status != status {
					status = snapshot.Status
					slog.Info("Pipeline state", "status", status)
				}
				last = snapshot
			}

			if last.Status == models.StatusFailed {
				return fmt.Errorf("grading failed: %s", last.Message)
			}

			fmt.Println()
			fmt.Println("Title:", last.Entry.Title)
			fmt.Println("Essay text:", last.TextPath)
			fmt.Println("Grading feedback:", last.RatePath)
			return nil
		},
	}

	return cmd
}
