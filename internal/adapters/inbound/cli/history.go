package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/history"
	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/tui"
	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history <form.json>",
		Short: "Show the recorded compliance scores of a form",
		Long:  "List the scores saved by rams validate --record for a form, oldest first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, name := filepath.Split(filepath.Clean(args[0]))
			if dir == "" {
				dir = "."
			}

			entries, err := history.New().Load(dir)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}
			entries = domain.EntriesFor(entries, name)

			if jsonOutput {
				if entries == nil {
					entries = []domain.ScoreEntry{}
				}
				return renderJSON(cmd, entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(name, entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")

	return cmd
}

// commitSource is the part of gitinfo the history record needs.
type commitSource interface {
	ShortHash(path string) string
}

// recordScore appends report to the history kept beside the form file.
func recordScore(path string, report *domain.ValidationReport, store domain.ScoreHistory, git commitSource) error {
	dir, name := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}

	entry := domain.NewScoreEntry(name, report, time.Now())
	entry.CommitHash = git.ShortHash(path)

	if err := store.Save(dir, entry); err != nil {
		return fmt.Errorf("recording score: %w", err)
	}
	return nil
}
