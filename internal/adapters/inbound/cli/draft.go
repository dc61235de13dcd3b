package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDraftCmd(opts *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "draft <description...>",
		Short: "Draft a RAMS form from a job description using AI",
		Long: "Ask the configured AI provider to draft a RAMS form from a free-text description. " +
			"The draft must be reviewed by a competent person before use.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			draft, err := a.svc.Advisor.Draft(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("draft failed: %w", err)
			}

			if outPath != "" {
				if err := writeForm(outPath, draft.Form); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n%s\n", outPath, draft.Disclaimer)
				return nil
			}
			return renderJSON(cmd, draft)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the drafted form to this file instead of stdout")

	return cmd
}
