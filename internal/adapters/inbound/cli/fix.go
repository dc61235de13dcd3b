package cli

import (
	"fmt"

	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/tui"
	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newFixCmd(opts *rootOptions) *cobra.Command {
	var (
		dryRun  bool
		write   bool
		summary bool
		ruleIDs []string
	)

	cmd := &cobra.Command{
		Use:   "fix <form.json>",
		Short: "Apply rule auto-fixes to a RAMS form",
		Long: "Apply every available rule auto-fix, or only the rules given with --rule, " +
			"and report the score before and after. Findings without a fix are listed as instructions.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun && write {
				return fmt.Errorf("--dry-run and --write cannot be combined")
			}
			a, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			form, err := readForm(args[0])
			if err != nil {
				return err
			}
			plan, err := a.svc.Fix.PlanFixes(form, domain.FixOptions{DryRun: dryRun, RuleIDs: ruleIDs})
			if err != nil {
				return fmt.Errorf("fix failed: %w", err)
			}

			if write && plan.Form != nil && len(plan.Applied) > 0 {
				if err := writeForm(args[0], *plan.Form); err != nil {
					return err
				}
				a.logger.Info("form updated", zap.String("path", args[0]))
			}

			if summary {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderFixPlan(plan, dryRun))
				return nil
			}
			return renderJSON(cmd, plan)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without producing a fixed form")
	cmd.Flags().BoolVar(&write, "write", false, "Write the fixed form back to the input file")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print a terminal summary instead of JSON")
	cmd.Flags().StringSliceVar(&ruleIDs, "rule", nil, "Only apply fixes for these rule IDs")

	return cmd
}
