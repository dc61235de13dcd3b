package cli

import (
	"fmt"

	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/gitinfo"
	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/history"
	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/tui"
	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type validateFlags struct {
	jsonOutput  bool
	regulations []string
	step        int
	useAI       bool
	ciMode      bool
	minScore    int
	record      bool
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var f validateFlags

	cmd := &cobra.Command{
		Use:   "validate <form.json>",
		Short: "Validate a RAMS form against UK regulations",
		Long: "Run the compliance rule table over a RAMS form, optionally with AI review, " +
			"and print the scored report.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			req, err := f.request(args[0])
			if err != nil {
				return err
			}
			report, err := a.svc.Validate.Validate(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			if f.jsonOutput {
				if err := renderJSON(cmd, report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
			}

			if f.record {
				if err := recordScore(args[0], report, history.New(), gitinfo.New()); err != nil {
					return err
				}
				a.logger.Debug("score recorded", zap.Int("score", report.ComplianceScore))
			}

			if f.ciMode && report.ComplianceScore < f.minScore {
				return fmt.Errorf("score %d is below minimum %d", report.ComplianceScore, f.minScore)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().StringSliceVar(&f.regulations, "regulation", nil, "Limit to these regulations (CDM, COSHH, RIDDOR, WORKING_AT_HEIGHT, MANUAL_HANDLING, PPE)")
	cmd.Flags().IntVar(&f.step, "step", 0, "Validate only the fields of this form step (1-5)")
	cmd.Flags().BoolVar(&f.useAI, "ai", false, "Ask the configured AI provider for additional findings")
	cmd.Flags().BoolVar(&f.ciMode, "ci", false, "CI mode: exit 1 if below --min")
	cmd.Flags().IntVar(&f.minScore, "min", 0, "Minimum score for CI mode")
	cmd.Flags().BoolVar(&f.record, "record", false, "Append the score to the history next to the form")

	return cmd
}

func (f validateFlags) request(path string) (domain.ValidateRequest, error) {
	form, err := readForm(path)
	if err != nil {
		return domain.ValidateRequest{}, err
	}
	step := domain.FormStep(f.step)
	if !step.Valid() {
		return domain.ValidateRequest{}, fmt.Errorf("--step must be between 1 and %d", domain.StepSignOff)
	}
	regs, err := domain.ParseRegulations(f.regulations)
	if err != nil {
		return domain.ValidateRequest{}, err
	}
	return domain.ValidateRequest{Form: form, Step: step, Regulations: regs, UseAI: f.useAI}, nil
}
