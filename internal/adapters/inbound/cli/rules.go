package cli

import (
	"fmt"

	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/tui"
	"github.com/Hannlytics/rams-generator/internal/domain/rules"
	"github.com/spf13/cobra"
)

func newRulesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the compliance rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := rules.Default().Infos()
			if jsonOutput {
				return renderJSON(cmd, infos)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRules(infos))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output rules as JSON")

	return cmd
}
