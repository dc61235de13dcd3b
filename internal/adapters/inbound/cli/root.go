package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// rootOptions are the persistent flags every subcommand reads.
type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "rams",
		Short: "Validate, fix and export construction RAMS documents",
		Long: "rams checks a Risk Assessment & Method Statement against UK regulations " +
			"(CDM 2015, COSHH, RIDDOR, Work at Height, Manual Handling, PPE), scores it, " +
			"applies auto-fixes and exports it as PDF or Word.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", ".", "Path to .rams.yaml or the directory containing it")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newFixCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newDraftCmd(opts))
	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newWatchCmd(opts))
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show rams version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "rams %s (%s)\n", version, commit)
			return nil
		},
	}
}
