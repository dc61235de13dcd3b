package cli

import (
	mcpadapter "github.com/Hannlytics/rams-generator/internal/adapters/inbound/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the RAMS MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the RAMS MCP server (stdio)",
		Long: "Start the RAMS MCP server using stdio transport. This lets AI assistants validate, " +
			"fix and export RAMS forms and read the compliance rules.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			s := mcpadapter.NewRAMSMCPServer(a.svc, version)
			return server.ServeStdio(s)
		},
	}

	return cmd
}
