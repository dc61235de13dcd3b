package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Hannlytics/rams-generator/internal/adapters/inbound/httpapi"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the RAMS HTTP API",
		Long:  "Serve the validation, auto-fix, AI and export endpoints until SIGINT or SIGTERM.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if addr != "" {
				a.svc.Config.Server.Addr = addr
			}
			return httpapi.New(a.svc, a.logger.Named("http")).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}
