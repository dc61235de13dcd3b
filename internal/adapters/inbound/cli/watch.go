package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/tui"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// defaultDebounce absorbs the burst of events editors emit on save.
const defaultDebounce = 200 * time.Millisecond

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var (
		f        validateFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <form.json>",
		Short: "Re-validate a RAMS form every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, opts)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			check := func() error {
				req, err := f.request(args[0])
				if err != nil {
					// A half-written file is normal mid-save; wait for the next event.
					fmt.Fprintf(out, "%s\n", err)
					return nil
				}
				report, err := a.svc.Validate.Validate(ctx, req)
				if err != nil {
					fmt.Fprintf(out, "validation failed: %s\n", err)
					return nil
				}
				if f.jsonOutput {
					return renderJSON(cmd, report)
				}
				fmt.Fprint(out, tui.RenderReport(report))
				return nil
			}

			if err := check(); err != nil {
				return err
			}
			return watchForm(ctx, args[0], debounce, a.logger, check)
		},
	}

	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Output each report as JSON")
	cmd.Flags().StringSliceVar(&f.regulations, "regulation", nil, "Limit to these regulations")
	cmd.Flags().IntVar(&f.step, "step", 0, "Validate only the fields of this form step (1-5)")
	cmd.Flags().BoolVar(&f.useAI, "ai", false, "Ask the configured AI provider for additional findings")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "Quiet period after a change before re-validating")

	return cmd
}

// watchForm calls onChange after path is written or re-created, once the
// file has been quiet for debounce. The parent directory is watched so
// editors that save by rename are still seen. Returns nil when ctx is done.
func watchForm(ctx context.Context, path string, debounce time.Duration, logger *zap.Logger, onChange func() error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watching form", zap.String("path", abs))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("form changed", zap.String("op", ev.Op.String()))
			pending = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-pending:
			pending = nil
			if err := onChange(); err != nil {
				return err
			}
		}
	}
}
