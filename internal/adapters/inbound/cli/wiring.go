package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/config"
	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/llm"
	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/render"
	"github.com/Hannlytics/rams-generator/internal/application"
	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// app is everything a command needs once config is loaded.
type app struct {
	cfg    domain.Config
	svc    *application.Services
	logger *zap.Logger
}

// bootstrap loads config, builds the logger and LLM client, and wires the
// services. Callers must defer a.close().
func bootstrap(ctx context.Context, opts *rootOptions) (*app, error) {
	// 1. Config
	cfg, err := config.New().Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// 2. Logger
	logger, err := newLogger(cfg.Log.Level, opts.verbose)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	// 3. LLM client (nil when AI is off)
	client, err := llm.New(ctx, cfg.AI, logger.Named("llm"))
	if err != nil {
		return nil, fmt.Errorf("creating AI client: %w", err)
	}
	if client == nil {
		logger.Debug("AI provider not configured")
	}

	svc := application.NewServices(cfg, client, logger, render.NewPDFRenderer(), render.NewDOCXRenderer())
	return &app{cfg: cfg, svc: svc, logger: logger}, nil
}

func (a *app) close() { _ = a.logger.Sync() }

// newLogger builds a production logger on stderr, or a development one
// when verbose is set or the configured level is debug.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	if verbose || level == "debug" {
		zc := zap.NewDevelopmentConfig()
		zc.OutputPaths = []string{"stderr"}
		return zc.Build()
	}

	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{"stderr"}
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	} else {
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return zc.Build()
}

// readForm loads a form from JSON, or YAML when the extension says so.
func readForm(path string) (domain.FormSnapshot, error) {
	var form domain.FormSnapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return form, fmt.Errorf("reading form: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &form)
	default:
		err = json.Unmarshal(data, &form)
	}
	if err != nil {
		return form, fmt.Errorf("parsing form %s: %w", filepath.Base(path), err)
	}
	return form, nil
}

// writeForm rewrites path in the format it was read in.
func writeForm(path string, form domain.FormSnapshot) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(form)
	default:
		data, err = json.MarshalIndent(form, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encoding form: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing form: %w", err)
	}
	return nil
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
