package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/config"
	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		provider    string
		regulations []string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .rams.yaml configuration file",
		Long:  "Create a .rams.yaml with the default scoring weights, server settings and AI provider.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			if !slices.Contains(domain.ValidProviders, provider) {
				return fmt.Errorf("unknown AI provider %q (valid: openai, gemini, or empty)", provider)
			}
			regs, err := domain.ParseRegulations(regulations)
			if err != nil {
				return err
			}

			content := generateConfig(provider, regs)

			if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "AI provider (openai, gemini)")
	cmd.Flags().StringSliceVar(&regulations, "regulation", nil, "Regulations to enforce (default: all)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .rams.yaml")

	return cmd
}

func generateConfig(provider string, regs []domain.Regulation) string {
	cfg := domain.DefaultConfig()
	var b strings.Builder

	b.WriteString("# RAMS Generator configuration\n\n")

	b.WriteString("server:\n")
	fmt.Fprintf(&b, "  addr: %q\n", cfg.Server.Addr)
	fmt.Fprintf(&b, "  read_timeout: %s\n", cfg.Server.ReadTimeout)
	fmt.Fprintf(&b, "  write_timeout: %s\n", cfg.Server.WriteTimeout)
	fmt.Fprintf(&b, "  max_body_bytes: %d\n\n", cfg.Server.MaxBodyBytes)

	if len(regs) > 0 {
		b.WriteString("regulations:\n")
		for _, r := range regs {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	} else {
		b.WriteString("# regulations:\n")
		for _, r := range domain.RegulationOrder {
			fmt.Fprintf(&b, "#   - %s\n", r)
		}
	}
	b.WriteString("\n")

	w := cfg.Scoring.Weights
	bonus := cfg.Scoring.Bonuses
	b.WriteString("scoring:\n  weights:\n")
	fmt.Fprintf(&b, "    critical: %d\n    high: %d\n    medium: %d\n    low: %d\n", w.Critical, w.High, w.Medium, w.Low)
	b.WriteString("  bonuses:\n")
	fmt.Fprintf(&b, "    reviewed_by: %d\n", bonus.ReviewedBy)
	fmt.Fprintf(&b, "    detailed_controls: %d\n", bonus.DetailedControls)
	fmt.Fprintf(&b, "    controls_min_chars: %d\n", bonus.ControlsMinChars)
	fmt.Fprintf(&b, "    detailed_method: %d\n", bonus.DetailedMethod)
	fmt.Fprintf(&b, "    method_min_chars: %d\n", bonus.MethodMinChars)
	fmt.Fprintf(&b, "    trauma_centre: %d\n\n", bonus.TraumaCentre)

	b.WriteString("ai:\n")
	fmt.Fprintf(&b, "  provider: %q\n", provider)
	b.WriteString("  # api_key is read from RAMS_AI_API_KEY, OPENAI_API_KEY or GEMINI_API_KEY\n")
	fmt.Fprintf(&b, "  timeout: %s\n", cfg.AI.Timeout)
	fmt.Fprintf(&b, "  max_tokens: %d\n", cfg.AI.MaxTokens)
	fmt.Fprintf(&b, "  temperature: %.1f\n\n", cfg.AI.Temperature)

	b.WriteString("log:\n")
	fmt.Fprintf(&b, "  level: %s\n", cfg.Log.Level)

	return b.String()
}
