package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Hannlytics/rams-generator/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up when Load is given a directory.
const FileName = ".rams.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .rams.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads the config at path, or path/.rams.yaml when path is a directory.
// Returns DefaultConfig if the file does not exist. Environment overrides
// are applied last.
func (l *YAMLLoader) Load(path string) (domain.Config, error) {
	file := path
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		file = filepath.Join(path, FileName)
	}

	cfg := domain.DefaultConfig()
	data, err := os.ReadFile(file)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return domain.Config{}, err
	default:
		// Decoding onto the defaults keeps every key the file leaves out.
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", filepath.Base(file), err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", filepath.Base(file), err)
	}

	// Tags may be written in any case; store the canonical form.
	if len(cfg.Regulations) > 0 {
		regs, err := domain.ParseRegulations(regulationStrings(cfg.Regulations))
		if err != nil {
			return domain.Config{}, err
		}
		cfg.Regulations = regs
	}
	return cfg, nil
}

// applyEnv overlays environment variables. A provider-specific key
// (OPENAI_API_KEY, GEMINI_API_KEY) is used only when no key is set.
func applyEnv(cfg *domain.Config) {
	if v := os.Getenv("RAMS_AI_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	if v := os.Getenv("RAMS_AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if cfg.AI.APIKey == "" {
		switch cfg.AI.Provider {
		case domain.ProviderOpenAI:
			cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
		case domain.ProviderGemini:
			cfg.AI.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if v := os.Getenv("RAMS_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

func regulationStrings(regs []domain.Regulation) []string {
	out := make([]string, len(regs))
	for i, r := range regs {
		out[i] = string(r)
	}
	return out
}
