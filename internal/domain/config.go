package domain

import (
	"fmt"
	"time"
)

// AI providers.
const (
	ProviderNone   = ""
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ValidProviders enumerates the recognized ai.provider values.
var ValidProviders = []string{ProviderNone, ProviderOpenAI, ProviderGemini}

// DefaultFallbackNotices are shown when the AI call degrades.
var DefaultFallbackNotices = []string{
	"GPT validation temporarily unavailable. Manual review recommended.",
	"Ensure all safety procedures follow current UK regulations.",
}

// Config holds service configuration loaded from .rams.yaml.
type Config struct {
	Server      ServerConfig  `yaml:"server"      json:"server"`
	Regulations []Regulation  `yaml:"regulations" json:"regulations,omitempty"`
	Scoring     ScoringConfig `yaml:"scoring"     json:"scoring"`
	AI          AIConfig      `yaml:"ai"          json:"ai"`
	Log         LogConfig     `yaml:"log"         json:"log"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"           json:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"   json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"  json:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
}

// ScoringConfig holds the per-severity deductions and the bonus signals.
type ScoringConfig struct {
	Weights SeverityWeights `yaml:"weights" json:"weights"`
	Bonuses BonusConfig     `yaml:"bonuses" json:"bonuses"`
}

type SeverityWeights struct {
	Critical int `yaml:"critical" json:"critical"`
	High     int `yaml:"high"     json:"high"`
	Medium   int `yaml:"medium"   json:"medium"`
	Low      int `yaml:"low"      json:"low"`
}

// For returns the deduction for s. Unknown severities deduct nothing.
func (w SeverityWeights) For(s Severity) int {
	switch s {
	case SeverityCritical:
		return w.Critical
	case SeverityHigh:
		return w.High
	case SeverityMedium:
		return w.Medium
	case SeverityLow:
		return w.Low
	default:
		return 0
	}
}

type BonusConfig struct {
	ReviewedBy       int `yaml:"reviewed_by"        json:"reviewed_by"`
	DetailedControls int `yaml:"detailed_controls"  json:"detailed_controls"`
	ControlsMinChars int `yaml:"controls_min_chars" json:"controls_min_chars"`
	DetailedMethod   int `yaml:"detailed_method"    json:"detailed_method"`
	MethodMinChars   int `yaml:"method_min_chars"   json:"method_min_chars"`
	TraumaCentre     int `yaml:"trauma_centre"      json:"trauma_centre"`
}

type AIConfig struct {
	Provider        string        `yaml:"provider"         json:"provider"`
	APIKey          string        `yaml:"api_key"          json:"-"`
	Model           string        `yaml:"model"            json:"model,omitempty"`
	BaseURL         string        `yaml:"base_url"         json:"base_url,omitempty"`
	Timeout         time.Duration `yaml:"timeout"          json:"timeout"`
	MaxTokens       int           `yaml:"max_tokens"       json:"max_tokens"`
	Temperature     float64       `yaml:"temperature"      json:"temperature"`
	FallbackNotices []string      `yaml:"fallback_notices" json:"fallback_notices,omitempty"`
}

// Enabled reports whether an AI provider is configured with credentials.
func (c AIConfig) Enabled() bool { return c.Provider != ProviderNone && c.APIKey != "" }

type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// DefaultConfig returns the built-in configuration. AI is off until a
// provider and key are supplied.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Scoring: ScoringConfig{
			Weights: SeverityWeights{Critical: 40, High: 25, Medium: 10, Low: 5},
			Bonuses: BonusConfig{
				ReviewedBy:       5,
				DetailedControls: 5,
				ControlsMinChars: 500,
				DetailedMethod:   5,
				MethodMinChars:   1000,
				TraumaCentre:     3,
			},
		},
		AI: AIConfig{
			Timeout:         30 * time.Second,
			MaxTokens:       1000,
			Temperature:     0.3,
			FallbackNotices: append([]string(nil), DefaultFallbackNotices...),
		},
		Log: LogConfig{Level: "info"},
	}
}

// EnabledRegulations returns the configured tags, or all of them when none are set.
func (c Config) EnabledRegulations() []Regulation {
	if len(c.Regulations) == 0 {
		return append([]Regulation(nil), RegulationOrder...)
	}
	return c.Regulations
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	// 1. regulations must be known tags
	for _, r := range c.Regulations {
		if _, err := ParseRegulation(string(r)); err != nil {
			return fmt.Errorf("%w in regulations", err)
		}
	}

	// 2. weights must be non-negative and ordered by severity
	w := c.Scoring.Weights
	for name, v := range map[string]int{"critical": w.Critical, "high": w.High, "medium": w.Medium, "low": w.Low} {
		if v < 0 {
			return fmt.Errorf("scoring.weights.%s must be >= 0 (got %d)", name, v)
		}
	}
	if w.Critical < w.High || w.High < w.Medium || w.Medium < w.Low {
		return fmt.Errorf("scoring.weights must satisfy critical >= high >= medium >= low (got %d/%d/%d/%d)",
			w.Critical, w.High, w.Medium, w.Low)
	}

	// 3. bonuses must be non-negative
	b := c.Scoring.Bonuses
	for name, v := range map[string]int{
		"reviewed_by": b.ReviewedBy, "detailed_controls": b.DetailedControls, "controls_min_chars": b.ControlsMinChars,
		"detailed_method": b.DetailedMethod, "method_min_chars": b.MethodMinChars,
		"trauma_centre": b.TraumaCentre,
	} {
		if v < 0 {
			return fmt.Errorf("scoring.bonuses.%s must be >= 0 (got %d)", name, v)
		}
	}

	// 4. provider must be known
	if !contains(ValidProviders, c.AI.Provider) {
		return fmt.Errorf("unknown ai.provider %q (valid: openai, gemini)", c.AI.Provider)
	}

	// 5. AI call must be bounded
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be > 0 (got %s)", c.AI.Timeout)
	}

	// 6. temperature in [0, 2]
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be between 0 and 2 (got %.2f)", c.AI.Temperature)
	}

	// 7. max_tokens positive
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("ai.max_tokens must be > 0 (got %d)", c.AI.MaxTokens)
	}

	// 8. body limit positive
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0 (got %d)", c.Server.MaxBodyBytes)
	}

	// 9. log level known
	if c.Log.Level != "" && !contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("unknown log.level %q (valid: debug, info, warn, error)", c.Log.Level)
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
