package llm

import (
	"context"
	"fmt"

	"github.com/Hannlytics/rams-generator/internal/domain"
	"go.uber.org/zap"
)

// New builds the client for cfg.Provider. It returns a nil client and no
// error when AI is not configured, which the advisor reports as disabled.
func New(ctx context.Context, cfg domain.AIConfig, logger *zap.Logger) (domain.LLMClient, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	var (
		client domain.LLMClient
		err    error
	)
	switch cfg.Provider {
	case domain.ProviderOpenAI:
		client, err = openAI(cfg, logger)
	case domain.ProviderGemini:
		client, err = gemini(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown ai.provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

func openAI(cfg domain.AIConfig, logger *zap.Logger) (domain.LLMClient, error) {
	c, err := NewOpenAIClient(OpenAIConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func gemini(ctx context.Context, cfg domain.AIConfig, logger *zap.Logger) (domain.LLMClient, error) {
	c, err := NewGeminiClient(ctx, GeminiConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}
