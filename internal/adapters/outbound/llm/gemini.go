package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// GeminiClient implements domain.LLMClient with the Google GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	cfg    GeminiConfig
	logger *zap.Logger
}

// NewGeminiClient creates a client for the Gemini API.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key not configured")
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiClient{client: client, cfg: cfg, logger: logger}, nil
}

// CompleteWithSystem sends the user prompt with the system prompt as the
// system instruction. JSON output is requested since every caller parses it.
func (c *GeminiClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(float32(c.cfg.Temperature)),
		ResponseMIMEType:  "application/json",
	}
	if c.cfg.MaxTokens > 0 {
		config.MaxOutputTokens = int32(c.cfg.MaxTokens)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(userPrompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return "", fmt.Errorf("gemini: no completion returned")
	}

	c.logger.Debug("gemini completion",
		zap.String("model", c.cfg.Model),
		zap.Duration("latency", time.Since(start)),
		zap.Int("response_len", len(content)))
	return content, nil
}
