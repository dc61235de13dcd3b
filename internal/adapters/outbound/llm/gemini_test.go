package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/llm"
	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func ignoreIdleConns() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	}
}

func newGeminiClient(t *testing.T, url string) *llm.GeminiClient {
	t.Helper()
	c, err := llm.NewGeminiClient(context.Background(), llm.GeminiConfig{
		APIKey: "gm-test", BaseURL: url, Model: "gemini-test", MaxTokens: 800, Temperature: 0.2,
	}, nil)
	require.NoError(t, err)
	return c
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

func TestGeminiClient_CompleteWithSystem(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreIdleConns()...)

	var (
		path   string
		apiKey string
		got    struct {
			Contents          []geminiContent `json:"contents"`
			SystemInstruction geminiContent   `json:"systemInstruction"`
			GenerationConfig  struct {
				Temperature      float64 `json:"temperature"`
				MaxOutputTokens  int     `json:"maxOutputTokens"`
				ResponseMIMEType string  `json:"responseMimeType"`
			} `json:"generationConfig"`
		}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		apiKey = r.Header.Get("x-goog-api-key")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  [{\"field\":\"controls\"}]  "}]}}]}`))
	}))
	defer srv.Close()

	out, err := newGeminiClient(t, srv.URL).CompleteWithSystem(context.Background(), "system text", "user text")
	require.NoError(t, err)

	assert.Equal(t, `[{"field":"controls"}]`, out)
	assert.True(t, strings.HasSuffix(path, "/models/gemini-test:generateContent"), path)
	assert.Equal(t, "gm-test", apiKey)

	require.Len(t, got.Contents, 1)
	require.Len(t, got.Contents[0].Parts, 1)
	assert.Equal(t, "user text", got.Contents[0].Parts[0].Text)
	require.Len(t, got.SystemInstruction.Parts, 1)
	assert.Equal(t, "system text", got.SystemInstruction.Parts[0].Text)
	assert.InDelta(t, 0.2, got.GenerationConfig.Temperature, 0.0001)
	assert.Equal(t, 800, got.GenerationConfig.MaxOutputTokens)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMIMEType)
}

func TestGeminiClient_ErrorReply(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreIdleConns()...)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	_, err := newGeminiClient(t, srv.URL).CompleteWithSystem(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini: generate content")
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "API key not valid")
	assert.NotNil(t, errors.Unwrap(err))
}

func TestGeminiClient_EmptyCandidate(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreIdleConns()...)

	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"candidates":[]}`},
		{"blank text", `{"candidates":[{"content":{"role":"model","parts":[{"text":"   "}]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newGeminiClient(t, srv.URL).CompleteWithSystem(context.Background(), "s", "u")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "gemini: no completion returned")
		})
	}
}

func TestNew_GeminiProvider(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreIdleConns()...)

	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"[]"}]}}]}`))
	}))
	defer srv.Close()

	client, err := llm.New(context.Background(), domain.AIConfig{
		Provider: domain.ProviderGemini, APIKey: "gm-test", BaseURL: srv.URL,
	}, nil)
	require.NoError(t, err)
	require.IsType(t, &llm.GeminiClient{}, client)

	out, err := client.CompleteWithSystem(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
	assert.Contains(t, path, "gemini-2.0-flash")
}
