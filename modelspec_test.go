package contentcal

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelSpec(t *testing.T) {
	tests := []struct {
		spec     string
		provider string
		model    string
		endpoint string
		temp     float64
		maxTok   int
		params   map[string]string
	}{
		{"", "ollama", "llama3.2:3b", DefaultOllamaEndpoint, 0.9, 0, nil},
		{"llama3.2:3b", "ollama", "llama3.2:3b", DefaultOllamaEndpoint, 0.9, 0, nil},
		{"ollama/mistral?temperature=0.7", "ollama", "mistral", DefaultOllamaEndpoint, 0.7, 0, nil},
		{"OpenAI/gpt-4o-mini?maxTokens=4096", "openai", "gpt-4o-mini", "https://api.openai.com/v1", 0.9, 4096, nil},
		{"googleai/gemini-2.0-flash?topP=0.9&topK=20", "googleai", "gemini-2.0-flash", "", 0.9, 0, map[string]string{"topP": "0.9", "topK": "20"}},
		{"vertex/gemini-1.5-pro", "vertex", "gemini-1.5-pro", "", 0.9, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			cfg, err := ParseModelSpec(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.provider, cfg.Provider)
			assert.Equal(t, tt.model, cfg.Model)
			assert.Equal(t, tt.endpoint, cfg.Endpoint)
			assert.InDelta(t, tt.temp, cfg.Temperature, 1e-9)
			assert.Equal(t, tt.maxTok, cfg.MaxTokens)
			assert.Equal(t, tt.params, cfg.Params)
		})
	}
}

func TestParseModelSpec_Errors(t *testing.T) {
	_, err := ParseModelSpec("ollama/")
	assert.ErrorIs(t, err, ErrModelMissing)

	_, err = ParseModelSpec("ollama/m?temperature=hot")
	assert.ErrorContains(t, err, "invalid temperature parameter 'hot'")

	_, err = ParseModelSpec("ollama/m?maxTokens=lots")
	assert.ErrorContains(t, err, "invalid maxTokens parameter 'lots'")

	_, err = ParseModelSpec("ollama/m?%zz")
	assert.Error(t, err)
}

func TestModelConfig_StringRoundTrip(t *testing.T) {
	cfg, err := ParseModelSpec("googleai/gemini-2.0-flash?temperature=0.4&maxTokens=100&topP=0.8")
	require.NoError(t, err)
	assert.Equal(t, "googleai/gemini-2.0-flash?maxTokens=100&temperature=0.4&topP=0.8", cfg.String())

	again, err := ParseModelSpec(cfg.String())
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestModelConfig_Parameters(t *testing.T) {
	cfg := DefaultModelConfig()
	cfg.MaxTokens = 256
	cfg.Params = map[string]string{"topK": "10"}

	assert.Equal(t, map[string]string{
		"temperature": "0.9",
		"maxTokens":   "256",
		"topK":        "10",
	}, cfg.Parameters())
}

func TestNewInvoker(t *testing.T) {
	ctx := context.Background()

	inv, err := NewInvoker(ctx, DefaultModelConfig(), nil)
	require.NoError(t, err)
	oa, ok := inv.(*OpenAIInvoker)
	require.True(t, ok, "got %T", inv)
	assert.Equal(t, DefaultOllamaEndpoint, oa.endpoint)

	cfg := DefaultModelConfig()
	cfg.Provider, cfg.APIKey = "googleai", "test-key"
	inv, err = NewInvoker(ctx, cfg, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &GenAIInvoker{}, inv)

	cfg.Provider = "anthropic"
	_, err = NewInvoker(ctx, cfg, nil)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
