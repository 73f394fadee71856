package contentcal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"google.golang.org/genai"
)

// ErrUnknownProvider is returned by NewInvoker for providers it cannot build.
var ErrUnknownProvider = errors.New("unknown model provider")

const (
	DefaultProvider    = "ollama"
	DefaultModel       = "llama3.2:3b"
	DefaultTemperature = 0.9
)

// ModelConfig selects the model behind the crew.
type ModelConfig struct {
	Provider    string
	Model       string
	Endpoint    string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Params      map[string]string // extra query parameters, passed through to the invoker
}

// DefaultModelConfig is a local Ollama llama3.2:3b at temperature 0.9.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Provider:    DefaultProvider,
		Model:       DefaultModel,
		Endpoint:    DefaultOllamaEndpoint,
		Temperature: DefaultTemperature,
	}
}

// ParseModelSpec parses "provider/model?key=value&...".
// Supports:
//   - "llama3.2:3b" → default provider
//   - "ollama/llama3.2:3b?temperature=0.7"
//   - "googleai/gemini-2.0-flash?maxTokens=4096&topP=0.9"
//   - "vertex/gemini-1.5-pro"
//
// temperature and maxTokens populate their fields; other keys land in Params.
func ParseModelSpec(spec string) (ModelConfig, error) {
	cfg := DefaultModelConfig()
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return cfg, nil
	}

	path, query, hasQuery := strings.Cut(spec, "?")
	if provider, model, ok := strings.Cut(path, "/"); ok {
		cfg.Provider, cfg.Model = strings.ToLower(provider), model
	} else {
		cfg.Model = path
	}
	if cfg.Model == "" {
		return cfg, fmt.Errorf("model spec %q: %w", spec, ErrModelMissing)
	}
	if !isOpenAIProvider(cfg.Provider) {
		cfg.Endpoint = ""
	} else if cfg.Provider == "openai" {
		cfg.Endpoint = "https://api.openai.com/v1"
	}

	if !hasQuery {
		return cfg, nil
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return cfg, fmt.Errorf("model spec %q: %w", spec, err)
	}
	for key := range values {
		v := values.Get(key)
		switch key {
		case "temperature":
			t, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return cfg, fmt.Errorf("invalid temperature parameter '%s': %w", v, err)
			}
			cfg.Temperature = t
		case "maxTokens":
			n, err := strconv.Atoi(v)
			if err != nil {
				return cfg, fmt.Errorf("invalid maxTokens parameter '%s': %w", v, err)
			}
			cfg.MaxTokens = n
		default:
			if cfg.Params == nil {
				cfg.Params = make(map[string]string)
			}
			cfg.Params[key] = v
		}
	}
	return cfg, nil
}

// String formats the config back into spec syntax.
func (c ModelConfig) String() string {
	var sb strings.Builder
	if c.Provider != "" {
		sb.WriteString(c.Provider + "/")
	}
	sb.WriteString(c.Model)
	q := url.Values{}
	q.Set("temperature", strconv.FormatFloat(c.Temperature, 'f', -1, 64))
	if c.MaxTokens > 0 {
		q.Set("maxTokens", strconv.Itoa(c.MaxTokens))
	}
	for k, v := range c.Params {
		q.Set(k, v)
	}
	sb.WriteString("?" + q.Encode())
	return sb.String()
}

// Parameters returns the invoker parameter map for the config.
func (c ModelConfig) Parameters() map[string]string {
	out := map[string]string{"temperature": strconv.FormatFloat(c.Temperature, 'f', -1, 64)}
	if c.MaxTokens > 0 {
		out["maxTokens"] = strconv.Itoa(c.MaxTokens)
	}
	for k, v := range c.Params {
		out[k] = v
	}
	return out
}

func isOpenAIProvider(p string) bool {
	return p == "ollama" || p == "openai"
}

// NewInvoker builds the invoker for cfg.Provider:
// ollama and openai use the chat completions API, googleai/gemini and vertex use genai.
func NewInvoker(ctx context.Context, cfg ModelConfig, log *slog.Logger) (Invoker, error) {
	if log == nil {
		log = slog.Default()
	}
	switch cfg.Provider {
	case "ollama", "openai":
		return NewOpenAIInvoker(cfg.Endpoint, WithAPIKey(cfg.APIKey), WithInvokerLogger(log)), nil
	case "googleai", "gemini", "vertex":
		cc := &genai.ClientConfig{Backend: genai.BackendGeminiAPI, APIKey: cfg.APIKey}
		if cfg.Provider == "vertex" {
			cc = &genai.ClientConfig{Backend: genai.BackendVertexAI}
		}
		client, err := genai.NewClient(ctx, cc)
		if err != nil {
			return nil, fmt.Errorf("genai client: %w", err)
		}
		return NewGenAIInvoker(client, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
