package contentcal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// DefaultOllamaEndpoint is Ollama's OpenAI-compatible API root.
const DefaultOllamaEndpoint = "http://localhost:11434/v1"

var errTransport = errors.New("openai: request failed")

// StatusError is a non-2xx answer from an OpenAI-compatible endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openai: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// OpenAIInvoker calls a /chat/completions endpoint (OpenAI, Ollama, vLLM, ...).
// Transport failures, 5xx and 429 answers are retried with backoff.
type OpenAIInvoker struct {
	client   *http.Client
	endpoint string
	apiKey   string
	log      *slog.Logger

	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// OpenAIOption configures an OpenAIInvoker.
type OpenAIOption func(*OpenAIInvoker)

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) OpenAIOption {
	return func(o *OpenAIInvoker) { o.apiKey = key }
}

// WithHTTPClient replaces the default client (60s timeout).
func WithHTTPClient(c *http.Client) OpenAIOption {
	return func(o *OpenAIInvoker) {
		if c != nil {
			o.client = c
		}
	}
}

// WithHTTPRetry sets the retry budget for a single request. maxRetries 0 disables retries.
func WithHTTPRetry(maxRetries int, baseDelay, maxDelay time.Duration) OpenAIOption {
	return func(o *OpenAIInvoker) {
		o.maxRetries, o.baseDelay, o.maxDelay = maxRetries, baseDelay, maxDelay
	}
}

// WithInvokerLogger sets the logger used for debug output.
func WithInvokerLogger(l *slog.Logger) OpenAIOption {
	return func(o *OpenAIInvoker) {
		if l != nil {
			o.log = l
		}
	}
}

// NewOpenAIInvoker creates an invoker for the API rooted at endpoint
// (for example "https://api.openai.com/v1"). An empty endpoint means local Ollama.
func NewOpenAIInvoker(endpoint string, opts ...OpenAIOption) *OpenAIInvoker {
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultOllamaEndpoint
	}
	o := &OpenAIInvoker{
		client:     &http.Client{Timeout: 60 * time.Second},
		endpoint:   endpoint,
		log:        slog.Default(),
		maxRetries: 3,
		baseDelay:  100 * time.Millisecond,
		maxDelay:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.maxRetries < 0 {
		o.maxRetries = 0
	}
	if o.baseDelay <= 0 {
		o.baseDelay = 100 * time.Millisecond
	}
	if o.maxDelay <= o.baseDelay {
		o.maxDelay = 2 * o.baseDelay
	}
	return o
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature *float32      `json:"temperature,omitempty"`
	TopP        *float32      `json:"top_p,omitempty"`
	MaxTokens   int32         `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenAIInvoker) Generate(ctx context.Context, model Model, messages []*Message, params map[string]string) (string, error) {
	if model == "" {
		return "", ErrModelMissing
	}
	s, err := parseSampling(params)
	if err != nil {
		return "", err
	}

	req := chatRequest{
		Model:       string(model),
		Temperature: s.Temperature,
		TopP:        s.TopP,
		MaxTokens:   s.MaxTokens,
	}
	for _, m := range messages {
		if m == nil || m.Text == "" {
			continue
		}
		req.Messages = append(req.Messages, chatMessage{Role: m.Role, Content: m.Text})
	}
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("no valid content provided")
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	policy := retrypolicy.NewBuilder[string]().
		WithBackoff(o.baseDelay, o.maxDelay).
		WithMaxRetries(o.maxRetries).
		WithJitterFactor(0.1).
		HandleIf(func(_ string, err error) bool { return shouldRetry(ctx, err) }).
		OnRetry(func(e failsafe.ExecutionEvent[string]) {
			o.log.Debug("retrying chat completion", "model", model, "attempt", e.Attempts(), "error", e.LastError())
		}).
		Build()

	return failsafe.With(policy).WithContext(ctx).Get(func() (string, error) {
		return o.post(ctx, payload)
	})
}

func (o *OpenAIInvoker) post(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}
	o.log.Debug("chat completion received", "response_length", len(out.Choices[0].Message.Content))
	return out.Choices[0].Message.Content, nil
}

// shouldRetry retries transport failures and retryable statuses, never a
// cancelled or expired context.
func shouldRetry(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return errors.Is(err, errTransport)
}
