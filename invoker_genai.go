package contentcal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

const defaultGenAIModel = "gemini-2.0-flash"

// GenerateText generates text using the Gemini API via Google GenAI.
// System messages become the system instruction; user messages the contents.
func GenerateText(ctx context.Context, client *genai.Client, log *slog.Logger, opts ...GenerateOption) (string, error) {
	var cfg generateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if client == nil {
		return "", fmt.Errorf("client not initialized")
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = defaultGenAIModel
	}

	config := &genai.GenerateContentConfig{}
	var system []string
	var contents []*genai.Content
	for _, msg := range cfg.Messages {
		if msg == nil || msg.Text == "" {
			continue
		}
		if msg.Role == "system" {
			system = append(system, msg.Text)
			continue
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, genai.RoleUser))
	}
	if len(contents) == 0 {
		log.Debug("No valid content from messages")
		return "", fmt.Errorf("no valid content provided")
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	s, err := parseSampling(cfg.Parameters)
	if err != nil {
		return "", err
	}
	config.Temperature = s.Temperature
	config.TopK = s.TopK
	config.TopP = s.TopP
	config.MaxOutputTokens = s.MaxTokens

	log.Debug("Generating content", "model", modelName, "content_count", len(contents))
	resp, err := client.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		log.Debug("No candidates in response")
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no parts in candidate content")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text in response")
	}

	log.Debug("Generated content successfully", "response_length", sb.Len())
	return sb.String(), nil
}

// GenAIInvoker calls Gemini models (Google AI or Vertex AI) through google.golang.org/genai.
type GenAIInvoker struct {
	client *genai.Client
	log    *slog.Logger
}

// NewGenAIInvoker wraps an initialised genai client.
func NewGenAIInvoker(client *genai.Client, log *slog.Logger) *GenAIInvoker {
	if log == nil {
		log = slog.Default()
	}
	return &GenAIInvoker{client: client, log: log}
}

func (g *GenAIInvoker) Generate(ctx context.Context, model Model, messages []*Message, params map[string]string) (string, error) {
	return GenerateText(ctx, g.client, g.log,
		WithModelName(string(model)),
		WithMessages(messages...),
		WithParameters(params),
	)
}
