package contentcal

import (
	"context"
)

// Model represents a model identifier
type Model string

// Runner lets Generator schedule work with any concurrency model.
type Runner interface {
	Go(fn func() error) // schedule
	Wait() error        // join / propagate first err
}

// PromptProvider should return the prompt template text for the given tag
type PromptProvider interface {
	GetPrompt(tag string, version int) (string, error)
}

// TemplateProvider extends PromptProvider with per-call template variables.
type TemplateProvider interface {
	PromptProvider
	RenderPrompt(tag string, vars map[string]any) (string, error)
}

// Invoker abstraction allows mocking, retrying, and caching
type Invoker interface {
	Generate(ctx context.Context, model Model, messages []*Message, params map[string]string) (string, error)
}

// Producer turns a brand brief into the free-form text the Extractor consumes.
type Producer interface {
	Execute(ctx context.Context, brief string) (string, error)
}

// Message is one turn of a chat-style model request.
type Message struct {
	Role string
	Text string
}

// NewUserMessage creates a new user message
func NewUserMessage(text string) *Message {
	return &Message{Role: "user", Text: text}
}

// NewSystemMessage creates a new system message
func NewSystemMessage(text string) *Message {
	return &Message{Role: "system", Text: text}
}
