package contentcal

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// InvokerCall is one request recorded by ScriptedInvoker.
type InvokerCall struct {
	Model    Model
	Messages []*Message
	Params   map[string]string
}

// ScriptedInvoker replays canned responses in order and records every call.
// Once the script runs out the last response is repeated. Errs, when set,
// are returned for the first len(Errs) calls before any response is used.
type ScriptedInvoker struct {
	Responses []string
	Errs      []error

	mu    sync.Mutex
	calls []InvokerCall
}

// Generate implements Invoker.
func (s *ScriptedInvoker) Generate(ctx context.Context, model Model, messages []*Message, params map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.calls)
	s.calls = append(s.calls, InvokerCall{Model: model, Messages: slices.Clone(messages), Params: maps.Clone(params)})

	if n < len(s.Errs) && s.Errs[n] != nil {
		return "", s.Errs[n]
	}
	if len(s.Responses) == 0 {
		return "", nil
	}
	i := max(n-len(s.Errs), 0)
	return s.Responses[min(i, len(s.Responses)-1)], nil
}

// Calls returns a copy of the recorded calls.
func (s *ScriptedInvoker) Calls() []InvokerCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// NewCrewForTesting creates a Crew on the default model that answers
// every stage from responses.
func NewCrewForTesting(responses ...string) (*Crew, *ScriptedInvoker) {
	inv := &ScriptedInvoker{Responses: responses}
	c, err := NewCrew(inv, DefaultModelConfig())
	if err != nil {
		panic(err)
	}
	return c, inv
}
