package contentcal

import (
	"fmt"
	"strconv"
)

// GenerateOption represents options for generation
type GenerateOption func(*generateConfig)

type generateConfig struct {
	ModelName  string
	Messages   []*Message
	Parameters map[string]string // query parameters from the model spec
}

// WithModelName sets the model name
func WithModelName(name string) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.ModelName = name
	}
}

// WithMessages sets the messages
func WithMessages(messages ...*Message) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.Messages = messages
	}
}

// WithParameters sets the model parameters from model spec query params
func WithParameters(params map[string]string) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.Parameters = params
	}
}

// sampling holds validated generation parameters. Nil/zero means unset.
type sampling struct {
	Temperature *float32
	TopK        *float32
	TopP        *float32
	MaxTokens   int32
}

// parseSampling validates the recognised keys of params; unknown keys are ignored.
func parseSampling(params map[string]string) (sampling, error) {
	var s sampling
	if temp, ok := params["temperature"]; ok {
		v, err := strconv.ParseFloat(temp, 32)
		if err != nil {
			return s, fmt.Errorf("invalid temperature parameter '%s': %w", temp, err)
		}
		if v < 0 || v > 2 {
			return s, fmt.Errorf("temperature parameter '%v' must be between 0.0 and 2.0", v)
		}
		f := float32(v)
		s.Temperature = &f
	}
	if topK, ok := params["topK"]; ok {
		v, err := strconv.ParseFloat(topK, 32)
		if err != nil {
			return s, fmt.Errorf("invalid topK parameter '%s': %w", topK, err)
		}
		if v <= 0 {
			return s, fmt.Errorf("topK parameter '%v' must be greater than 0", v)
		}
		f := float32(v)
		s.TopK = &f
	}
	if topP, ok := params["topP"]; ok {
		v, err := strconv.ParseFloat(topP, 32)
		if err != nil {
			return s, fmt.Errorf("invalid topP parameter '%s': %w", topP, err)
		}
		if v < 0 || v > 1 {
			return s, fmt.Errorf("topP parameter '%v' must be between 0.0 and 1.0", v)
		}
		f := float32(v)
		s.TopP = &f
	}
	for _, key := range []string{"maxTokens", "maxOutputTokens"} {
		raw, ok := params[key]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return s, fmt.Errorf("invalid %s parameter '%s': %w", key, raw, err)
		}
		if n <= 0 {
			return s, fmt.Errorf("%s parameter '%d' must be greater than 0", key, n)
		}
		s.MaxTokens = int32(n)
	}
	return s, nil
}
