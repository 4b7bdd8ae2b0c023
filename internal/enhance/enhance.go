// Package enhance optionally rewrites a raw user prompt into a richer
// image-generation prompt through an LLM provider. Enhancement is best
// effort: any failure means the original prompt is used unchanged.
package enhance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Config represents the configuration for an enhancement call
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
}

// Enhancer defines the interface for an LLM prompt rewriter
type Enhancer interface {
	Rewrite(ctx context.Context, config Config) (string, error)
}

const instruction = `Rewrite the following image generation prompt to be vivid and specific: add style, lighting, composition and mood details while preserving the subject. Respond with the rewritten prompt only, no commentary.

Prompt: `

// ForProvider returns the enhancer for a provider name, or nil when
// name is empty (enhancement disabled).
func ForProvider(name string) (Enhancer, error) {
	switch name {
	case "":
		return nil, nil
	case "gemini":
		return NewGemini(), nil
	case "openai":
		return NewOpenAI(), nil
	case "ollama":
		return NewOllama(), nil
	default:
		return nil, fmt.Errorf("unknown enhancement provider %q (supported: gemini, openai, ollama)", name)
	}
}

// Rewrite runs the enhancer and falls back to the original prompt on
// any failure or empty response.
func Rewrite(ctx context.Context, e Enhancer, model, prompt string) string {
	if e == nil {
		return prompt
	}
	out, err := e.Rewrite(ctx, Config{
		Model:       model,
		Temperature: 0.4,
		Prompt:      instruction + prompt,
	})
	if err != nil {
		slog.Warn("Prompt enhancement failed, using original prompt", "err", err)
		return prompt
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return prompt
	}
	return out
}
