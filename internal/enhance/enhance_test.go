package enhance

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubEnhancer struct {
	out string
	err error
}

func (s *stubEnhancer) Rewrite(context.Context, Config) (string, error) {
	return s.out, s.err
}

func TestForProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantNil  bool
		wantErr  bool
	}{
		{name: "disabled", provider: "", wantNil: true},
		{name: "gemini", provider: "gemini"},
		{name: "openai", provider: "openai"},
		{name: "ollama", provider: "ollama"},
		{name: "unknown", provider: "groq", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ForProvider(tt.provider)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ForProvider: %v", err)
			}
			if tt.wantNil && e != nil {
				t.Error("Expected nil enhancer when disabled")
			}
			if !tt.wantNil && e == nil {
				t.Error("Expected an enhancer")
			}
		})
	}
}

func TestRewriteFallsBackToOriginal(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		enhancer Enhancer
		want     string
	}{
		{name: "nil enhancer", enhancer: nil, want: "a cat"},
		{name: "provider error", enhancer: &stubEnhancer{err: errors.New("unreachable")}, want: "a cat"},
		{name: "empty response", enhancer: &stubEnhancer{out: "  \n"}, want: "a cat"},
		{name: "successful rewrite", enhancer: &stubEnhancer{out: " a majestic cat at dusk "}, want: "a majestic cat at dusk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rewrite(ctx, tt.enhancer, "some-model", "a cat")
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRewritePassesInstruction(t *testing.T) {
	var seen Config
	capture := enhancerFunc(func(_ context.Context, cfg Config) (string, error) {
		seen = cfg
		return "ok", nil
	})

	Rewrite(context.Background(), capture, "m1", "a cat")

	if seen.Model != "m1" {
		t.Errorf("Expected model m1, got %q", seen.Model)
	}
	if !strings.HasSuffix(seen.Prompt, "a cat") || len(seen.Prompt) <= len("a cat") {
		t.Errorf("Expected instruction prefix before the prompt, got %q", seen.Prompt)
	}
}

type enhancerFunc func(context.Context, Config) (string, error)

func (f enhancerFunc) Rewrite(ctx context.Context, cfg Config) (string, error) {
	return f(ctx, cfg)
}
