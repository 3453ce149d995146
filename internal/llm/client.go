// Package llm provides the AI text-generation capability behind the
// pipeline's generation steps. Two interchangeable providers implement the
// same client contract; the generation record's provider field selects one.
package llm

import (
	"context"
	"fmt"

	"github.com/jonathan/docgen/internal/types"
)

// Provider identifies an LLM provider.
type Provider string

// Supported providers
const (
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
)

// Valid reports whether p names a supported provider.
func (p Provider) Valid() bool {
	return p == ProviderGemini || p == ProviderClaude
}

// Client is the low-level capability a provider exposes: prompt in, JSON
// text plus token accounting out.
type Client interface {
	// GenerateJSON sends the prompt and returns the raw JSON response text
	// with the token usage of the call.
	GenerateJSON(ctx context.Context, prompt string) (string, types.TokenUsage, error)
	// Model returns the model identifier used for generation.
	Model() string
	// Close releases any resources held by the client.
	Close() error
}

// Options configures client construction.
type Options struct {
	APIKey string
	// Model overrides the provider default when non-empty.
	Model string
}

// NewClient creates a client for the given provider.
func NewClient(ctx context.Context, provider Provider, opts Options) (Client, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, opts)
	case ProviderClaude:
		return NewClaudeClient(opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
