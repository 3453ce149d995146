package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/docgen/internal/prompts"
	"github.com/jonathan/docgen/internal/schemas"
	"github.com/jonathan/docgen/internal/types"
)

// Generator turns a low-level Client into the typed generation capability
// the pipeline consumes: structured content out, schema-checked, with token
// accounting and cost calculation.
type Generator struct {
	client Client
}

// NewGenerator wraps a provider client.
func NewGenerator(client Client) *Generator {
	return &Generator{client: client}
}

// GenerateResume produces tailored resume content from the snapshots on the
// record. The model output is validated against the resume schema before it
// is accepted.
func (g *Generator) GenerateResume(ctx context.Context, in prompts.Inputs) (*types.ResumeContent, types.TokenUsage, error) {
	var usage types.TokenUsage

	prompt, err := prompts.BuildResumePrompt(in)
	if err != nil {
		return nil, usage, fmt.Errorf("failed to build resume prompt: %w", err)
	}

	text, usage, err := g.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, usage, fmt.Errorf("resume generation failed: %w", err)
	}

	if err := schemas.ValidateResumeContent(text); err != nil {
		return nil, usage, fmt.Errorf("resume content rejected: %w", err)
	}

	var content types.ResumeContent
	if err := json.Unmarshal([]byte(text), &content); err != nil {
		return nil, usage, fmt.Errorf("failed to parse resume content: %w", err)
	}

	return &content, usage, nil
}

// GenerateCoverLetter produces tailored cover letter content, schema-checked.
func (g *Generator) GenerateCoverLetter(ctx context.Context, in prompts.Inputs) (*types.CoverLetterContent, types.TokenUsage, error) {
	var usage types.TokenUsage

	prompt, err := prompts.BuildCoverLetterPrompt(in)
	if err != nil {
		return nil, usage, fmt.Errorf("failed to build cover letter prompt: %w", err)
	}

	text, usage, err := g.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, usage, fmt.Errorf("cover letter generation failed: %w", err)
	}

	if err := schemas.ValidateCoverLetterContent(text); err != nil {
		return nil, usage, fmt.Errorf("cover letter content rejected: %w", err)
	}

	var content types.CoverLetterContent
	if err := json.Unmarshal([]byte(text), &content); err != nil {
		return nil, usage, fmt.Errorf("failed to parse cover letter content: %w", err)
	}

	return &content, usage, nil
}

// CalculateCost prices the given usage against the wrapped model's table.
func (g *Generator) CalculateCost(usage types.TokenUsage) float64 {
	return CostUSD(g.client.Model(), usage)
}

// Model returns the wrapped model identifier.
func (g *Generator) Model() string {
	return g.client.Model()
}

// Close releases the underlying client.
func (g *Generator) Close() error {
	return g.client.Close()
}
