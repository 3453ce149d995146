package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/docgen/internal/config"
	"github.com/jonathan/docgen/internal/llm"
	"github.com/jonathan/docgen/internal/pipeline"
	"github.com/jonathan/docgen/internal/render"
)

// buildGenerators creates one generator per configured provider. The
// returned cleanup closes every underlying client.
func buildGenerators(ctx context.Context, cfg config.Config) (map[string]pipeline.DocumentGenerator, func(), error) {
	generators := make(map[string]pipeline.DocumentGenerator)
	var closers []func() error

	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewClient(ctx, llm.ProviderGemini, llm.Options{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		gen := llm.NewGenerator(client)
		generators[string(llm.ProviderGemini)] = gen
		closers = append(closers, gen.Close)
	}

	if cfg.ClaudeAPIKey != "" {
		client, err := llm.NewClient(ctx, llm.ProviderClaude, llm.Options{
			APIKey: cfg.ClaudeAPIKey,
			Model:  cfg.ClaudeModel,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create claude client: %w", err)
		}
		gen := llm.NewGenerator(client)
		generators[string(llm.ProviderClaude)] = gen
		closers = append(closers, gen.Close)
	}

	if len(generators) == 0 {
		return nil, nil, fmt.Errorf("no provider configured: set GEMINI_API_KEY or ANTHROPIC_API_KEY")
	}

	cleanup := func() {
		for _, fn := range closers {
			_ = fn()
		}
	}
	return generators, cleanup, nil
}

func brandingFromConfig(cfg config.Config) render.Branding {
	return render.Branding{
		AccentColor: cfg.AccentColor,
		FontFamily:  cfg.FontFamily,
	}
}

func pdfTimeout(cfg config.Config) time.Duration {
	return time.Duration(cfg.PDFTimeoutSeconds) * time.Second
}

func linkTTL(cfg config.Config) time.Duration {
	return time.Duration(cfg.LinkTTLHours) * time.Hour
}
