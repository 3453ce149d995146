package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/docgen/internal/blob"
	"github.com/jonathan/docgen/internal/config"
	"github.com/jonathan/docgen/internal/fetch"
	"github.com/jonathan/docgen/internal/observability"
	"github.com/jonathan/docgen/internal/pipeline"
	"github.com/jonathan/docgen/internal/render"
	"github.com/jonathan/docgen/internal/store"
	"github.com/jonathan/docgen/internal/types"
)

var (
	genType     string
	genRole     string
	genCompany  string
	genJobURL   string
	genJobFile  string
	genName     string
	genEmail    string
	genPhone    string
	genProvider string
	genOutDir   string
	genTone     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run a generation pipeline locally to completion",
	Long:  `Create a generation request against an in-memory store and advance it step by step until it completes or fails. PDFs are written to the output directory.`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genType, "type", "resume", "What to generate: resume, cover_letter, or both")
	generateCmd.Flags().StringVar(&genRole, "role", "", "Target role title (required)")
	generateCmd.Flags().StringVar(&genCompany, "company", "", "Target company (required)")
	generateCmd.Flags().StringVar(&genJobURL, "job-url", "", "URL of the job posting")
	generateCmd.Flags().StringVar(&genJobFile, "job", "", "Path to a job posting text file")
	generateCmd.Flags().StringVar(&genName, "name", "", "Candidate name (required)")
	generateCmd.Flags().StringVar(&genEmail, "email", "", "Candidate email")
	generateCmd.Flags().StringVar(&genPhone, "phone", "", "Candidate phone")
	generateCmd.Flags().StringVar(&genProvider, "provider", "gemini", "AI provider: gemini or claude")
	generateCmd.Flags().StringVar(&genOutDir, "out", "out", "Output directory for PDFs")
	generateCmd.Flags().StringVar(&genTone, "tone", "", "Optional tone hint for generation")
	_ = generateCmd.MarkFlagRequired("role")
	_ = generateCmd.MarkFlagRequired("company")
	_ = generateCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	printer := observability.NewPrinter(os.Stdout)

	cfg := config.FromEnv()

	generators, cleanup, err := buildGenerators(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, ok := generators[genProvider]; !ok {
		return fmt.Errorf("provider %q is not configured", genProvider)
	}

	blobStore, err := blob.NewFSStore(genOutDir)
	if err != nil {
		return err
	}

	recordStore := store.NewMemory()
	engine, err := pipeline.NewEngine(pipeline.Options{
		Store:      recordStore,
		Generators: generators,
		Renderer:   render.NewChrome(pdfTimeout(cfg)),
		Blob:       blobStore,
		Fetcher:    fetch.NewFetcher(0),
		Branding:   brandingFromConfig(cfg),
	})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	job := types.Job{
		Role:              genRole,
		Company:           genCompany,
		JobDescriptionURL: genJobURL,
	}
	if genJobFile != "" {
		text, err := os.ReadFile(genJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job file: %w", err)
		}
		job.JobDescriptionText = string(text)
	}

	var prefs *types.Preferences
	if genTone != "" {
		prefs = &types.Preferences{Tone: genTone}
	}

	rec, err := engine.Initialize(ctx, pipeline.InitializeInput{
		GenerateType: types.GenerateType(genType),
		Job:          job,
		PersonalInfo: types.PersonalInfo{Name: genName, Email: genEmail, Phone: genPhone},
		Preferences:  prefs,
		Provider:     genProvider,
	})
	if err != nil {
		return err
	}

	// Drive the pipeline to a terminal state, one step per call, the same
	// way a polling HTTP client would.
	for {
		res, err := engine.Advance(ctx, rec.ID)
		if err != nil {
			return err
		}

		if res.StepCompleted != "" {
			completed := findStepResult(res.Steps, res.StepCompleted)
			printer.PrintStepCompleted(res.StepCompleted, completed)
		}

		if res.Status == types.RequestFailed {
			printer.PrintFailure(res.Steps, res.FailedStep)
			return fmt.Errorf("generation failed at step %s", res.FailedStep)
		}
		if res.Status == types.RequestCompleted {
			printer.PrintSteps(res.Steps)
			resp, err := recordStore.GetResponse(ctx, rec.ID)
			if err == nil {
				printer.PrintResponseSummary(resp)
			}
			return nil
		}
	}
}

func findStepResult(steps []types.GenerationStep, id types.StepID) string {
	for _, step := range steps {
		if step.ID == id && step.Result != nil {
			return *step.Result
		}
	}
	return ""
}
