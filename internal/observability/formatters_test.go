package observability

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/docgen/internal/types"
)

func TestPrintSteps(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	started := time.Now()
	completed := started.Add(1200 * time.Millisecond)
	duration := completed.Sub(started).Milliseconds()

	p.PrintSteps([]types.GenerationStep{
		{ID: "fetch_data", Name: "Fetch Data", Status: types.StepCompleted, StartedAt: &started, CompletedAt: &completed, DurationMs: &duration},
		{ID: "generate_resume", Name: "Generate Resume", Status: types.StepFailed, Error: &types.StepError{Message: "quota exceeded"}},
		{ID: "create_resume_pdf", Name: "Create Resume PDF", Status: types.StepPending},
	})

	out := buf.String()
	assert.Contains(t, out, "PIPELINE PROGRESS")
	assert.Contains(t, out, "✓ Fetch Data (1200ms)")
	assert.Contains(t, out, "✗ Generate Resume")
	assert.Contains(t, out, "quota exceeded")
	assert.Contains(t, out, "· Create Resume PDF")
}

func TestPrintStepsEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSteps(nil)
	assert.Empty(t, buf.String())
}

func TestPrintStepCompleted(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStepCompleted("fetch_data", "using captured snapshots")
	assert.Equal(t, "✓ fetch_data — using captured snapshots\n", buf.String())

	buf.Reset()
	p.PrintStepCompleted("generate_resume", "")
	assert.Equal(t, "✓ generate_resume\n", buf.String())
}

func TestPrintResponseSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResponseSummary(&types.GenerationResponse{
		Model:      "gemini-2.5-flash",
		TokenUsage: types.TokenUsage{InputTokens: 100, OutputTokens: 50},
		CostUSD:    0.0123,
		ResumeFile: &types.FileReference{Path: "resumes/x.pdf", SizeBytes: 2048},
	})

	out := buf.String()
	assert.Contains(t, out, "GENERATION COMPLETE")
	assert.Contains(t, out, "gemini-2.5-flash")
	assert.Contains(t, out, "100 in / 50 out")
	assert.Contains(t, out, "$0.0123")
	assert.Contains(t, out, "resumes/x.pdf")
}

func TestPrintFailure(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFailure([]types.GenerationStep{
		{ID: "generate_resume", Name: "Generate Resume", Status: types.StepFailed, Error: &types.StepError{Message: "model unavailable"}},
	}, "generate_resume")

	out := buf.String()
	assert.Contains(t, out, "GENERATION FAILED")
	assert.Contains(t, out, "Generate Resume")
	assert.Contains(t, out, "model unavailable")
}
