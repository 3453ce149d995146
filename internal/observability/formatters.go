// Package observability provides formatted progress output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/docgen/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
)

// Printer handles formatted pipeline progress output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// statusGlyph maps a step status to a one-character progress marker.
func statusGlyph(status types.StepStatus) string {
	switch status {
	case types.StepCompleted:
		return "✓"
	case types.StepFailed:
		return "✗"
	case types.StepInProgress:
		return "▶"
	case types.StepSkipped:
		return "-"
	default:
		return "·"
	}
}

// PrintSteps outputs the step list with status, timing, and errors.
func (p *Printer) PrintSteps(steps []types.GenerationStep) {
	if len(steps) == 0 {
		return
	}

	var sb strings.Builder
	for _, step := range steps {
		sb.WriteString(fmt.Sprintf("%s %s", statusGlyph(step.Status), step.Name))
		if step.DurationMs != nil {
			sb.WriteString(fmt.Sprintf(" (%dms)", *step.DurationMs))
		}
		sb.WriteString("\n")
		if step.Error != nil {
			msg := step.Error.Message
			if len(msg) > 48 {
				msg = msg[:45] + "..."
			}
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", msg))
		}
	}

	p.printBox("PIPELINE PROGRESS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStepCompleted outputs a single-line progress note after one advance.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStepCompleted(id types.StepID, result string) {
	if result != "" {
		fmt.Fprintf(p.out, "✓ %s — %s\n", id, result)
		return
	}
	fmt.Fprintf(p.out, "✓ %s\n", id)
}

// PrintResponseSummary outputs the final accounting for a completed run.
func (p *Printer) PrintResponseSummary(resp *types.GenerationResponse) {
	if resp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Model:   %s\n", resp.Model))
	sb.WriteString(fmt.Sprintf("Tokens:  %d in / %d out\n", resp.TokenUsage.InputTokens, resp.TokenUsage.OutputTokens))
	sb.WriteString(fmt.Sprintf("Cost:    $%.4f\n", resp.CostUSD))

	if resp.ResumeFile != nil {
		sb.WriteString(fmt.Sprintf("\nResume PDF:       %s (%d bytes)\n", resp.ResumeFile.Path, resp.ResumeFile.SizeBytes))
	}
	if resp.CoverLetterFile != nil {
		sb.WriteString(fmt.Sprintf("Cover Letter PDF: %s (%d bytes)\n", resp.CoverLetterFile.Path, resp.CoverLetterFile.SizeBytes))
	}

	p.printBox("GENERATION COMPLETE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFailure outputs which stage failed and why.
func (p *Printer) PrintFailure(steps []types.GenerationStep, failedID types.StepID) {
	var sb strings.Builder
	for _, step := range steps {
		if step.ID != failedID {
			continue
		}
		sb.WriteString(fmt.Sprintf("Failed stage: %s\n", step.Name))
		if step.Error != nil {
			sb.WriteString(fmt.Sprintf("Reason: %s", step.Error.Message))
		}
	}
	if sb.Len() == 0 {
		sb.WriteString(fmt.Sprintf("Failed stage: %s", failedID))
	}
	p.printBox("GENERATION FAILED", sb.String())
}
