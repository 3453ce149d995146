// Package pipeline implements the step-driven document generation engine.
// A client creates a generation record, then repeatedly calls Advance; each
// call executes exactly one pending step and persists the result, so every
// invocation stays inside a short request lifetime.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/docgen/internal/blob"
	"github.com/jonathan/docgen/internal/fetch"
	"github.com/jonathan/docgen/internal/pipeline/steps"
	"github.com/jonathan/docgen/internal/prompts"
	"github.com/jonathan/docgen/internal/render"
	"github.com/jonathan/docgen/internal/store"
	"github.com/jonathan/docgen/internal/types"
)

// ErrInvalidRequest indicates the initialization input failed validation.
var ErrInvalidRequest = errors.New("invalid generation request")

// DefaultLinkTTL bounds how long presigned download links stay valid.
const DefaultLinkTTL = 24 * time.Hour

// DocumentGenerator is the AI generation capability consumed by the
// generation steps. *llm.Generator satisfies it; tests substitute fakes.
type DocumentGenerator interface {
	GenerateResume(ctx context.Context, in prompts.Inputs) (*types.ResumeContent, types.TokenUsage, error)
	GenerateCoverLetter(ctx context.Context, in prompts.Inputs) (*types.CoverLetterContent, types.TokenUsage, error)
	CalculateCost(usage types.TokenUsage) float64
	Model() string
}

// CompletionNotifier is told when a generation tied to a job match finishes.
// Notification is best-effort bookkeeping; a notifier error never fails the
// pipeline.
type CompletionNotifier interface {
	GenerationCompleted(ctx context.Context, jobMatchID, requestID uuid.UUID) error
}

// Options wires the engine's collaborators. Store, Generators, Renderer, and
// Blob are required; the rest are optional.
type Options struct {
	Store      store.RecordStore
	Generators map[string]DocumentGenerator
	Renderer   render.Renderer
	Blob       blob.Store
	Fetcher    *fetch.Fetcher
	Notifier   CompletionNotifier
	Branding   render.Branding
	LinkTTL    time.Duration
}

// Engine drives generation records through their step list.
type Engine struct {
	store      store.RecordStore
	generators map[string]DocumentGenerator
	renderer   render.Renderer
	blob       blob.Store
	fetcher    *fetch.Fetcher
	notifier   CompletionNotifier
	branding   render.Branding
	linkTTL    time.Duration
}

// NewEngine creates an Engine from its collaborators.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if len(opts.Generators) == 0 {
		return nil, fmt.Errorf("at least one generator is required")
	}
	if opts.Renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	if opts.Blob == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if opts.LinkTTL <= 0 {
		opts.LinkTTL = DefaultLinkTTL
	}
	return &Engine{
		store:      opts.Store,
		generators: opts.Generators,
		renderer:   opts.Renderer,
		blob:       opts.Blob,
		fetcher:    opts.Fetcher,
		notifier:   opts.Notifier,
		branding:   opts.Branding,
		linkTTL:    opts.LinkTTL,
	}, nil
}

// InitializeInput is everything captured at record creation. The snapshots
// are frozen here; later profile edits never change an in-flight generation.
type InitializeInput struct {
	GenerateType    types.GenerateType
	Job             types.Job
	PersonalInfo    types.PersonalInfo
	Experience      types.ExperienceSnapshot
	Preferences     *types.Preferences
	Provider        string
	JobMatchID      *uuid.UUID
	JobMatchInsight string
}

// Initialize builds the step list for the requested generate type and
// persists the initial record with overall status pending.
func (e *Engine) Initialize(ctx context.Context, in InitializeInput) (*types.GenerationRequest, error) {
	if !in.GenerateType.Valid() {
		return nil, fmt.Errorf("%w: unknown generate type %q", ErrInvalidRequest, in.GenerateType)
	}
	if _, ok := e.generators[in.Provider]; !ok {
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidRequest, in.Provider)
	}
	if in.Job.Role == "" || in.Job.Company == "" {
		return nil, fmt.Errorf("%w: job role and company are required", ErrInvalidRequest)
	}
	if in.PersonalInfo.Name == "" {
		return nil, fmt.Errorf("%w: personal info name is required", ErrInvalidRequest)
	}

	rec := &types.GenerationRequest{
		ID:              uuid.New(),
		GenerateType:    in.GenerateType,
		Job:             in.Job,
		PersonalInfo:    in.PersonalInfo,
		Experience:      in.Experience,
		Preferences:     in.Preferences,
		Provider:        in.Provider,
		JobMatchID:      in.JobMatchID,
		JobMatchInsight: in.JobMatchInsight,
		Status:          types.RequestPending,
		Steps:           steps.Build(in.GenerateType),
		CreatedAt:       time.Now(),
	}

	if err := e.store.CreateRequest(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create generation record: %w", err)
	}
	return rec, nil
}

// AdvanceResult reports the outcome of one advance call.
type AdvanceResult struct {
	StepCompleted  types.StepID           `json:"step_completed,omitempty"`
	NextStep       types.StepID           `json:"next_step,omitempty"`
	FailedStep     types.StepID           `json:"failed_step,omitempty"`
	Status         types.RequestStatus    `json:"status"`
	ResumeURL      string                 `json:"resume_url,omitempty"`
	CoverLetterURL string                 `json:"cover_letter_url,omitempty"`
	Steps          []types.GenerationStep `json:"steps"`
}

// Advance executes exactly one pending step of the record. A record with no
// pending step is terminal; Advance returns its status without side effects.
// Executor failures are folded into the result (the record becomes failed);
// only not-found, conflict, and storage errors come back as Go errors.
func (e *Engine) Advance(ctx context.Context, id uuid.UUID) (*AdvanceResult, error) {
	rec, err := e.store.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	next := steps.NextPending(rec.Steps)
	if next == nil {
		// Terminal, or frozen by a prior failure. Repeat calls are no-ops.
		return e.result(rec, "", ""), nil
	}
	if steps.AnyFailed(rec.Steps) {
		return e.result(rec, "", ""), nil
	}

	if rec.Status == types.RequestPending {
		rec.Status = types.RequestProcessing
	}

	stepID := next.ID
	if rec.Steps, err = steps.Start(rec.Steps, stepID); err != nil {
		return nil, err
	}
	if err := e.store.UpdateRequest(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to claim step %s: %w", stepID, err)
	}

	result, execErr := e.execute(ctx, rec, stepID)
	if execErr != nil {
		log.Printf("[pipeline] request %s: step %s failed: %v", rec.ID, stepID, execErr)
		if rec.Steps, err = steps.Fail(rec.Steps, stepID, stepError(execErr)); err != nil {
			return nil, err
		}
		rec.Status = types.RequestFailed
		if err := e.store.UpdateRequest(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to persist step failure: %w", err)
		}
		return e.result(rec, "", stepID), nil
	}

	if rec.Steps, err = steps.Complete(rec.Steps, stepID, result); err != nil {
		return nil, err
	}
	if steps.NextPending(rec.Steps) == nil {
		rec.Status = types.RequestCompleted
	}
	if err := e.store.UpdateRequest(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to persist step completion: %w", err)
	}

	if rec.Status == types.RequestCompleted {
		e.notifyCompletion(ctx, rec)
	}

	return e.result(rec, stepID, ""), nil
}

// Status is the read-only projection served to pollers.
type Status struct {
	Status    types.RequestStatus    `json:"status"`
	Steps     []types.GenerationStep `json:"steps"`
	CreatedAt time.Time              `json:"created_at"`
}

// GetStatus returns the record's step-level progress. Safe to poll.
func (e *Engine) GetStatus(ctx context.Context, id uuid.UUID) (*Status, error) {
	rec, err := e.store.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Status{Status: rec.Status, Steps: rec.Steps, CreatedAt: rec.CreatedAt}, nil
}

// result assembles the advance response, lifting document links out of the
// PDF steps' results so clients can download before the pipeline finishes.
func (e *Engine) result(rec *types.GenerationRequest, completed, failed types.StepID) *AdvanceResult {
	res := &AdvanceResult{
		StepCompleted: completed,
		FailedStep:    failed,
		Status:        rec.Status,
		Steps:         rec.Steps,
	}
	if next := steps.NextPending(rec.Steps); next != nil && !steps.AnyFailed(rec.Steps) {
		res.NextStep = next.ID
	}
	if step := steps.Find(rec.Steps, steps.CreateResumePDF); step != nil && step.Result != nil {
		res.ResumeURL = *step.Result
	}
	if step := steps.Find(rec.Steps, steps.CreateCoverLetterPDF); step != nil && step.Result != nil {
		res.CoverLetterURL = *step.Result
	}
	return res
}

// notifyCompletion fires the completion notifier for records tied to a job
// match. Failures are logged, never propagated.
func (e *Engine) notifyCompletion(ctx context.Context, rec *types.GenerationRequest) {
	if e.notifier == nil || rec.JobMatchID == nil {
		return
	}
	if err := e.notifier.GenerationCompleted(ctx, *rec.JobMatchID, rec.ID); err != nil {
		log.Printf("[pipeline] request %s: completion notification failed: %v", rec.ID, err)
	}
}
