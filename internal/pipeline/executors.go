package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/docgen/internal/pipeline/steps"
	"github.com/jonathan/docgen/internal/prompts"
	"github.com/jonathan/docgen/internal/types"
)

// Step error codes recorded on failed steps.
const (
	codePrecondition = "precondition"
	codeCapability   = "capability_failure"
)

// PreconditionError indicates a step ran without the data an earlier step
// should have produced. Given the fixed catalog this is a sequencing defect,
// so it fails loudly instead of producing an empty document.
type PreconditionError struct {
	Missing string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %s not found", e.Missing)
}

// stepError classifies an executor failure for the step record.
func stepError(err error) types.StepError {
	code := codeCapability
	var precondition *PreconditionError
	if errors.As(err, &precondition) {
		code = codePrecondition
	}
	return types.StepError{Message: err.Error(), Code: code}
}

// execute dispatches to the executor for the step id. Executors mutate the
// record's intermediate results in place and return the step result string;
// the caller owns persistence and step-status transitions.
func (e *Engine) execute(ctx context.Context, rec *types.GenerationRequest, id types.StepID) (string, error) {
	switch id {
	case steps.FetchData:
		return e.executeFetchData(ctx, rec)
	case steps.GenerateResume:
		return e.executeGenerateResume(ctx, rec)
	case steps.GenerateCoverLetter:
		return e.executeGenerateCoverLetter(ctx, rec)
	case steps.CreateResumePDF:
		return e.executeCreateResumePDF(ctx, rec)
	case steps.CreateCoverLetterPDF:
		return e.executeCreateCoverLetterPDF(ctx, rec)
	case steps.UploadDocuments:
		return e.executeFinalize(ctx, rec)
	}
	return "", &steps.ErrUnknownStep{ID: id}
}

// executeFetchData enriches the job snapshot from the posting URL when no
// inline description was captured. The snapshots taken at creation are the
// source of truth, so this step always succeeds; a fetch problem only
// downgrades to a note in the step result.
func (e *Engine) executeFetchData(ctx context.Context, rec *types.GenerationRequest) (string, error) {
	if rec.Job.JobDescriptionText != "" || rec.Job.JobDescriptionURL == "" || e.fetcher == nil {
		return "using captured snapshots", nil
	}

	text, err := e.fetcher.JobDescription(ctx, rec.Job.JobDescriptionURL)
	if err != nil {
		return fmt.Sprintf("job description fetch skipped: %v", err), nil
	}
	rec.Job.JobDescriptionText = text
	return fmt.Sprintf("fetched job description (%d chars)", len(text)), nil
}

func (e *Engine) executeGenerateResume(ctx context.Context, rec *types.GenerationRequest) (string, error) {
	gen, err := e.generatorFor(rec.Provider)
	if err != nil {
		return "", err
	}

	content, usage, err := gen.GenerateResume(ctx, promptInputs(rec))
	if err != nil {
		return "", err
	}

	rec.Intermediate.ResumeContent = content
	rec.Intermediate.ResumeTokenUsage = &usage
	rec.Intermediate.Model = gen.Model()
	return fmt.Sprintf("generated resume content (%d tokens)", usage.Total()), nil
}

func (e *Engine) executeGenerateCoverLetter(ctx context.Context, rec *types.GenerationRequest) (string, error) {
	gen, err := e.generatorFor(rec.Provider)
	if err != nil {
		return "", err
	}

	content, usage, err := gen.GenerateCoverLetter(ctx, promptInputs(rec))
	if err != nil {
		return "", err
	}

	rec.Intermediate.CoverLetterContent = content
	rec.Intermediate.CoverLetterTokenUsage = &usage
	rec.Intermediate.Model = gen.Model()
	return fmt.Sprintf("generated cover letter content (%d tokens)", usage.Total()), nil
}

// executeCreateResumePDF renders the generated resume, uploads it, and
// attaches a presigned link as the step result so the client can start the
// download before the pipeline finishes.
func (e *Engine) executeCreateResumePDF(ctx context.Context, rec *types.GenerationRequest) (string, error) {
	content := rec.Intermediate.ResumeContent
	if content == nil {
		return "", &PreconditionError{Missing: "resume content"}
	}

	pdf, err := e.renderer.RenderResume(ctx, content, rec.PersonalInfo, e.branding)
	if err != nil {
		return "", fmt.Errorf("failed to render resume PDF: %w", err)
	}

	ref, err := e.uploadDocument(ctx, rec, pdf, "resume", "resumes")
	if err != nil {
		return "", err
	}
	rec.Intermediate.ResumeFile = ref
	return ref.URL, nil
}

func (e *Engine) executeCreateCoverLetterPDF(ctx context.Context, rec *types.GenerationRequest) (string, error) {
	content := rec.Intermediate.CoverLetterContent
	if content == nil {
		return "", &PreconditionError{Missing: "cover letter content"}
	}

	pdf, err := e.renderer.RenderCoverLetter(ctx, content, rec.PersonalInfo, rec.Job, e.branding)
	if err != nil {
		return "", fmt.Errorf("failed to render cover letter PDF: %w", err)
	}

	ref, err := e.uploadDocument(ctx, rec, pdf, "cover_letter", "cover_letters")
	if err != nil {
		return "", err
	}
	rec.Intermediate.CoverLetterFile = ref
	return ref.URL, nil
}

// executeFinalize aggregates token usage and cost and records the immutable
// response. Documents were already uploaded by the PDF steps; nothing is
// re-uploaded here.
func (e *Engine) executeFinalize(ctx context.Context, rec *types.GenerationRequest) (string, error) {
	gen, err := e.generatorFor(rec.Provider)
	if err != nil {
		return "", err
	}

	var usage types.TokenUsage
	if rec.Intermediate.ResumeTokenUsage != nil {
		usage = usage.Add(*rec.Intermediate.ResumeTokenUsage)
	}
	if rec.Intermediate.CoverLetterTokenUsage != nil {
		usage = usage.Add(*rec.Intermediate.CoverLetterTokenUsage)
	}
	cost := gen.CalculateCost(usage)

	resp := &types.GenerationResponse{
		ID:                 uuid.New(),
		RequestID:          rec.ID,
		ResumeContent:      rec.Intermediate.ResumeContent,
		CoverLetterContent: rec.Intermediate.CoverLetterContent,
		Model:              rec.Intermediate.Model,
		TokenUsage:         usage,
		CostUSD:            cost,
		ResumeFile:         rec.Intermediate.ResumeFile,
		CoverLetterFile:    rec.Intermediate.CoverLetterFile,
		CreatedAt:          time.Now(),
	}
	if err := e.store.CreateResponse(ctx, resp); err != nil {
		return "", fmt.Errorf("failed to record generation response: %w", err)
	}

	return fmt.Sprintf("recorded response (%d tokens, $%.4f)", usage.Total(), cost), nil
}

// uploadDocument stores PDF bytes and returns a file reference with a
// presigned download link.
func (e *Engine) uploadDocument(ctx context.Context, rec *types.GenerationRequest, pdf []byte, kind, category string) (*types.FileReference, error) {
	name := fmt.Sprintf("%s_%s.pdf", rec.ID, kind)

	obj, err := e.blob.Upload(ctx, pdf, name, category)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s PDF: %w", kind, err)
	}

	url, err := e.blob.PresignLink(ctx, obj.Path, e.linkTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign %s link: %w", kind, err)
	}

	return &types.FileReference{
		Path:      obj.Path,
		URL:       url,
		ExpiresAt: time.Now().Add(e.linkTTL),
		SizeBytes: obj.SizeBytes,
	}, nil
}

func (e *Engine) generatorFor(provider string) (DocumentGenerator, error) {
	gen, ok := e.generators[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
	return gen, nil
}

// promptInputs assembles the generation inputs from the record's snapshots.
func promptInputs(rec *types.GenerationRequest) prompts.Inputs {
	return prompts.Inputs{
		Job:          rec.Job,
		PersonalInfo: rec.PersonalInfo,
		Experience:   rec.Experience,
		Preferences:  rec.Preferences,
		Insight:      rec.JobMatchInsight,
	}
}
