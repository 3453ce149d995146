package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/docgen/internal/blob"
	"github.com/jonathan/docgen/internal/pipeline/steps"
	"github.com/jonathan/docgen/internal/prompts"
	"github.com/jonathan/docgen/internal/render"
	"github.com/jonathan/docgen/internal/store"
	"github.com/jonathan/docgen/internal/types"
)

// fakeGenerator is a DocumentGenerator with scriptable failures.
type fakeGenerator struct {
	resumeErr      error
	coverLetterErr error
	resumeCalls    int
	coverCalls     int
}

func (f *fakeGenerator) GenerateResume(ctx context.Context, in prompts.Inputs) (*types.ResumeContent, types.TokenUsage, error) {
	f.resumeCalls++
	if f.resumeErr != nil {
		return nil, types.TokenUsage{}, f.resumeErr
	}
	content := &types.ResumeContent{
		Summary: fmt.Sprintf("Tailored for %s at %s", in.Job.Role, in.Job.Company),
		Skills:  []string{"Go"},
		Experience: []types.ResumeExperience{
			{Company: "Acme", Title: "Engineer", Bullets: []string{"Built things"}},
		},
	}
	return content, types.TokenUsage{InputTokens: 100, OutputTokens: 50}, nil
}

func (f *fakeGenerator) GenerateCoverLetter(ctx context.Context, in prompts.Inputs) (*types.CoverLetterContent, types.TokenUsage, error) {
	f.coverCalls++
	if f.coverLetterErr != nil {
		return nil, types.TokenUsage{}, f.coverLetterErr
	}
	content := &types.CoverLetterContent{
		Greeting:   "Dear Hiring Manager,",
		Paragraphs: []string{"I am a fit."},
		Closing:    "Sincerely",
	}
	return content, types.TokenUsage{InputTokens: 80, OutputTokens: 40}, nil
}

func (f *fakeGenerator) CalculateCost(usage types.TokenUsage) float64 {
	return float64(usage.Total()) * 0.0001
}

func (f *fakeGenerator) Model() string { return "fake-model-1" }

// fakeRenderer records the content it was handed so round-trip tests can
// compare it with what generation wrote.
type fakeRenderer struct {
	renderErr       error
	lastResume      *types.ResumeContent
	lastCoverLetter *types.CoverLetterContent
}

func (f *fakeRenderer) RenderResume(ctx context.Context, content *types.ResumeContent, info types.PersonalInfo, branding render.Branding) ([]byte, error) {
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	f.lastResume = content
	return []byte("%PDF resume"), nil
}

func (f *fakeRenderer) RenderCoverLetter(ctx context.Context, content *types.CoverLetterContent, info types.PersonalInfo, job types.Job, branding render.Branding) ([]byte, error) {
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	f.lastCoverLetter = content
	return []byte("%PDF cover letter"), nil
}

type fakeBlob struct {
	uploads []string
}

func (f *fakeBlob) Upload(ctx context.Context, data []byte, name, category string) (blob.Object, error) {
	path := category + "/" + name
	f.uploads = append(f.uploads, path)
	return blob.Object{Path: path, SizeBytes: int64(len(data))}, nil
}

func (f *fakeBlob) PresignLink(ctx context.Context, path string, expiresIn time.Duration) (string, error) {
	return "https://files.test/" + path, nil
}

type fakeNotifier struct {
	jobMatchIDs []uuid.UUID
}

func (f *fakeNotifier) GenerationCompleted(ctx context.Context, jobMatchID, requestID uuid.UUID) error {
	f.jobMatchIDs = append(f.jobMatchIDs, jobMatchID)
	return nil
}

type testEnv struct {
	engine   *Engine
	store    *store.Memory
	gen      *fakeGenerator
	renderer *fakeRenderer
	blob     *fakeBlob
	notifier *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:    store.NewMemory(),
		gen:      &fakeGenerator{},
		renderer: &fakeRenderer{},
		blob:     &fakeBlob{},
		notifier: &fakeNotifier{},
	}
	engine, err := NewEngine(Options{
		Store:      env.store,
		Generators: map[string]DocumentGenerator{"fake": env.gen},
		Renderer:   env.renderer,
		Blob:       env.blob,
		Notifier:   env.notifier,
	})
	require.NoError(t, err)
	env.engine = engine
	return env
}

func initializeInput(generateType types.GenerateType) InitializeInput {
	return InitializeInput{
		GenerateType: generateType,
		Job:          types.Job{Role: "Backend Engineer", Company: "Initech"},
		PersonalInfo: types.PersonalInfo{Name: "Jane Doe", Email: "jane@example.com"},
		Experience: types.ExperienceSnapshot{
			Entries: []types.ExperienceEntry{{Company: "Acme", Title: "Engineer", StartDate: "2020-01"}},
		},
		Provider: "fake",
	}
}

func TestInitializeRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)
	in := initializeInput("poem")
	_, err := env.engine.Initialize(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestInitializeRejectsUnknownProvider(t *testing.T) {
	env := newTestEnv(t)
	in := initializeInput(types.GenerateResume)
	in.Provider = "oracle"
	_, err := env.engine.Initialize(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestAdvanceUnknownRecord(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.engine.Advance(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// Scenario: resume only, every capability succeeds. Four advances walk
// fetch_data, generate_resume, create_resume_pdf, upload_documents and leave
// a completed record plus a response with resume content.
func TestAdvanceResumeEndToEnd(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	rec, err := env.engine.Initialize(ctx, initializeInput(types.GenerateResume))
	require.NoError(t, err)
	assert.Equal(t, types.RequestPending, rec.Status)
	require.Len(t, rec.Steps, 4)

	expected := []types.StepID{
		steps.FetchData, steps.GenerateResume, steps.CreateResumePDF, steps.UploadDocuments,
	}
	for i, want := range expected {
		res, err := env.engine.Advance(ctx, rec.ID)
		require.NoError(t, err, "advance %d", i+1)
		assert.Equal(t, want, res.StepCompleted, "advance %d", i+1)
		if i < len(expected)-1 {
			assert.Equal(t, expected[i+1], res.NextStep)
			assert.Equal(t, types.RequestProcessing, res.Status)
		} else {
			assert.Empty(t, res.NextStep)
			assert.Equal(t, types.RequestCompleted, res.Status)
			assert.Equal(t, "https://files.test/resumes/"+rec.ID.String()+"_resume.pdf", res.ResumeURL)
			assert.Empty(t, res.CoverLetterURL)
		}
	}

	resp, err := env.store.GetResponse(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.ResumeContent)
	assert.NotEmpty(t, resp.ResumeContent.Summary)
	assert.Nil(t, resp.CoverLetterContent)
	assert.Equal(t, 150, resp.TokenUsage.Total())
	assert.InDelta(t, 0.015, resp.CostUSD, 1e-9)
	assert.Equal(t, "fake-model-1", resp.Model)
	require.NotNil(t, resp.ResumeFile)
	assert.Equal(t, int64(len("%PDF resume")), resp.ResumeFile.SizeBytes)
}

// Scenario: both documents. Exactly six steps in the fixed order; six
// advances reach completed with both download links.
func TestAdvanceBothEndToEnd(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	rec, err := env.engine.Initialize(ctx, initializeInput(types.GenerateBoth))
	require.NoError(t, err)

	expected := []types.StepID{
		steps.FetchData,
		steps.GenerateResume,
		steps.GenerateCoverLetter,
		steps.CreateResumePDF,
		steps.CreateCoverLetterPDF,
		steps.UploadDocuments,
	}
	require.Len(t, rec.Steps, len(expected))

	var last *AdvanceResult
	for i, want := range expected {
		res, err := env.engine.Advance(ctx, rec.ID)
		require.NoError(t, err, "advance %d", i+1)
		assert.Equal(t, want, res.StepCompleted)
		last = res
	}

	assert.Equal(t, types.RequestCompleted, last.Status)
	assert.NotEmpty(t, last.ResumeURL)
	assert.NotEmpty(t, last.CoverLetterURL)
	assert.Len(t, env.blob.uploads, 2)
}

// Scenario: the AI capability fails on the second advance. The record
// becomes failed, later steps stay pending forever, and further advances
// are no-ops that never re-invoke an executor.
func TestAdvanceFailureFreezesPipeline(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.gen.resumeErr = errors.New("quota exceeded")

	rec, err := env.engine.Initialize(ctx, initializeInput(types.GenerateResume))
	require.NoError(t, err)

	res, err := env.engine.Advance(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, steps.FetchData, res.StepCompleted)

	res, err = env.engine.Advance(ctx, rec.ID)
	require.NoError(t, err, "executor failures fold into the result, not the error")
	assert.Equal(t, types.RequestFailed, res.Status)
	assert.Equal(t, steps.GenerateResume, res.FailedStep)
	assert.Empty(t, res.NextStep)

	failed := findStep(t, res.Steps, steps.GenerateResume)
	require.NotNil(t, failed.Error)
	assert.Contains(t, failed.Error.Message, "quota exceeded")
	assert.Equal(t, "capability_failure", failed.Error.Code)

	// Subsequent steps were never started.
	assert.Equal(t, types.StepPending, findStep(t, res.Steps, steps.CreateResumePDF).Status)
	assert.Equal(t, types.StepPending, findStep(t, res.Steps, steps.UploadDocuments).Status)

	res, err = env.engine.Advance(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RequestFailed, res.Status)
	assert.Equal(t, types.StepPending, findStep(t, res.Steps, steps.CreateResumePDF).Status)
	assert.Equal(t, 1, env.gen.resumeCalls, "failed step must not be retried")

	_, err = env.store.GetResponse(ctx, rec.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "no response record on failure")
}

// Advancing a completed record returns completed and mutates nothing.
func TestAdvanceTerminalIsNoOp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	rec, err := env.engine.Initialize(ctx, initializeInput(types.GenerateResume))
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := env.engine.Advance(ctx, rec.ID)
		require.NoError(t, err)
	}

	before, err := env.store.GetRequest(ctx, rec.ID)
	require.NoError(t, err)

	res, err := env.engine.Advance(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RequestCompleted, res.Status)
	assert.Empty(t, res.StepCompleted)
	assert.NotEmpty(t, res.ResumeURL, "links remain readable after completion")

	after, err := env.store.GetRequest(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// Content written by generate_resume is exactly what create_resume_pdf reads.
func TestIntermediateContentRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	rec, err := env.engine.Initialize(ctx, initializeInput(types.GenerateResume))
	require.NoError(t, err)

	_, err = env.engine.Advance(ctx, rec.ID) // fetch_data
	require.NoError(t, err)
	_, err = env.engine.Advance(ctx, rec.ID) // generate_resume
	require.NoError(t, err)

	stored, err := env.store.GetRequest(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Intermediate.ResumeContent)

	_, err = env.engine.Advance(ctx, rec.ID) // create_resume_pdf
	require.NoError(t, err)

	require.NotNil(t, env.renderer.lastResume)
	assert.Equal(t, stored.Intermediate.ResumeContent, env.renderer.lastResume)
}

// A PDF step without its content fails loudly with a precondition error
// rather than rendering an empty document.
func TestCreatePDFWithoutContentFailsLoudly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	rec, err := env.engine.Initialize(ctx, initializeInput(types.GenerateResume))
	require.NoError(t, err)

	_, err = env.engine.Advance(ctx, rec.ID) // fetch_data
	require.NoError(t, err)

	// Force the record into a state where generation was skipped.
	stored, err := env.store.GetRequest(ctx, rec.ID)
	require.NoError(t, err)
	stored.Steps, err = steps.Skip(stored.Steps, steps.GenerateResume)
	require.NoError(t, err)
	require.NoError(t, env.store.UpdateRequest(ctx, stored))

	res, err := env.engine.Advance(ctx, rec.ID) // create_resume_pdf
	require.NoError(t, err)
	assert.Equal(t, types.RequestFailed, res.Status)
	assert.Equal(t, steps.CreateResumePDF, res.FailedStep)
	failed := findStep(t, res.Steps, steps.CreateResumePDF)
	require.NotNil(t, failed.Error)
	assert.Equal(t, "precondition", failed.Error.Code)
	assert.Contains(t, failed.Error.Message, "resume content")
}

func TestCompletionNotifiesJobMatch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	matchID := uuid.New()
	in := initializeInput(types.GenerateCoverLetter)
	in.JobMatchID = &matchID

	rec, err := env.engine.Initialize(ctx, in)
	require.NoError(t, err)
	require.Len(t, rec.Steps, 4)

	for i := 0; i < 4; i++ {
		_, err := env.engine.Advance(ctx, rec.ID)
		require.NoError(t, err)
	}

	require.Len(t, env.notifier.jobMatchIDs, 1)
	assert.Equal(t, matchID, env.notifier.jobMatchIDs[0])
}

func TestGetStatusProjection(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	rec, err := env.engine.Initialize(ctx, initializeInput(types.GenerateBoth))
	require.NoError(t, err)

	_, err = env.engine.Advance(ctx, rec.ID)
	require.NoError(t, err)

	status, err := env.engine.GetStatus(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RequestProcessing, status.Status)
	assert.Len(t, status.Steps, 6)
	assert.Equal(t, types.StepCompleted, status.Steps[0].Status)
	assert.Equal(t, types.StepPending, status.Steps[1].Status)
	assert.False(t, status.CreatedAt.IsZero())
}

func findStep(t *testing.T, list []types.GenerationStep, id types.StepID) *types.GenerationStep {
	t.Helper()
	step := steps.Find(list, id)
	require.NotNil(t, step, "step %s missing", id)
	return step
}
