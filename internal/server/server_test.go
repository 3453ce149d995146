package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/docgen/internal/blob"
	"github.com/jonathan/docgen/internal/pipeline"
	"github.com/jonathan/docgen/internal/prompts"
	"github.com/jonathan/docgen/internal/render"
	"github.com/jonathan/docgen/internal/store"
	"github.com/jonathan/docgen/internal/types"
)

type stubGenerator struct {
	err error
}

func (s *stubGenerator) GenerateResume(ctx context.Context, in prompts.Inputs) (*types.ResumeContent, types.TokenUsage, error) {
	if s.err != nil {
		return nil, types.TokenUsage{}, s.err
	}
	return &types.ResumeContent{Summary: "stub summary", Skills: []string{"Go"}}, types.TokenUsage{InputTokens: 10, OutputTokens: 5}, nil
}

func (s *stubGenerator) GenerateCoverLetter(ctx context.Context, in prompts.Inputs) (*types.CoverLetterContent, types.TokenUsage, error) {
	if s.err != nil {
		return nil, types.TokenUsage{}, s.err
	}
	return &types.CoverLetterContent{Greeting: "Dear", Paragraphs: []string{"Hi"}, Closing: "Bye"}, types.TokenUsage{InputTokens: 8, OutputTokens: 4}, nil
}

func (s *stubGenerator) CalculateCost(usage types.TokenUsage) float64 { return 0.01 }
func (s *stubGenerator) Model() string                                { return "stub-model" }

type stubRenderer struct{}

func (stubRenderer) RenderResume(ctx context.Context, content *types.ResumeContent, info types.PersonalInfo, branding render.Branding) ([]byte, error) {
	return []byte("%PDF"), nil
}

func (stubRenderer) RenderCoverLetter(ctx context.Context, content *types.CoverLetterContent, info types.PersonalInfo, job types.Job, branding render.Branding) ([]byte, error) {
	return []byte("%PDF"), nil
}

type stubBlob struct{}

func (stubBlob) Upload(ctx context.Context, data []byte, name, category string) (blob.Object, error) {
	return blob.Object{Path: category + "/" + name, SizeBytes: int64(len(data))}, nil
}

func (stubBlob) PresignLink(ctx context.Context, path string, expiresIn time.Duration) (string, error) {
	return "https://files.test/" + path, nil
}

func newTestServer(t *testing.T, gen *stubGenerator) *Server {
	t.Helper()
	engine, err := pipeline.NewEngine(pipeline.Options{
		Store:      store.NewMemory(),
		Generators: map[string]pipeline.DocumentGenerator{"stub": gen},
		Renderer:   stubRenderer{},
		Blob:       stubBlob{},
	})
	require.NoError(t, err)
	return New(Config{Port: 8080}, engine)
}

func createBody() []byte {
	body, _ := json.Marshal(map[string]any{
		"generate_type": "resume",
		"job":           map[string]string{"role": "Engineer", "company": "Initech"},
		"personal_info": map[string]string{"name": "Jane Doe", "email": "jane@example.com"},
		"provider":      "stub",
	})
	return body
}

func doRequest(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateGeneration(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doRequest(t, s, http.MethodPost, "/generations", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CreateGenerationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, types.RequestPending, resp.Status)
	require.Len(t, resp.Steps, 4)
	assert.Equal(t, types.StepID("fetch_data"), resp.Steps[0].ID)
	assert.Equal(t, types.StepID("upload_documents"), resp.Steps[3].ID)
}

func TestCreateGenerationValidation(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})

	body, _ := json.Marshal(map[string]any{"generate_type": "poem"})
	rec := doRequest(t, s, http.MethodPost, "/generations", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation")
}

func TestCreateGenerationUnknownProvider(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})

	body, _ := json.Marshal(map[string]any{
		"generate_type": "resume",
		"job":           map[string]string{"role": "Engineer", "company": "Initech"},
		"personal_info": map[string]string{"name": "Jane Doe"},
		"provider":      "oracle",
	})
	rec := doRequest(t, s, http.MethodPost, "/generations", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "provider")
}

func TestAdvanceToCompletion(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doRequest(t, s, http.MethodPost, "/generations", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreateGenerationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	var last pipeline.AdvanceResult
	for i := 0; i < 4; i++ {
		advRec := doRequest(t, s, http.MethodPost, fmt.Sprintf("/generations/%s/advance", created.ID), nil)
		require.Equal(t, http.StatusOK, advRec.Code, "advance %d: %s", i+1, advRec.Body.String())
		require.NoError(t, json.Unmarshal(advRec.Body.Bytes(), &last))
	}

	assert.Equal(t, types.RequestCompleted, last.Status)
	assert.NotEmpty(t, last.ResumeURL)
}

func TestAdvanceUnknownID(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doRequest(t, s, http.MethodPost, fmt.Sprintf("/generations/%s/advance", uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdvanceInvalidID(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doRequest(t, s, http.MethodPost, "/generations/not-a-uuid/advance", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvanceReportsStepFailure(t *testing.T) {
	s := newTestServer(t, &stubGenerator{err: errors.New("model unavailable")})
	rec := doRequest(t, s, http.MethodPost, "/generations", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreateGenerationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// fetch_data succeeds, generate_resume fails. Both advances are HTTP 200;
	// the failure is carried in the body, not the status code.
	doRequest(t, s, http.MethodPost, fmt.Sprintf("/generations/%s/advance", created.ID), nil)
	advRec := doRequest(t, s, http.MethodPost, fmt.Sprintf("/generations/%s/advance", created.ID), nil)
	require.Equal(t, http.StatusOK, advRec.Code)

	var res pipeline.AdvanceResult
	require.NoError(t, json.Unmarshal(advRec.Body.Bytes(), &res))
	assert.Equal(t, types.RequestFailed, res.Status)
	assert.Equal(t, types.StepID("generate_resume"), res.FailedStep)
}

func TestGetGenerationStatus(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doRequest(t, s, http.MethodPost, "/generations", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreateGenerationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	statusRec := doRequest(t, s, http.MethodGet, "/generations/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, statusRec.Code)

	var status pipeline.Status
	require.NoError(t, json.Unmarshal(statusRec.Body.Bytes(), &status))
	assert.Equal(t, types.RequestPending, status.Status)
	assert.Len(t, status.Steps, 4)
}

func TestGetGenerationNotFound(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doRequest(t, s, http.MethodGet, "/generations/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(store.ErrNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(store.ErrConflict))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(fmt.Errorf("%w: bad type", pipeline.ErrInvalidRequest)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
