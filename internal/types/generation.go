// Package types defines the shared data model for the document generation
// pipeline: the generation request record, its step list, intermediate
// results, and the final response produced at completion.
package types

import (
	"time"

	"github.com/google/uuid"
)

// GenerateType selects which documents a generation produces.
type GenerateType string

// Supported generate types
const (
	GenerateResume      GenerateType = "resume"
	GenerateCoverLetter GenerateType = "cover_letter"
	GenerateBoth        GenerateType = "both"
)

// Valid reports whether t is one of the supported generate types.
func (t GenerateType) Valid() bool {
	switch t {
	case GenerateResume, GenerateCoverLetter, GenerateBoth:
		return true
	}
	return false
}

// IncludesResume reports whether a resume is part of this generation.
func (t GenerateType) IncludesResume() bool {
	return t == GenerateResume || t == GenerateBoth
}

// IncludesCoverLetter reports whether a cover letter is part of this generation.
func (t GenerateType) IncludesCoverLetter() bool {
	return t == GenerateCoverLetter || t == GenerateBoth
}

// RequestStatus is the overall status of a generation request.
type RequestStatus string

// Request status values
const (
	RequestPending    RequestStatus = "pending"
	RequestProcessing RequestStatus = "processing"
	RequestCompleted  RequestStatus = "completed"
	RequestFailed     RequestStatus = "failed"
)

// StepStatus is the status of a single pipeline step.
type StepStatus string

// Step status values
const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
	StepSkipped    StepStatus = "skipped"
)

// Terminal reports whether the step can no longer change status.
func (s StepStatus) Terminal() bool {
	return s == StepCompleted || s == StepFailed || s == StepSkipped
}

// StepID identifies one unit of pipeline work.
type StepID string

// Job is the immutable snapshot of the target posting taken at creation.
type Job struct {
	Role               string `json:"role"`
	Company            string `json:"company"`
	CompanyWebsite     string `json:"company_website,omitempty"`
	JobDescriptionURL  string `json:"job_description_url,omitempty"`
	JobDescriptionText string `json:"job_description_text,omitempty"`
}

// PersonalInfo is the candidate contact snapshot taken at creation.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ExperienceEntry is one role in the candidate's history.
type ExperienceEntry struct {
	Company    string   `json:"company"`
	Title      string   `json:"title"`
	Location   string   `json:"location,omitempty"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// Blurb is a free-form piece of candidate background (summary, project
// write-up) that generation may draw on.
type Blurb struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// ExperienceSnapshot freezes the candidate's experience data at creation so
// later profile edits do not change an in-flight generation.
type ExperienceSnapshot struct {
	Entries   []ExperienceEntry `json:"entries"`
	Blurbs    []Blurb           `json:"blurbs,omitempty"`
	Skills    []string          `json:"skills,omitempty"`
	Education []Education       `json:"education,omitempty"`
}

// Education is one entry in the candidate's education history.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year,omitempty"`
}

// Preferences carries optional style and emphasis hints for generation.
// They bias what the model is asked, never what facts it may use.
type Preferences struct {
	Tone               string `json:"tone,omitempty"`
	Emphasis           string `json:"emphasis,omitempty"`
	CustomInstructions string `json:"custom_instructions,omitempty"`
}

// TokenUsage is the token accounting for one model call.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Total returns input plus output tokens.
func (u TokenUsage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// Add returns the element-wise sum of two usages.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
	}
}

// ResumeContent is the structured resume body produced by generation.
type ResumeContent struct {
	Summary    string             `json:"summary"`
	Skills     []string           `json:"skills"`
	Experience []ResumeExperience `json:"experience"`
	Education  []ResumeEducation  `json:"education,omitempty"`
}

// ResumeExperience is one rendered role on the resume.
type ResumeExperience struct {
	Company string   `json:"company"`
	Title   string   `json:"title"`
	Dates   string   `json:"dates,omitempty"`
	Bullets []string `json:"bullets"`
}

// ResumeEducation is one rendered education entry.
type ResumeEducation struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year,omitempty"`
}

// CoverLetterContent is the structured cover letter body produced by generation.
type CoverLetterContent struct {
	Greeting   string   `json:"greeting"`
	Paragraphs []string `json:"paragraphs"`
	Closing    string   `json:"closing"`
}

// IntermediateResults is the scratch space written by generation steps and
// read by PDF steps. Fields are populated append-only; a later step only ever
// sees fields added, never cleared.
type IntermediateResults struct {
	ResumeContent         *ResumeContent      `json:"resume_content,omitempty"`
	ResumeTokenUsage      *TokenUsage         `json:"resume_token_usage,omitempty"`
	CoverLetterContent    *CoverLetterContent `json:"cover_letter_content,omitempty"`
	CoverLetterTokenUsage *TokenUsage         `json:"cover_letter_token_usage,omitempty"`
	Model                 string              `json:"model,omitempty"`
	ResumeFile            *FileReference      `json:"resume_file,omitempty"`
	CoverLetterFile       *FileReference      `json:"cover_letter_file,omitempty"`
}

// StepError records why a step failed.
type StepError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// GenerationStep is one unit of pipeline work with its own status, timing,
// and optional result or error.
type GenerationStep struct {
	ID          StepID      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      StepStatus  `json:"status"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	DurationMs  *int64      `json:"duration_ms,omitempty"`
	Result      *string     `json:"result,omitempty"`
	Error       *StepError  `json:"error,omitempty"`
}

// GenerationRequest is the root record for one generation job. The step list
// and intermediate results mutate as the pipeline advances; everything else
// is immutable after creation.
type GenerationRequest struct {
	ID              uuid.UUID           `json:"id"`
	GenerateType    GenerateType        `json:"generate_type"`
	Job             Job                 `json:"job"`
	PersonalInfo    PersonalInfo        `json:"personal_info"`
	Experience      ExperienceSnapshot  `json:"experience"`
	Preferences     *Preferences        `json:"preferences,omitempty"`
	Provider        string              `json:"provider"`
	JobMatchID      *uuid.UUID          `json:"job_match_id,omitempty"`
	JobMatchInsight string              `json:"job_match_insight,omitempty"`
	Status          RequestStatus       `json:"status"`
	Steps           []GenerationStep    `json:"steps"`
	Intermediate    IntermediateResults `json:"intermediate_results"`
	CreatedAt       time.Time           `json:"created_at"`

	// Version is the optimistic concurrency token managed by the store.
	// It is not part of the serialized record body.
	Version int64 `json:"-"`
}

// FileReference points at one uploaded document.
type FileReference struct {
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	SizeBytes int64     `json:"size_bytes"`
}

// GenerationResponse is the immutable record created once, at successful
// pipeline completion.
type GenerationResponse struct {
	ID                 uuid.UUID           `json:"id"`
	RequestID          uuid.UUID           `json:"request_id"`
	ResumeContent      *ResumeContent      `json:"resume_content,omitempty"`
	CoverLetterContent *CoverLetterContent `json:"cover_letter_content,omitempty"`
	Model              string              `json:"model,omitempty"`
	TokenUsage         TokenUsage          `json:"token_usage"`
	CostUSD            float64             `json:"cost_usd"`
	ResumeFile         *FileReference      `json:"resume_file,omitempty"`
	CoverLetterFile    *FileReference      `json:"cover_letter_file,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}
