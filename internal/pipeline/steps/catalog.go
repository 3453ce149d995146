// Package steps provides the step catalog and the pure state machine for the
// document generation pipeline. The catalog maps a generate type to its
// fixed, ordered step list; the transition functions mutate exactly one named
// step at a time and never revisit a terminal step.
package steps

import (
	"github.com/jonathan/docgen/internal/types"
)

// Step identifiers. FetchData is always first and UploadDocuments always
// last; the middle steps depend on the generate type.
const (
	FetchData            types.StepID = "fetch_data"
	GenerateResume       types.StepID = "generate_resume"
	GenerateCoverLetter  types.StepID = "generate_cover_letter"
	CreateResumePDF      types.StepID = "create_resume_pdf"
	CreateCoverLetterPDF types.StepID = "create_cover_letter_pdf"
	UploadDocuments      types.StepID = "upload_documents"
)

// Definition carries the static display metadata for one step. Name and
// description are cosmetic, for client progress display only.
type Definition struct {
	ID          types.StepID
	Name        string
	Description string
}

var definitions = map[types.StepID]Definition{
	FetchData: {
		ID:          FetchData,
		Name:        "Fetch Data",
		Description: "Gather job posting and profile data for generation",
	},
	GenerateResume: {
		ID:          GenerateResume,
		Name:        "Generate Resume",
		Description: "Produce tailored resume content with the AI provider",
	},
	GenerateCoverLetter: {
		ID:          GenerateCoverLetter,
		Name:        "Generate Cover Letter",
		Description: "Produce tailored cover letter content with the AI provider",
	},
	CreateResumePDF: {
		ID:          CreateResumePDF,
		Name:        "Create Resume PDF",
		Description: "Render the resume to PDF and upload it",
	},
	CreateCoverLetterPDF: {
		ID:          CreateCoverLetterPDF,
		Name:        "Create Cover Letter PDF",
		Description: "Render the cover letter to PDF and upload it",
	},
	UploadDocuments: {
		ID:          UploadDocuments,
		Name:        "Finalize Documents",
		Description: "Aggregate usage metrics and record the final response",
	},
}

// Lookup returns the definition for a step id.
func Lookup(id types.StepID) (Definition, bool) {
	def, ok := definitions[id]
	return def, ok
}

// Order returns the ordered step ids for a generate type. Generation of both
// text bodies precedes either PDF render so a styling decision applies
// uniformly before upload.
func Order(generateType types.GenerateType) []types.StepID {
	ids := []types.StepID{FetchData}
	if generateType.IncludesResume() {
		ids = append(ids, GenerateResume)
	}
	if generateType.IncludesCoverLetter() {
		ids = append(ids, GenerateCoverLetter)
	}
	if generateType.IncludesResume() {
		ids = append(ids, CreateResumePDF)
	}
	if generateType.IncludesCoverLetter() {
		ids = append(ids, CreateCoverLetterPDF)
	}
	return append(ids, UploadDocuments)
}

// Build returns the full step list for a generate type, every step pending.
func Build(generateType types.GenerateType) []types.GenerationStep {
	ids := Order(generateType)
	built := make([]types.GenerationStep, 0, len(ids))
	for _, id := range ids {
		def := definitions[id]
		built = append(built, types.GenerationStep{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Status:      types.StepPending,
		})
	}
	return built
}
