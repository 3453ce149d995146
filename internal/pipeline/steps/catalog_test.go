package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/docgen/internal/types"
)

func TestOrderPerGenerateType(t *testing.T) {
	tests := []struct {
		name         string
		generateType types.GenerateType
		want         []types.StepID
	}{
		{
			name:         "resume only",
			generateType: types.GenerateResume,
			want:         []types.StepID{FetchData, GenerateResume, CreateResumePDF, UploadDocuments},
		},
		{
			name:         "cover letter only",
			generateType: types.GenerateCoverLetter,
			want:         []types.StepID{FetchData, GenerateCoverLetter, CreateCoverLetterPDF, UploadDocuments},
		},
		{
			name:         "both",
			generateType: types.GenerateBoth,
			want: []types.StepID{
				FetchData,
				GenerateResume,
				GenerateCoverLetter,
				CreateResumePDF,
				CreateCoverLetterPDF,
				UploadDocuments,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Order(tt.generateType)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderBoundarySteps(t *testing.T) {
	// For every generate type the list starts with fetch_data and ends with
	// upload_documents.
	for _, gt := range []types.GenerateType{types.GenerateResume, types.GenerateCoverLetter, types.GenerateBoth} {
		ids := Order(gt)
		require.NotEmpty(t, ids)
		assert.Equal(t, FetchData, ids[0], "generate type %s", gt)
		assert.Equal(t, UploadDocuments, ids[len(ids)-1], "generate type %s", gt)
	}
}

func TestBuildInitialState(t *testing.T) {
	built := Build(types.GenerateBoth)
	require.Len(t, built, 6)

	for _, step := range built {
		assert.Equal(t, types.StepPending, step.Status)
		assert.NotEmpty(t, step.Name)
		assert.NotEmpty(t, step.Description)
		assert.Nil(t, step.StartedAt)
		assert.Nil(t, step.CompletedAt)
		assert.Nil(t, step.Result)
		assert.Nil(t, step.Error)
	}
}

func TestLookup(t *testing.T) {
	def, ok := Lookup(GenerateResume)
	require.True(t, ok)
	assert.Equal(t, GenerateResume, def.ID)
	assert.NotEmpty(t, def.Name)

	_, ok = Lookup(types.StepID("not_a_step"))
	assert.False(t, ok)
}
