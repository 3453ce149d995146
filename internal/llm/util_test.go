package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"generic fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence with language id", "```javascript\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  {\"a\": 1}\n", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestProviderValid(t *testing.T) {
	assert.True(t, ProviderGemini.Valid())
	assert.True(t, ProviderClaude.Valid())
	assert.False(t, Provider("openai").Valid())
}

func TestLookupPricingPrefersLongestPrefix(t *testing.T) {
	lite := lookupPricing("gemini-2.5-flash-lite-001")
	assert.Equal(t, 0.10, lite.InputPerMillion)

	flash := lookupPricing("gemini-2.5-flash")
	assert.Equal(t, 0.30, flash.InputPerMillion)

	unknown := lookupPricing("some-future-model")
	assert.Zero(t, unknown.InputPerMillion)
	assert.Zero(t, unknown.OutputPerMillion)
}
