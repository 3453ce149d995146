// Package render turns generated document content into PDF bytes. Content is
// laid out with HTML templates and printed through headless Chrome, so one
// branding decision applies uniformly to every document in a generation.
package render

import (
	"context"

	"github.com/jonathan/docgen/internal/types"
)

// Branding carries the style options applied to every rendered document.
type Branding struct {
	AccentColor string
	FontFamily  string
}

// DefaultBranding is used when the caller provides no overrides.
func DefaultBranding() Branding {
	return Branding{
		AccentColor: "#1a4d7c",
		FontFamily:  "Georgia, 'Times New Roman', serif",
	}
}

// withDefaults fills empty fields from DefaultBranding.
func (b Branding) withDefaults() Branding {
	def := DefaultBranding()
	if b.AccentColor == "" {
		b.AccentColor = def.AccentColor
	}
	if b.FontFamily == "" {
		b.FontFamily = def.FontFamily
	}
	return b
}

// Renderer is the document rendering capability consumed by the PDF steps.
type Renderer interface {
	RenderResume(ctx context.Context, content *types.ResumeContent, info types.PersonalInfo, branding Branding) ([]byte, error)
	RenderCoverLetter(ctx context.Context, content *types.CoverLetterContent, info types.PersonalInfo, job types.Job, branding Branding) ([]byte, error)
}
