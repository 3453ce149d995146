// Package schemas provides JSON Schema validation for model-generated
// document content before it is accepted into a generation record.
package schemas

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// ValidationError reports which fields of a generated document violated the
// schema.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError is a single violation at a specific field path.
type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return fmt.Sprintf("%s validation failed: %s", e.Schema, strings.Join(parts, "; "))
}

// ValidateResumeContent checks generated resume JSON against its schema.
func ValidateResumeContent(jsonText string) error {
	return validate("resume_content.schema.json", jsonText)
}

// ValidateCoverLetterContent checks generated cover letter JSON against its schema.
func ValidateCoverLetterContent(jsonText string) error {
	return validate("cover_letter_content.schema.json", jsonText)
}

func validate(schemaFile, jsonText string) error {
	schemaBytes, err := schemaFiles.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("failed to read schema %s: %w", schemaFile, err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	documentLoader := gojsonschema.NewStringLoader(jsonText)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error for %s: %w", schemaFile, err)
	}

	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: strings.TrimSuffix(schemaFile, ".schema.json")}
	for _, desc := range result.Errors() {
		verr.Errors = append(verr.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return verr
}
