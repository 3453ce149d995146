package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/docgen/internal/pipeline"
	"github.com/jonathan/docgen/internal/store"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, pipeline.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage maps an error to a client-facing message. Internal errors are
// logged server-side; the client sees only a generic message.
func errorMessage(err error) string {
	switch HTTPStatus(err) {
	case http.StatusNotFound:
		return "generation not found"
	case http.StatusConflict:
		return "generation was modified concurrently, re-read and retry"
	case http.StatusBadRequest:
		return err.Error()
	default:
		return "internal server error"
	}
}

// extractValidationErrors flattens validator errors into one readable line.
func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "invalid request"
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fieldErr.Field()+" failed "+fieldErr.Tag()+" validation")
	}
	return strings.Join(messages, "; ")
}
