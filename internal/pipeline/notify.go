package pipeline

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// LogNotifier is a CompletionNotifier that only logs. Deployments that track
// job matches in another system replace this with a real client.
type LogNotifier struct{}

// GenerationCompleted logs the completed generation for the job match.
func (LogNotifier) GenerationCompleted(_ context.Context, jobMatchID, requestID uuid.UUID) error {
	log.Printf("[pipeline] generation %s completed for job match %s", requestID, jobMatchID)
	return nil
}
