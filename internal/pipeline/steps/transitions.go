package steps

import (
	"fmt"
	"time"

	"github.com/jonathan/docgen/internal/types"
)

// now is swapped out by tests.
var now = time.Now

// ErrUnknownStep indicates a transition was requested for a step id not
// present in the list. This is a programmer error, not a runtime condition.
type ErrUnknownStep struct {
	ID types.StepID
}

func (e *ErrUnknownStep) Error() string {
	return fmt.Sprintf("unknown step: %s", e.ID)
}

// apply returns a copy of the list with the named step replaced by fn's
// result. Every other element is carried over unchanged so callers can diff
// cheaply.
func apply(list []types.GenerationStep, id types.StepID, fn func(types.GenerationStep) types.GenerationStep) ([]types.GenerationStep, error) {
	found := false
	out := make([]types.GenerationStep, len(list))
	for i, step := range list {
		if step.ID == id {
			out[i] = fn(step)
			found = true
		} else {
			out[i] = step
		}
	}
	if !found {
		return nil, &ErrUnknownStep{ID: id}
	}
	return out, nil
}

// stamp sets the completion timestamp and duration if they are not already
// set. Calling a terminal transition twice leaves both unchanged.
func stamp(step types.GenerationStep) types.GenerationStep {
	if step.CompletedAt == nil {
		t := now()
		step.CompletedAt = &t
		if step.StartedAt != nil {
			d := t.Sub(*step.StartedAt).Milliseconds()
			step.DurationMs = &d
		}
	}
	return step
}

// Start marks the named step in_progress. A StartedAt already present is
// never overwritten, so repeated starts are idempotent with respect to timing.
func Start(list []types.GenerationStep, id types.StepID) ([]types.GenerationStep, error) {
	return apply(list, id, func(step types.GenerationStep) types.GenerationStep {
		step.Status = types.StepInProgress
		if step.StartedAt == nil {
			t := now()
			step.StartedAt = &t
		}
		return step
	})
}

// Complete marks the named step completed, stamping CompletedAt and duration
// once. A non-empty result is attached; an empty result never overwrites a
// previously attached one.
func Complete(list []types.GenerationStep, id types.StepID, result string) ([]types.GenerationStep, error) {
	return apply(list, id, func(step types.GenerationStep) types.GenerationStep {
		step.Status = types.StepCompleted
		step = stamp(step)
		if result != "" {
			r := result
			step.Result = &r
		}
		return step
	})
}

// Fail marks the named step failed, stamping CompletedAt and duration once,
// and attaches the error.
func Fail(list []types.GenerationStep, id types.StepID, stepErr types.StepError) ([]types.GenerationStep, error) {
	return apply(list, id, func(step types.GenerationStep) types.GenerationStep {
		step.Status = types.StepFailed
		step = stamp(step)
		e := stepErr
		step.Error = &e
		return step
	})
}

// Skip marks the named step skipped, stamping CompletedAt and duration once.
func Skip(list []types.GenerationStep, id types.StepID) ([]types.GenerationStep, error) {
	return apply(list, id, func(step types.GenerationStep) types.GenerationStep {
		step.Status = types.StepSkipped
		return stamp(step)
	})
}

// NextPending returns the first step whose status is pending, or nil when no
// step remains to run.
func NextPending(list []types.GenerationStep) *types.GenerationStep {
	for i := range list {
		if list[i].Status == types.StepPending {
			return &list[i]
		}
	}
	return nil
}

// AllTerminal reports whether every step has reached a terminal status.
func AllTerminal(list []types.GenerationStep) bool {
	for _, step := range list {
		if !step.Status.Terminal() {
			return false
		}
	}
	return true
}

// AnyFailed reports whether any step has failed.
func AnyFailed(list []types.GenerationStep) bool {
	for _, step := range list {
		if step.Status == types.StepFailed {
			return true
		}
	}
	return false
}

// Find returns the step with the given id, or nil.
func Find(list []types.GenerationStep, id types.StepID) *types.GenerationStep {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}
