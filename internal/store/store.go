// Package store provides durable keyed storage for generation request
// records and the response records written at completion.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jonathan/docgen/internal/types"
)

// ErrNotFound indicates the requested record id does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict indicates an update lost an optimistic concurrency race:
// the record's version no longer matches the caller's copy. The caller must
// re-read rather than retry blindly, otherwise two concurrent advance calls
// could double-execute a step.
var ErrConflict = errors.New("record version conflict")

// RecordStore is the persistence capability consumed by the pipeline engine.
// Update replaces the whole mutable portion of the record (steps, status,
// intermediate results) atomically, conditional on the version the caller
// read.
type RecordStore interface {
	CreateRequest(ctx context.Context, rec *types.GenerationRequest) error
	GetRequest(ctx context.Context, id uuid.UUID) (*types.GenerationRequest, error)
	// UpdateRequest persists rec conditional on rec.Version matching the
	// stored version. On success rec.Version is advanced; on a lost race it
	// returns ErrConflict.
	UpdateRequest(ctx context.Context, rec *types.GenerationRequest) error

	CreateResponse(ctx context.Context, resp *types.GenerationResponse) error
	GetResponse(ctx context.Context, requestID uuid.UUID) (*types.GenerationResponse, error)
}
