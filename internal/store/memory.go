package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/docgen/internal/types"
)

// Memory is an in-process RecordStore used by tests and local runs. It
// enforces the same optimistic-concurrency contract as the Postgres store.
type Memory struct {
	mu        sync.Mutex
	requests  map[uuid.UUID]*types.GenerationRequest
	responses map[uuid.UUID]*types.GenerationResponse
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		requests:  make(map[uuid.UUID]*types.GenerationRequest),
		responses: make(map[uuid.UUID]*types.GenerationResponse),
	}
}

// cloneRequest deep-copies a record so callers never alias stored state.
func cloneRequest(rec *types.GenerationRequest) (*types.GenerationRequest, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to clone record: %w", err)
	}
	var out types.GenerationRequest
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to clone record: %w", err)
	}
	out.Version = rec.Version
	return &out, nil
}

// CreateRequest stores a new record at version 1.
func (m *Memory) CreateRequest(_ context.Context, rec *types.GenerationRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.requests[rec.ID]; exists {
		return fmt.Errorf("record already exists: %s", rec.ID)
	}
	rec.Version = 1
	stored, err := cloneRequest(rec)
	if err != nil {
		return err
	}
	m.requests[rec.ID] = stored
	return nil
}

// GetRequest returns a copy of the record, or ErrNotFound.
func (m *Memory) GetRequest(_ context.Context, id uuid.UUID) (*types.GenerationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRequest(stored)
}

// UpdateRequest replaces the stored record if the caller's version matches.
func (m *Memory) UpdateRequest(_ context.Context, rec *types.GenerationRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.requests[rec.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != rec.Version {
		return ErrConflict
	}
	rec.Version++
	next, err := cloneRequest(rec)
	if err != nil {
		rec.Version--
		return err
	}
	m.requests[rec.ID] = next
	return nil
}

// CreateResponse stores the completion record, keyed by request id.
func (m *Memory) CreateResponse(_ context.Context, resp *types.GenerationResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.responses[resp.RequestID]; exists {
		return fmt.Errorf("response already exists for request: %s", resp.RequestID)
	}
	m.responses[resp.RequestID] = resp
	return nil
}

// GetResponse returns the completion record for a request, or ErrNotFound.
func (m *Memory) GetResponse(_ context.Context, requestID uuid.UUID) (*types.GenerationResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp, ok := m.responses[requestID]
	if !ok {
		return nil, ErrNotFound
	}
	return resp, nil
}
