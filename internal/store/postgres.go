package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/docgen/internal/types"
)

// Postgres stores generation records as JSONB documents with an integer
// version column used for conditional updates.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// EnsureSchema creates the tables if they do not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS generation_requests (
			id UUID PRIMARY KEY,
			record JSONB NOT NULL,
			version BIGINT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS generation_responses (
			id UUID PRIMARY KEY,
			request_id UUID NOT NULL UNIQUE REFERENCES generation_requests(id),
			record JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// CreateRequest inserts a new record at version 1.
func (p *Postgres) CreateRequest(ctx context.Context, rec *types.GenerationRequest) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO generation_requests (id, record, version) VALUES ($1, $2, 1)`,
		rec.ID, body,
	)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	rec.Version = 1
	return nil
}

// GetRequest fetches a record by id.
func (p *Postgres) GetRequest(ctx context.Context, id uuid.UUID) (*types.GenerationRequest, error) {
	var body []byte
	var version int64

	err := p.pool.QueryRow(ctx,
		`SELECT record, version FROM generation_requests WHERE id = $1`,
		id,
	).Scan(&body, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	var rec types.GenerationRequest
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	rec.Version = version
	return &rec, nil
}

// UpdateRequest replaces the record body conditional on the caller's version.
// A lost race returns ErrConflict; a missing row returns ErrNotFound.
func (p *Postgres) UpdateRequest(ctx context.Context, rec *types.GenerationRequest) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	tag, err := p.pool.Exec(ctx,
		`UPDATE generation_requests
		 SET record = $1, version = version + 1, updated_at = NOW()
		 WHERE id = $2 AND version = $3`,
		body, rec.ID, rec.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish a missing record from a lost race.
		var exists bool
		err := p.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM generation_requests WHERE id = $1)`,
			rec.ID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check record existence: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConflict
	}

	rec.Version++
	return nil
}

// CreateResponse inserts the completion record.
func (p *Postgres) CreateResponse(ctx context.Context, resp *types.GenerationResponse) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO generation_responses (id, request_id, record) VALUES ($1, $2, $3)`,
		resp.ID, resp.RequestID, body,
	)
	if err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}
	return nil
}

// GetResponse fetches the completion record for a request.
func (p *Postgres) GetResponse(ctx context.Context, requestID uuid.UUID) (*types.GenerationResponse, error) {
	var body []byte

	err := p.pool.QueryRow(ctx,
		`SELECT record FROM generation_responses WHERE request_id = $1`,
		requestID,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get response: %w", err)
	}

	var resp types.GenerationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &resp, nil
}
