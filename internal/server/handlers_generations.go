package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/docgen/internal/pipeline"
	"github.com/jonathan/docgen/internal/types"
)

// CreateGenerationRequest is the POST /generations body.
type CreateGenerationRequest struct {
	GenerateType    types.GenerateType       `json:"generate_type" validate:"required,oneof=resume cover_letter both"`
	Job             types.Job                `json:"job" validate:"required"`
	PersonalInfo    types.PersonalInfo       `json:"personal_info" validate:"required"`
	Experience      types.ExperienceSnapshot `json:"experience"`
	Preferences     *types.Preferences       `json:"preferences,omitempty"`
	Provider        string                   `json:"provider" validate:"required"`
	JobMatchID      *uuid.UUID               `json:"job_match_id,omitempty"`
	JobMatchInsight string                   `json:"job_match_insight,omitempty"`
}

// CreateGenerationResponse echoes the new record's id and step list so the
// client can start polling immediately.
type CreateGenerationResponse struct {
	ID     uuid.UUID              `json:"id"`
	Status types.RequestStatus    `json:"status"`
	Steps  []types.GenerationStep `json:"steps"`
}

func (s *Server) handleCreateGeneration(w http.ResponseWriter, r *http.Request) {
	var req CreateGenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	rec, err := s.engine.Initialize(r.Context(), pipeline.InitializeInput{
		GenerateType:    req.GenerateType,
		Job:             req.Job,
		PersonalInfo:    req.PersonalInfo,
		Experience:      req.Experience,
		Preferences:     req.Preferences,
		Provider:        req.Provider,
		JobMatchID:      req.JobMatchID,
		JobMatchInsight: req.JobMatchInsight,
	})
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("[server] create generation failed: %v", err)
		}
		s.errorResponse(w, status, errorMessage(err))
		return
	}

	s.jsonResponse(w, http.StatusCreated, CreateGenerationResponse{
		ID:     rec.ID,
		Status: rec.Status,
		Steps:  rec.Steps,
	})
}

func (s *Server) handleAdvanceGeneration(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid generation ID")
		return
	}

	res, err := s.engine.Advance(r.Context(), id)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("[server] advance %s failed: %v", id, err)
		}
		s.errorResponse(w, status, errorMessage(err))
		return
	}

	s.jsonResponse(w, http.StatusOK, res)
}

func (s *Server) handleGetGeneration(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid generation ID")
		return
	}

	status, err := s.engine.GetStatus(r.Context(), id)
	if err != nil {
		code := HTTPStatus(err)
		if code == http.StatusInternalServerError {
			log.Printf("[server] get generation %s failed: %v", id, err)
		}
		s.errorResponse(w, code, errorMessage(err))
		return
	}

	s.jsonResponse(w, http.StatusOK, status)
}
