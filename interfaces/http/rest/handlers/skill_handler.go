package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"skillmap-backend/application/services"
	domainservices "skillmap-backend/domain/services"
	"skillmap-backend/pkg/utils"
)

// SkillHandler handles skill-related HTTP requests
type SkillHandler struct {
	skillService *services.SkillService
	logger       *zap.Logger
}

// NewSkillHandler creates a new skill handler
func NewSkillHandler(skillService *services.SkillService, logger *zap.Logger) *SkillHandler {
	return &SkillHandler{
		skillService: skillService,
		logger:       logger,
	}
}

// CreateSkillRequest represents the request body for creating a skill
type CreateSkillRequest struct {
	Name            string   `json:"name" validate:"required,max=100"`
	Description     string   `json:"description,omitempty"`
	PrerequisiteIDs []string `json:"prerequisite_ids,omitempty" validate:"omitempty,dive,uuid4"`
}

// UpdateSkillRequest represents the request body for updating a skill. The
// prerequisite list fully replaces the existing one.
type UpdateSkillRequest struct {
	Name            string   `json:"name" validate:"required,max=100"`
	Description     string   `json:"description,omitempty"`
	PrerequisiteIDs []string `json:"prerequisite_ids" validate:"omitempty,dive,uuid4"`
}

// AddPrerequisiteRequest represents the request body for adding an edge
type AddPrerequisiteRequest struct {
	PrerequisiteID string `json:"prerequisite_id" validate:"required,uuid4"`
}

// CreateSkill handles POST /skills
func (h *SkillHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var req CreateSkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	skill, err := h.skillService.CreateSkill(r.Context(), req.Name, req.Description, req.PrerequisiteIDs)
	if err != nil {
		respondAppError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusCreated, skill)
}

// GetSkill handles GET /skills/{skillID}
func (h *SkillHandler) GetSkill(w http.ResponseWriter, r *http.Request) {
	skill, err := h.skillService.GetSkill(r.Context(), chi.URLParam(r, "skillID"))
	if err != nil {
		respondAppError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, skill)
}

// ListSkills handles GET /skills with an optional sort_by query parameter
// (name, lesson, prerequisites).
func (h *SkillHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	sortBy := domainservices.SortPolicy(r.URL.Query().Get("sort_by"))

	skills, err := h.skillService.ListSkills(r.Context(), sortBy)
	if err != nil {
		respondAppError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"skills": skills,
		"count":  len(skills),
	})
}

// UpdateSkill handles PUT /skills/{skillID}
func (h *SkillHandler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	var req UpdateSkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	skill, err := h.skillService.UpdateSkill(r.Context(), chi.URLParam(r, "skillID"), req.Name, req.Description, req.PrerequisiteIDs)
	if err != nil {
		respondAppError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, skill)
}

// DeleteSkill handles DELETE /skills/{skillID}
func (h *SkillHandler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	if err := h.skillService.DeleteSkill(r.Context(), chi.URLParam(r, "skillID")); err != nil {
		respondAppError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPrerequisites handles GET /skills/{skillID}/prerequisites
func (h *SkillHandler) GetPrerequisites(w http.ResponseWriter, r *http.Request) {
	prereqs, err := h.skillService.GetPrerequisites(r.Context(), chi.URLParam(r, "skillID"))
	if err != nil {
		respondAppError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"prerequisites": prereqs,
		"count":         len(prereqs),
	})
}

// AddPrerequisite handles POST /skills/{skillID}/prerequisites
func (h *SkillHandler) AddPrerequisite(w http.ResponseWriter, r *http.Request) {
	var req AddPrerequisiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.skillService.AddPrerequisite(r.Context(), chi.URLParam(r, "skillID"), req.PrerequisiteID); err != nil {
		respondAppError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePrerequisite handles DELETE /skills/{skillID}/prerequisites/{prerequisiteID}
func (h *SkillHandler) DeletePrerequisite(w http.ResponseWriter, r *http.Request) {
	err := h.skillService.DeletePrerequisite(r.Context(),
		chi.URLParam(r, "skillID"),
		chi.URLParam(r, "prerequisiteID"),
	)
	if err != nil {
		respondAppError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSuccessors handles GET /skills/{skillID}/successors
func (h *SkillHandler) GetSuccessors(w http.ResponseWriter, r *http.Request) {
	successors, err := h.skillService.GetSuccessors(r.Context(), chi.URLParam(r, "skillID"))
	if err != nil {
		respondAppError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"successors": successors,
		"count":      len(successors),
	})
}
