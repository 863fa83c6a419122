package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"skillmap-backend/application/services"
	domainservices "skillmap-backend/domain/services"
)

// SkillMapHandler handles course-scoped skill map HTTP requests
type SkillMapHandler struct {
	skillMapService *services.SkillMapService
	logger          *zap.Logger
}

// NewSkillMapHandler creates a new skill map handler
func NewSkillMapHandler(skillMapService *services.SkillMapService, logger *zap.Logger) *SkillMapHandler {
	return &SkillMapHandler{
		skillMapService: skillMapService,
		logger:          logger,
	}
}

// GetSkillMap handles GET /courses/{courseID}/skill-map with an optional
// sort_by query parameter (name, lesson, prerequisites).
func (h *SkillMapHandler) GetSkillMap(w http.ResponseWriter, r *http.Request) {
	sortBy := domainservices.SortPolicy(r.URL.Query().Get("sort_by"))

	skillMap, err := h.skillMapService.GetSkillMap(r.Context(), chi.URLParam(r, "courseID"), sortBy)
	if err != nil {
		respondAppError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, skillMap)
}

// FindCycles handles GET /courses/{courseID}/skill-map/cycles. The response
// lists every simple cycle in the prerequisite graph; an empty list means
// the graph is acyclic.
func (h *SkillMapHandler) FindCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.skillMapService.FindCycles(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		respondAppError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"cycles": cycles,
		"count":  len(cycles),
	})
}

// GetLessonsForSkill handles GET /courses/{courseID}/skills/{skillID}/lessons
func (h *SkillMapHandler) GetLessonsForSkill(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.skillMapService.GetLessonsForSkill(r.Context(),
		chi.URLParam(r, "courseID"),
		chi.URLParam(r, "skillID"),
	)
	if err != nil {
		respondAppError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"lessons": lessons,
		"count":   len(lessons),
	})
}
