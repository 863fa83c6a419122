package services

import (
	"context"

	"go.uber.org/zap"

	"skillmap-backend/application/ports"
	"skillmap-backend/domain/core/aggregates"
	"skillmap-backend/domain/core/entities"
	"skillmap-backend/domain/core/valueobjects"
	domainservices "skillmap-backend/domain/services"
	pkgerrors "skillmap-backend/pkg/errors"
)

// LessonDTO is a lesson reference in skill map responses
type LessonDTO struct {
	LessonID    string `json:"lesson_id"`
	UnitID      string `json:"unit_id"`
	Title       string `json:"title"`
	UnitIndex   int    `json:"unit_index"`
	LessonIndex int    `json:"lesson_index"`
}

// SkillMapEntryDTO is one skill in a course-scoped skill map, carrying its
// prerequisite edges and the lessons that teach it.
type SkillMapEntryDTO struct {
	Skill   *SkillDTO    `json:"skill"`
	Lessons []*LessonDTO `json:"lessons"`
}

// SkillMapDTO is the full course-scoped view
type SkillMapDTO struct {
	CourseID string              `json:"course_id"`
	Skills   []*SkillMapEntryDTO `json:"skills"`
}

// CycleDTO is one simple cycle as an ordered list of skill ids
type CycleDTO struct {
	SkillIDs []string `json:"skill_ids"`
}

// SkillMapService serves course-scoped read models: the joined skill map,
// per-skill lesson lists, and cycle diagnostics.
type SkillMapService struct {
	skills  ports.SkillRepository
	courses ports.CourseRepository
	logger  *zap.Logger
}

// NewSkillMapService creates a new skill map service
func NewSkillMapService(
	skills ports.SkillRepository,
	courses ports.CourseRepository,
	logger *zap.Logger,
) *SkillMapService {
	return &SkillMapService{
		skills:  skills,
		courses: courses,
		logger:  logger,
	}
}

// GetSkillMap returns the joined skill map for a course, ordered by the
// given sort policy.
func (s *SkillMapService) GetSkillMap(ctx context.Context, courseID string, sortBy domainservices.SortPolicy) (*SkillMapDTO, error) {
	skillMap, err := s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}

	skills, err := skillMap.Skills(sortBy)
	if err != nil {
		return nil, err
	}

	entries := make([]*SkillMapEntryDTO, 0, len(skills))
	for _, skill := range skills {
		entries = append(entries, &SkillMapEntryDTO{
			Skill:   toSkillDTO(skill),
			Lessons: toLessonDTOs(skillMap, skill.ID()),
		})
	}
	return &SkillMapDTO{CourseID: courseID, Skills: entries}, nil
}

// GetLessonsForSkill returns the lessons of a course that teach the skill,
// in course order.
func (s *SkillMapService) GetLessonsForSkill(ctx context.Context, courseID, skillID string) ([]*LessonDTO, error) {
	sid, err := valueobjects.ParseSkillID(skillID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	skillMap, err := s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !skillMap.Graph().Has(sid) {
		return nil, pkgerrors.NewNotFoundError("skill")
	}
	return toLessonDTOs(skillMap, sid), nil
}

// FindCycles enumerates every simple cycle in the course's successor graph.
// An acyclic graph yields an empty (never nil) list.
func (s *SkillMapService) FindCycles(ctx context.Context, courseID string) ([]*CycleDTO, error) {
	skillMap, err := s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}

	metrics := domainservices.NewSkillMapMetrics(skillMap)
	cycles := metrics.SimpleCycles()

	dtos := make([]*CycleDTO, 0, len(cycles))
	for _, cycle := range cycles {
		ids := make([]string, 0, len(cycle))
		for _, id := range cycle {
			ids = append(ids, id.String())
		}
		dtos = append(dtos, &CycleDTO{SkillIDs: ids})
	}

	if len(dtos) > 0 {
		s.logger.Warn("skill graph contains cycles",
			zap.String("courseId", courseID),
			zap.Int("cycleCount", len(dtos)),
		)
	}
	return dtos, nil
}

// load builds a fresh course-scoped skill map snapshot
func (s *SkillMapService) load(ctx context.Context, courseID string) (*domainservices.SkillMap, error) {
	if courseID == "" {
		return nil, pkgerrors.NewValidationError("course id is required")
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	graph, err := aggregates.LoadSkillGraph(ctx, s.skills)
	if err != nil {
		return nil, err
	}
	return domainservices.LoadSkillMap(graph, course), nil
}

func toLessonDTOs(skillMap *domainservices.SkillMap, id valueobjects.SkillID) []*LessonDTO {
	lessons := []*LessonDTO{}
	for _, loc := range skillMap.LessonLocationsForSkill(id) {
		lessons = append(lessons, toLessonDTO(loc))
	}
	return lessons
}

func toLessonDTO(loc entities.LessonLocation) *LessonDTO {
	return &LessonDTO{
		LessonID:    loc.Lesson.LessonID,
		UnitID:      loc.Lesson.UnitID,
		Title:       loc.Lesson.Title,
		UnitIndex:   loc.UnitIndex,
		LessonIndex: loc.LessonIndex,
	}
}
