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

// SkillDTO is the plain record shape returned to callers, suitable for
// serialization.
type SkillDTO struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	PrerequisiteIDs []string `json:"prerequisite_ids"`
}

// SkillService orchestrates skill graph mutations and queries. Every call
// loads a fresh, request-scoped graph snapshot from the repository.
type SkillService struct {
	repo      ports.SkillRepository
	publisher ports.EventPublisher
	limits    ports.LimitsProvider
	logger    *zap.Logger
}

// NewSkillService creates a new skill service. limits may be nil, in which
// case no size limits are enforced.
func NewSkillService(
	repo ports.SkillRepository,
	publisher ports.EventPublisher,
	limits ports.LimitsProvider,
	logger *zap.Logger,
) *SkillService {
	return &SkillService{
		repo:      repo,
		publisher: publisher,
		limits:    limits,
		logger:    logger,
	}
}

// CreateSkill adds a new skill, optionally with initial prerequisites. The
// full prerequisite list is validated against a fresh graph snapshot before
// anything is written, so the operation is all-or-nothing.
func (s *SkillService) CreateSkill(ctx context.Context, name, description string, prerequisiteIDs []string) (*SkillDTO, error) {
	graph, err := aggregates.LoadSkillGraph(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	limits := s.graphLimits()
	if limits.MaxSkills > 0 && graph.Len() >= limits.MaxSkills {
		return nil, pkgerrors.NewPreconditionError("skill limit reached")
	}

	prereqs, err := parseUniqueIDs(prerequisiteIDs)
	if err != nil {
		return nil, err
	}
	if limits.MaxPrerequisitesPerSkill > 0 && len(prereqs) > limits.MaxPrerequisitesPerSkill {
		return nil, pkgerrors.NewPreconditionError("prerequisite limit reached")
	}
	for _, pid := range prereqs {
		if !graph.Has(pid) {
			return nil, pkgerrors.NewPreconditionError("prerequisite skill does not exist")
		}
	}

	skill, err := entities.NewSkill(name, description)
	if err != nil {
		return nil, err
	}
	for _, pid := range prereqs {
		if err := skill.AddPrerequisiteID(pid); err != nil {
			return nil, err
		}
	}

	stored, err := graph.Add(ctx, skill)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ports.SkillEvent{
		Type:    ports.SkillCreated,
		SkillID: stored.ID(),
		Name:    stored.Name(),
	})
	return toSkillDTO(stored), nil
}

// GetSkill returns the skill with the given id
func (s *SkillService) GetSkill(ctx context.Context, id string) (*SkillDTO, error) {
	skillID, err := valueobjects.ParseSkillID(id)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	graph, err := aggregates.LoadSkillGraph(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	skill, ok := graph.Get(skillID)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("skill")
	}
	return toSkillDTO(skill), nil
}

// ListSkills returns all skills ordered by the given sort policy
func (s *SkillService) ListSkills(ctx context.Context, sortBy domainservices.SortPolicy) ([]*SkillDTO, error) {
	graph, err := aggregates.LoadSkillGraph(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	skillMap := domainservices.LoadSkillMap(graph, nil)
	skills, err := skillMap.Skills(sortBy)
	if err != nil {
		return nil, err
	}
	return toSkillDTOs(skills), nil
}

// UpdateSkill replaces a skill's name, description and prerequisite list.
// The new prerequisite list is validated in full before any edge is touched,
// so a rejected update leaves the skill unchanged.
func (s *SkillService) UpdateSkill(ctx context.Context, id, name, description string, prerequisiteIDs []string) (*SkillDTO, error) {
	skillID, err := valueobjects.ParseSkillID(id)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	graph, err := aggregates.LoadSkillGraph(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	skill, ok := graph.Get(skillID)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("skill")
	}

	prereqs, err := parseUniqueIDs(prerequisiteIDs)
	if err != nil {
		return nil, err
	}
	if limits := s.graphLimits(); limits.MaxPrerequisitesPerSkill > 0 && len(prereqs) > limits.MaxPrerequisitesPerSkill {
		return nil, pkgerrors.NewPreconditionError("prerequisite limit reached")
	}
	for _, pid := range prereqs {
		if pid.Equals(skillID) {
			return nil, pkgerrors.NewPreconditionError("a skill cannot be its own prerequisite")
		}
		if !graph.Has(pid) {
			return nil, pkgerrors.NewPreconditionError("prerequisite skill does not exist")
		}
	}

	if err := skill.Rename(name); err != nil {
		return nil, err
	}
	skill.SetDescription(description)

	for _, pid := range skill.PrerequisiteIDs() {
		if err := skill.RemovePrerequisiteID(pid); err != nil {
			return nil, err
		}
	}
	for _, pid := range prereqs {
		if err := skill.AddPrerequisiteID(pid); err != nil {
			return nil, err
		}
	}

	stored, err := s.repo.Save(ctx, skill)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to update skill")
	}

	s.publish(ctx, ports.SkillEvent{
		Type:    ports.SkillUpdated,
		SkillID: stored.ID(),
		Name:    stored.Name(),
	})
	return toSkillDTO(stored), nil
}

// DeleteSkill removes a skill and strips it from every other skill's
// prerequisite set
func (s *SkillService) DeleteSkill(ctx context.Context, id string) error {
	skillID, err := valueobjects.ParseSkillID(id)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	graph, err := aggregates.LoadSkillGraph(ctx, s.repo)
	if err != nil {
		return err
	}

	if err := graph.Delete(ctx, skillID); err != nil {
		return err
	}

	s.publish(ctx, ports.SkillEvent{
		Type:    ports.SkillDeleted,
		SkillID: skillID,
	})
	return nil
}

// AddPrerequisite adds the edge (skillID -> prerequisiteID)
func (s *SkillService) AddPrerequisite(ctx context.Context, skillID, prerequisiteID string) error {
	sid, pid, err := parseIDPair(skillID, prerequisiteID)
	if err != nil {
		return err
	}

	graph, err := aggregates.LoadSkillGraph(ctx, s.repo)
	if err != nil {
		return err
	}

	if limits := s.graphLimits(); limits.MaxPrerequisitesPerSkill > 0 {
		if skill, ok := graph.Get(sid); ok && len(skill.PrerequisiteIDs()) >= limits.MaxPrerequisitesPerSkill {
			return pkgerrors.NewPreconditionError("prerequisite limit reached")
		}
	}

	if err := graph.AddPrerequisite(ctx, sid, pid); err != nil {
		return err
	}

	s.publish(ctx, ports.SkillEvent{
		Type:    ports.SkillPrerequisiteAdded,
		SkillID: sid,
		Related: []valueobjects.SkillID{pid},
	})
	return nil
}

// DeletePrerequisite removes the edge (skillID -> prerequisiteID)
func (s *SkillService) DeletePrerequisite(ctx context.Context, skillID, prerequisiteID string) error {
	sid, pid, err := parseIDPair(skillID, prerequisiteID)
	if err != nil {
		return err
	}

	graph, err := aggregates.LoadSkillGraph(ctx, s.repo)
	if err != nil {
		return err
	}

	if err := graph.DeletePrerequisite(ctx, sid, pid); err != nil {
		return err
	}

	s.publish(ctx, ports.SkillEvent{
		Type:    ports.SkillPrerequisiteDeleted,
		SkillID: sid,
		Related: []valueobjects.SkillID{pid},
	})
	return nil
}

// GetPrerequisites returns the direct prerequisites of a skill
func (s *SkillService) GetPrerequisites(ctx context.Context, id string) ([]*SkillDTO, error) {
	skillID, err := valueobjects.ParseSkillID(id)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	graph, err := aggregates.LoadSkillGraph(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	return toSkillDTOs(graph.Prerequisites(skillID)), nil
}

// GetSuccessors returns the skills that directly depend on a skill
func (s *SkillService) GetSuccessors(ctx context.Context, id string) ([]*SkillDTO, error) {
	skillID, err := valueobjects.ParseSkillID(id)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	graph, err := aggregates.LoadSkillGraph(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	return toSkillDTOs(graph.Successors(skillID)), nil
}

func (s *SkillService) graphLimits() ports.GraphLimits {
	if s.limits == nil {
		return ports.GraphLimits{}
	}
	return s.limits.GraphLimits()
}

// publish sends a mutation event. Publish failures are logged, not
// propagated: the mutation has already been persisted.
func (s *SkillService) publish(ctx context.Context, event ports.SkillEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish skill event",
			zap.String("type", event.Type),
			zap.String("skillId", event.SkillID.String()),
			zap.Error(err),
		)
	}
}

func toSkillDTO(skill *entities.Skill) *SkillDTO {
	prereqs := make([]string, 0, len(skill.PrerequisiteIDs()))
	for _, pid := range skill.PrerequisiteIDs() {
		prereqs = append(prereqs, pid.String())
	}
	return &SkillDTO{
		ID:              skill.ID().String(),
		Name:            skill.Name(),
		Description:     skill.Description(),
		PrerequisiteIDs: prereqs,
	}
}

func toSkillDTOs(skills []*entities.Skill) []*SkillDTO {
	dtos := make([]*SkillDTO, 0, len(skills))
	for _, skill := range skills {
		dtos = append(dtos, toSkillDTO(skill))
	}
	return dtos
}

// parseUniqueIDs parses the given id strings and rejects duplicates
func parseUniqueIDs(ids []string) ([]valueobjects.SkillID, error) {
	parsed := make([]valueobjects.SkillID, 0, len(ids))
	seen := make(map[valueobjects.SkillID]struct{}, len(ids))
	for _, raw := range ids {
		id, err := valueobjects.ParseSkillID(raw)
		if err != nil {
			return nil, pkgerrors.NewValidationError(err.Error())
		}
		if _, dup := seen[id]; dup {
			return nil, pkgerrors.NewPreconditionError("prerequisites must be unique")
		}
		seen[id] = struct{}{}
		parsed = append(parsed, id)
	}
	return parsed, nil
}

func parseIDPair(skillID, prerequisiteID string) (valueobjects.SkillID, valueobjects.SkillID, error) {
	sid, err := valueobjects.ParseSkillID(skillID)
	if err != nil {
		return valueobjects.SkillID{}, valueobjects.SkillID{}, pkgerrors.NewValidationError(err.Error())
	}
	pid, err := valueobjects.ParseSkillID(prerequisiteID)
	if err != nil {
		return valueobjects.SkillID{}, valueobjects.SkillID{}, pkgerrors.NewValidationError(err.Error())
	}
	return sid, pid, nil
}
