package memory

import (
	"context"
	"sync"

	"skillmap-backend/domain/core/entities"
	"skillmap-backend/domain/core/valueobjects"
	pkgerrors "skillmap-backend/pkg/errors"
)

// InMemorySkillRepository provides an in-memory implementation of
// ports.SkillRepository. It preserves insertion order across saves and is
// used for local development and tests.
type InMemorySkillRepository struct {
	mu     sync.RWMutex
	skills map[valueobjects.SkillID]*entities.Skill
	order  []valueobjects.SkillID
}

// NewInMemorySkillRepository creates a new in-memory skill repository
func NewInMemorySkillRepository() *InMemorySkillRepository {
	return &InMemorySkillRepository{
		skills: make(map[valueobjects.SkillID]*entities.Skill),
	}
}

// LoadAll returns every stored skill in insertion order
func (r *InMemorySkillRepository) LoadAll(ctx context.Context) ([]*entities.Skill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skills := make([]*entities.Skill, 0, len(r.order))
	for _, id := range r.order {
		skills = append(skills, r.clone(r.skills[id]))
	}
	return skills, nil
}

// GetByID retrieves a skill by its id
func (r *InMemorySkillRepository) GetByID(ctx context.Context, id valueobjects.SkillID) (*entities.Skill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skill, exists := r.skills[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("skill")
	}
	return r.clone(skill), nil
}

// Save persists a skill, assigning an id on first save
func (r *InMemorySkillRepository) Save(ctx context.Context, skill *entities.Skill) (*entities.Skill, error) {
	if skill == nil {
		return nil, pkgerrors.NewValidationError("skill cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if skill.ID().IsZero() {
		if err := skill.AssignID(valueobjects.NewSkillID()); err != nil {
			return nil, err
		}
	}
	if _, exists := r.skills[skill.ID()]; !exists {
		r.order = append(r.order, skill.ID())
	}
	r.skills[skill.ID()] = r.clone(skill)
	return skill, nil
}

// Delete removes a skill record
func (r *InMemorySkillRepository) Delete(ctx context.Context, id valueobjects.SkillID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.skills[id]; !exists {
		return pkgerrors.NewNotFoundError("skill")
	}
	delete(r.skills, id)
	for i, sid := range r.order {
		if sid.Equals(id) {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// clone copies a skill so callers cannot mutate stored state in place
func (r *InMemorySkillRepository) clone(skill *entities.Skill) *entities.Skill {
	prereqs := make([]valueobjects.SkillID, 0, len(skill.PrerequisiteIDs()))
	prereqs = append(prereqs, skill.PrerequisiteIDs()...)
	return entities.ReconstructSkill(skill.ID(), skill.Name(), skill.Description(), prereqs)
}
