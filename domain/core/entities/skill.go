package entities

import (
	"skillmap-backend/domain/core/valueobjects"
	pkgerrors "skillmap-backend/pkg/errors"
)

// Skill is an atomic unit of knowledge with an identity, name, description
// and a set of prerequisite skill ids. Skills are value-like records:
// external callers never mutate them in place, all mutation goes through the
// owning SkillGraph.
type Skill struct {
	id              valueobjects.SkillID
	name            string
	description     string
	prerequisiteIDs []valueobjects.SkillID
}

// NewSkill creates a skill from caller-supplied fields. The identity is left
// zero; the repository assigns it on first save.
func NewSkill(name, description string) (*Skill, error) {
	if name == "" {
		return nil, pkgerrors.NewValidationError("skill name is required")
	}
	if len(name) > 100 {
		return nil, pkgerrors.NewValidationError("skill name must be at most 100 characters")
	}
	return &Skill{
		name:        name,
		description: description,
	}, nil
}

// ReconstructSkill recreates a skill from stored data. Loaded data is
// trusted; invariants apply to subsequent mutation, not retroactively to
// persisted state.
func ReconstructSkill(
	id valueobjects.SkillID,
	name string,
	description string,
	prerequisiteIDs []valueobjects.SkillID,
) *Skill {
	prereqs := make([]valueobjects.SkillID, len(prerequisiteIDs))
	copy(prereqs, prerequisiteIDs)

	return &Skill{
		id:              id,
		name:            name,
		description:     description,
		prerequisiteIDs: prereqs,
	}
}

// ID returns the skill's unique identifier
func (s *Skill) ID() valueobjects.SkillID {
	return s.id
}

// Name returns the skill's name
func (s *Skill) Name() string {
	return s.name
}

// Description returns the skill's description
func (s *Skill) Description() string {
	return s.description
}

// PrerequisiteIDs returns a copy of the skill's direct prerequisite ids, in
// insertion order.
func (s *Skill) PrerequisiteIDs() []valueobjects.SkillID {
	ids := make([]valueobjects.SkillID, len(s.prerequisiteIDs))
	copy(ids, s.prerequisiteIDs)
	return ids
}

// HasPrerequisite reports whether id is a direct prerequisite of the skill
func (s *Skill) HasPrerequisite(id valueobjects.SkillID) bool {
	for _, pid := range s.prerequisiteIDs {
		if pid.Equals(id) {
			return true
		}
	}
	return false
}

// AssignID sets the skill's identity. It may only be called once, by the
// repository on first save.
func (s *Skill) AssignID(id valueobjects.SkillID) error {
	if !s.id.IsZero() {
		return pkgerrors.NewPreconditionError("skill already has an identity")
	}
	if id.IsZero() {
		return pkgerrors.NewValidationError("skill ID cannot be empty")
	}
	s.id = id
	return nil
}

// Rename updates the skill's name
func (s *Skill) Rename(name string) error {
	if name == "" {
		return pkgerrors.NewValidationError("skill name is required")
	}
	if len(name) > 100 {
		return pkgerrors.NewValidationError("skill name must be at most 100 characters")
	}
	s.name = name
	return nil
}

// SetDescription updates the skill's description
func (s *Skill) SetDescription(description string) {
	s.description = description
}

// AddPrerequisiteID appends a prerequisite id. Self-references and
// duplicates are precondition violations.
func (s *Skill) AddPrerequisiteID(id valueobjects.SkillID) error {
	if id.Equals(s.id) {
		return pkgerrors.NewPreconditionError("a skill cannot be its own prerequisite")
	}
	if s.HasPrerequisite(id) {
		return pkgerrors.NewPreconditionError("prerequisite already exists")
	}
	s.prerequisiteIDs = append(s.prerequisiteIDs, id)
	return nil
}

// RemovePrerequisiteID removes a prerequisite id. Removing an id that is not
// currently a prerequisite is a precondition violation.
func (s *Skill) RemovePrerequisiteID(id valueobjects.SkillID) error {
	for i, pid := range s.prerequisiteIDs {
		if pid.Equals(id) {
			s.prerequisiteIDs = append(s.prerequisiteIDs[:i], s.prerequisiteIDs[i+1:]...)
			return nil
		}
	}
	return pkgerrors.NewPreconditionError("prerequisite does not exist")
}
