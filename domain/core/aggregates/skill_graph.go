package aggregates

import (
	"context"

	"skillmap-backend/domain/core/entities"
	"skillmap-backend/domain/core/valueobjects"
	pkgerrors "skillmap-backend/pkg/errors"
)

// SkillStore is the persistence contract the graph needs. It is satisfied by
// application/ports.SkillRepository implementations.
type SkillStore interface {
	// LoadAll returns every stored skill in insertion order
	LoadAll(ctx context.Context) ([]*entities.Skill, error)

	// Save persists a skill, assigning an id on first save
	Save(ctx context.Context, skill *entities.Skill) (*entities.Skill, error)

	// Delete removes a skill record
	Delete(ctx context.Context, id valueobjects.SkillID) error
}

// SkillGraph is the aggregate root for the prerequisite graph. It owns the
// full node set and the edge set implied by each skill's prerequisite ids,
// and enforces structural invariants on mutation: referential integrity, no
// self-loops, no duplicate edges. Cycles of length > 1 are not rejected here;
// they are surfaced by the metrics layer.
//
// A SkillGraph is an independent snapshot reconstructed in full from the
// repository on every load. It is not safe for concurrent mutation.
type SkillGraph struct {
	store  SkillStore
	skills map[valueobjects.SkillID]*entities.Skill
	order  []valueobjects.SkillID
}

// LoadSkillGraph reconstructs the full graph from the repository. Loaded
// data is trusted; invariants apply to subsequent mutation.
func LoadSkillGraph(ctx context.Context, store SkillStore) (*SkillGraph, error) {
	skills, err := store.LoadAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load skill graph")
	}

	g := &SkillGraph{
		store:  store,
		skills: make(map[valueobjects.SkillID]*entities.Skill, len(skills)),
		order:  make([]valueobjects.SkillID, 0, len(skills)),
	}
	for _, skill := range skills {
		g.skills[skill.ID()] = skill
		g.order = append(g.order, skill.ID())
	}
	return g, nil
}

// Len returns the number of skills in the graph
func (g *SkillGraph) Len() int {
	return len(g.skills)
}

// Skills returns all skills in insertion order
func (g *SkillGraph) Skills() []*entities.Skill {
	skills := make([]*entities.Skill, 0, len(g.order))
	for _, id := range g.order {
		skills = append(skills, g.skills[id])
	}
	return skills
}

// Get retrieves a skill by id
func (g *SkillGraph) Get(id valueobjects.SkillID) (*entities.Skill, bool) {
	skill, ok := g.skills[id]
	return skill, ok
}

// Has reports whether a skill with the given id exists in the graph
func (g *SkillGraph) Has(id valueobjects.SkillID) bool {
	_, ok := g.skills[id]
	return ok
}

// Add inserts a new skill and persists it. Re-adding an already-present
// identity is a precondition violation. Returns the stored skill with its
// assigned id.
func (g *SkillGraph) Add(ctx context.Context, skill *entities.Skill) (*entities.Skill, error) {
	if skill == nil {
		return nil, pkgerrors.NewValidationError("skill cannot be nil")
	}
	if !skill.ID().IsZero() {
		if _, exists := g.skills[skill.ID()]; exists {
			return nil, pkgerrors.NewPreconditionError("skill already exists in graph")
		}
	}

	// Every referenced prerequisite must already be in the graph.
	for _, pid := range skill.PrerequisiteIDs() {
		if _, exists := g.skills[pid]; !exists {
			return nil, pkgerrors.NewPreconditionError("prerequisite skill does not exist")
		}
	}

	stored, err := g.store.Save(ctx, skill)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to save skill")
	}
	if stored.ID().IsZero() {
		return nil, pkgerrors.NewInternalError("repository did not assign a skill id")
	}

	g.skills[stored.ID()] = stored
	g.order = append(g.order, stored.ID())
	return stored, nil
}

// Delete removes the skill with id and strips id from every other skill's
// prerequisite set, persisting each affected skill. Deleting an unknown id
// is a precondition violation.
func (g *SkillGraph) Delete(ctx context.Context, id valueobjects.SkillID) error {
	if _, exists := g.skills[id]; !exists {
		return pkgerrors.NewPreconditionError("skill does not exist")
	}

	for _, sid := range g.order {
		other := g.skills[sid]
		if sid.Equals(id) || !other.HasPrerequisite(id) {
			continue
		}
		if err := other.RemovePrerequisiteID(id); err != nil {
			return err
		}
		if _, err := g.store.Save(ctx, other); err != nil {
			return pkgerrors.Wrap(err, "failed to update dependent skill")
		}
	}

	if err := g.store.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(err, "failed to delete skill")
	}

	delete(g.skills, id)
	for i, sid := range g.order {
		if sid.Equals(id) {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return nil
}

// AddPrerequisite adds the edge (skillID -> prerequisiteID). Unknown ids,
// self-loops and duplicate edges are precondition violations. The mutation
// is all-or-nothing: on persistence failure the in-memory edge is rolled
// back.
func (g *SkillGraph) AddPrerequisite(ctx context.Context, skillID, prerequisiteID valueobjects.SkillID) error {
	skill, exists := g.skills[skillID]
	if !exists {
		return pkgerrors.NewPreconditionError("skill does not exist")
	}
	if _, exists := g.skills[prerequisiteID]; !exists {
		return pkgerrors.NewPreconditionError("prerequisite skill does not exist")
	}
	if skillID.Equals(prerequisiteID) {
		return pkgerrors.NewPreconditionError("a skill cannot be its own prerequisite")
	}
	if skill.HasPrerequisite(prerequisiteID) {
		return pkgerrors.NewPreconditionError("prerequisites must be unique")
	}

	if err := skill.AddPrerequisiteID(prerequisiteID); err != nil {
		return err
	}
	if _, err := g.store.Save(ctx, skill); err != nil {
		// Roll back so no partial mutation is visible.
		_ = skill.RemovePrerequisiteID(prerequisiteID)
		return pkgerrors.Wrap(err, "failed to save prerequisite")
	}
	return nil
}

// DeletePrerequisite removes the edge (skillID -> prerequisiteID). Unknown
// ids and missing edges are precondition violations.
func (g *SkillGraph) DeletePrerequisite(ctx context.Context, skillID, prerequisiteID valueobjects.SkillID) error {
	skill, exists := g.skills[skillID]
	if !exists {
		return pkgerrors.NewPreconditionError("skill does not exist")
	}
	if _, exists := g.skills[prerequisiteID]; !exists {
		return pkgerrors.NewPreconditionError("prerequisite skill does not exist")
	}
	if !skill.HasPrerequisite(prerequisiteID) {
		return pkgerrors.NewPreconditionError("prerequisite does not exist")
	}

	if err := skill.RemovePrerequisiteID(prerequisiteID); err != nil {
		return err
	}
	if _, err := g.store.Save(ctx, skill); err != nil {
		_ = skill.AddPrerequisiteID(prerequisiteID)
		return pkgerrors.Wrap(err, "failed to save prerequisite removal")
	}
	return nil
}

// Prerequisites returns the skills id directly depends on. The result is
// empty (never nil) when id is unknown or has no prerequisites.
func (g *SkillGraph) Prerequisites(id valueobjects.SkillID) []*entities.Skill {
	prereqs := []*entities.Skill{}
	skill, exists := g.skills[id]
	if !exists {
		return prereqs
	}
	for _, pid := range skill.PrerequisiteIDs() {
		if p, ok := g.skills[pid]; ok {
			prereqs = append(prereqs, p)
		}
	}
	return prereqs
}

// Successors returns the skills that directly depend on id, computed by
// scanning all skills' prerequisite sets. Empty (never nil) when none.
func (g *SkillGraph) Successors(id valueobjects.SkillID) []*entities.Skill {
	successors := []*entities.Skill{}
	for _, sid := range g.order {
		if g.skills[sid].HasPrerequisite(id) {
			successors = append(successors, g.skills[sid])
		}
	}
	return successors
}
