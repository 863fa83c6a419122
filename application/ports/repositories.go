package ports

import (
	"context"

	"skillmap-backend/domain/core/entities"
	"skillmap-backend/domain/core/valueobjects"
)

// SkillRepository defines the interface for skill persistence.
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation. It is a superset of aggregates.SkillStore.
type SkillRepository interface {
	// LoadAll returns every stored skill in insertion order
	LoadAll(ctx context.Context) ([]*entities.Skill, error)

	// GetByID retrieves a skill by its id
	GetByID(ctx context.Context, id valueobjects.SkillID) (*entities.Skill, error)

	// Save persists a skill (create or update), assigning an id on first save
	Save(ctx context.Context, skill *entities.Skill) (*entities.Skill, error)

	// Delete removes a skill record
	Delete(ctx context.Context, id valueobjects.SkillID) error
}

// CourseRepository defines the interface for course persistence. Courses are
// opaque unit/lesson containers from the graph engine's perspective.
type CourseRepository interface {
	// GetByID retrieves a course with its full unit/lesson structure
	GetByID(ctx context.Context, courseID string) (*entities.Course, error)

	// Save persists a course
	Save(ctx context.Context, course *entities.Course) error
}

// SkillEvent describes a mutation of the skill graph
type SkillEvent struct {
	Type    string                 `json:"type"`
	SkillID valueobjects.SkillID   `json:"skillId"`
	Name    string                 `json:"name,omitempty"`
	Related []valueobjects.SkillID `json:"related,omitempty"`
}

// Skill event types
const (
	SkillCreated             = "skillmap.skill.created"
	SkillUpdated             = "skillmap.skill.updated"
	SkillDeleted             = "skillmap.skill.deleted"
	SkillPrerequisiteAdded   = "skillmap.skill.prerequisite_added"
	SkillPrerequisiteDeleted = "skillmap.skill.prerequisite_deleted"
)

// EventPublisher defines the interface for publishing skill mutation events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event SkillEvent) error
}
