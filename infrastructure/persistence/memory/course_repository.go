package memory

import (
	"context"
	"sync"

	"skillmap-backend/domain/core/entities"
	pkgerrors "skillmap-backend/pkg/errors"
)

// InMemoryCourseRepository provides an in-memory implementation of
// ports.CourseRepository.
type InMemoryCourseRepository struct {
	mu      sync.RWMutex
	courses map[string]*entities.Course
}

// NewInMemoryCourseRepository creates a new in-memory course repository
func NewInMemoryCourseRepository() *InMemoryCourseRepository {
	return &InMemoryCourseRepository{
		courses: make(map[string]*entities.Course),
	}
}

// GetByID retrieves a course with its full unit/lesson structure
func (r *InMemoryCourseRepository) GetByID(ctx context.Context, courseID string) (*entities.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	course, exists := r.courses[courseID]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("course")
	}
	return course, nil
}

// Save persists a course
func (r *InMemoryCourseRepository) Save(ctx context.Context, course *entities.Course) error {
	if course == nil || course.ID == "" {
		return pkgerrors.NewValidationError("course id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.courses[course.ID] = course
	return nil
}
