package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skillmap-backend/application/services"
	"skillmap-backend/domain/core/entities"
	"skillmap-backend/domain/core/valueobjects"
	domainservices "skillmap-backend/domain/services"
	"skillmap-backend/infrastructure/messaging/eventbridge"
	"skillmap-backend/infrastructure/persistence/memory"
	pkgerrors "skillmap-backend/pkg/errors"
)

type skillMapFixture struct {
	skillService    *services.SkillService
	skillMapService *services.SkillMapService
	courses         *memory.InMemoryCourseRepository
	skills          map[string]*services.SkillDTO
}

// newSkillMapFixture seeds the a,b,d,c,e,f sample graph and one course whose
// first lesson teaches b and second lesson teaches a.
func newSkillMapFixture(t *testing.T) *skillMapFixture {
	t.Helper()
	ctx := context.Background()

	skillRepo := memory.NewInMemorySkillRepository()
	courseRepo := memory.NewInMemoryCourseRepository()
	logger := zap.NewNop()

	f := &skillMapFixture{
		skillService:    services.NewSkillService(skillRepo, eventbridge.NewNoopPublisher(), nil, logger),
		skillMapService: services.NewSkillMapService(skillRepo, courseRepo, logger),
		courses:         courseRepo,
		skills:          make(map[string]*services.SkillDTO),
	}

	for _, name := range []string{"a", "b", "d", "c", "e", "f"} {
		dto, err := f.skillService.CreateSkill(ctx, name, "", nil)
		require.NoError(t, err)
		f.skills[name] = dto
	}
	require.NoError(t, f.skillService.AddPrerequisite(ctx, f.skills["d"].ID, f.skills["a"].ID))
	require.NoError(t, f.skillService.AddPrerequisite(ctx, f.skills["d"].ID, f.skills["b"].ID))
	require.NoError(t, f.skillService.AddPrerequisite(ctx, f.skills["e"].ID, f.skills["c"].ID))
	require.NoError(t, f.skillService.AddPrerequisite(ctx, f.skills["f"].ID, f.skills["e"].ID))

	bID, err := valueobjects.ParseSkillID(f.skills["b"].ID)
	require.NoError(t, err)
	aID, err := valueobjects.ParseSkillID(f.skills["a"].ID)
	require.NoError(t, err)

	require.NoError(t, courseRepo.Save(ctx, &entities.Course{
		ID:    "course-1",
		Title: "Programming 101",
		Units: []*entities.Unit{
			{
				UnitID: "u1",
				Lessons: []*entities.Lesson{
					{LessonID: "l1", UnitID: "u1", Title: "Lists", SkillIDs: []valueobjects.SkillID{bID}},
					{LessonID: "l2", UnitID: "u1", Title: "Loops", SkillIDs: []valueobjects.SkillID{aID}},
				},
			},
		},
	}))
	return f
}

func TestSkillMapService_GetSkillMap(t *testing.T) {
	ctx := context.Background()
	f := newSkillMapFixture(t)

	skillMap, err := f.skillMapService.GetSkillMap(ctx, "course-1", domainservices.SortByPrerequisites)
	require.NoError(t, err)
	assert.Equal(t, "course-1", skillMap.CourseID)
	require.Len(t, skillMap.Skills, 6)

	var names []string
	for _, entry := range skillMap.Skills {
		names = append(names, entry.Skill.Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, names)

	// Lessons are joined onto the taught skills only.
	for _, entry := range skillMap.Skills {
		switch entry.Skill.Name {
		case "a":
			require.Len(t, entry.Lessons, 1)
			assert.Equal(t, "l2", entry.Lessons[0].LessonID)
		case "b":
			require.Len(t, entry.Lessons, 1)
			assert.Equal(t, "l1", entry.Lessons[0].LessonID)
		default:
			assert.Empty(t, entry.Lessons)
		}
	}

	t.Run("unknown course is not found", func(t *testing.T) {
		_, err := f.skillMapService.GetSkillMap(ctx, "missing", domainservices.SortNone)
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("missing course id is a validation error", func(t *testing.T) {
		_, err := f.skillMapService.GetSkillMap(ctx, "", domainservices.SortNone)
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestSkillMapService_GetLessonsForSkill(t *testing.T) {
	ctx := context.Background()
	f := newSkillMapFixture(t)

	lessons, err := f.skillMapService.GetLessonsForSkill(ctx, "course-1", f.skills["b"].ID)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "l1", lessons[0].LessonID)
	assert.Equal(t, 0, lessons[0].UnitIndex)
	assert.Equal(t, 0, lessons[0].LessonIndex)

	lessons, err = f.skillMapService.GetLessonsForSkill(ctx, "course-1", f.skills["f"].ID)
	require.NoError(t, err)
	assert.Empty(t, lessons)

	_, err = f.skillMapService.GetLessonsForSkill(ctx, "course-1", "6a9bd9c0-0000-4000-8000-000000000000")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestSkillMapService_FindCycles(t *testing.T) {
	ctx := context.Background()
	f := newSkillMapFixture(t)

	cycles, err := f.skillMapService.FindCycles(ctx, "course-1")
	require.NoError(t, err)
	assert.Empty(t, cycles)

	// Close the a/d loop and look again.
	require.NoError(t, f.skillService.AddPrerequisite(ctx, f.skills["a"].ID, f.skills["d"].ID))

	cycles, err = f.skillMapService.FindCycles(ctx, "course-1")
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []string{f.skills["a"].ID, f.skills["d"].ID}, cycles[0].SkillIDs)
}
