package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillmap-backend/domain/core/valueobjects"
	pkgerrors "skillmap-backend/pkg/errors"
)

func TestNewSkill(t *testing.T) {
	t.Run("creates skill with valid name", func(t *testing.T) {
		skill, err := NewSkill("Algebra", "Linear equations")
		require.NoError(t, err)
		assert.Equal(t, "Algebra", skill.Name())
		assert.Equal(t, "Linear equations", skill.Description())
		assert.True(t, skill.ID().IsZero())
		assert.Empty(t, skill.PrerequisiteIDs())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewSkill("", "")
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("rejects name over 100 characters", func(t *testing.T) {
		_, err := NewSkill(strings.Repeat("x", 101), "")
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestSkill_AssignID(t *testing.T) {
	skill, err := NewSkill("Algebra", "")
	require.NoError(t, err)

	id := valueobjects.NewSkillID()
	require.NoError(t, skill.AssignID(id))
	assert.True(t, skill.ID().Equals(id))

	// Identity is immutable once set.
	err = skill.AssignID(valueobjects.NewSkillID())
	assert.True(t, pkgerrors.IsPrecondition(err))
	assert.True(t, skill.ID().Equals(id))
}

func TestSkill_AddPrerequisiteID(t *testing.T) {
	skill, err := NewSkill("Calculus", "")
	require.NoError(t, err)
	require.NoError(t, skill.AssignID(valueobjects.NewSkillID()))

	prereq := valueobjects.NewSkillID()
	require.NoError(t, skill.AddPrerequisiteID(prereq))
	assert.True(t, skill.HasPrerequisite(prereq))

	t.Run("rejects self reference", func(t *testing.T) {
		err := skill.AddPrerequisiteID(skill.ID())
		assert.True(t, pkgerrors.IsPrecondition(err))
	})

	t.Run("rejects duplicate", func(t *testing.T) {
		err := skill.AddPrerequisiteID(prereq)
		assert.True(t, pkgerrors.IsPrecondition(err))
		assert.Len(t, skill.PrerequisiteIDs(), 1)
	})
}

func TestSkill_RemovePrerequisiteID(t *testing.T) {
	skill, err := NewSkill("Calculus", "")
	require.NoError(t, err)

	prereq := valueobjects.NewSkillID()
	require.NoError(t, skill.AddPrerequisiteID(prereq))

	require.NoError(t, skill.RemovePrerequisiteID(prereq))
	assert.False(t, skill.HasPrerequisite(prereq))

	// Removing a missing prerequisite is a caller error.
	err = skill.RemovePrerequisiteID(prereq)
	assert.True(t, pkgerrors.IsPrecondition(err))
}

func TestSkill_PrerequisiteIDsIsACopy(t *testing.T) {
	skill, err := NewSkill("Calculus", "")
	require.NoError(t, err)
	require.NoError(t, skill.AddPrerequisiteID(valueobjects.NewSkillID()))

	ids := skill.PrerequisiteIDs()
	ids[0] = valueobjects.NewSkillID()
	assert.NotEqual(t, ids[0], skill.PrerequisiteIDs()[0])
}
