package aggregates_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillmap-backend/domain/core/aggregates"
	"skillmap-backend/domain/core/entities"
	"skillmap-backend/domain/core/valueobjects"
	"skillmap-backend/infrastructure/persistence/memory"
	pkgerrors "skillmap-backend/pkg/errors"
)

func newTestGraph(t *testing.T) *aggregates.SkillGraph {
	t.Helper()
	graph, err := aggregates.LoadSkillGraph(context.Background(), memory.NewInMemorySkillRepository())
	require.NoError(t, err)
	return graph
}

func addSkill(t *testing.T, graph *aggregates.SkillGraph, name string) *entities.Skill {
	t.Helper()
	skill, err := entities.NewSkill(name, "")
	require.NoError(t, err)
	stored, err := graph.Add(context.Background(), skill)
	require.NoError(t, err)
	return stored
}

func TestSkillGraph_Add(t *testing.T) {
	ctx := context.Background()
	graph := newTestGraph(t)

	skill := addSkill(t, graph, "a")
	assert.False(t, skill.ID().IsZero(), "repository should assign an id on first save")
	assert.Equal(t, 1, graph.Len())
	assert.True(t, graph.Has(skill.ID()))

	t.Run("rejects re-adding a present identity", func(t *testing.T) {
		_, err := graph.Add(ctx, skill)
		assert.True(t, pkgerrors.IsPrecondition(err))
	})

	t.Run("rejects unknown prerequisite reference", func(t *testing.T) {
		orphan, err := entities.NewSkill("b", "")
		require.NoError(t, err)
		require.NoError(t, orphan.AddPrerequisiteID(valueobjects.NewSkillID()))

		_, err = graph.Add(ctx, orphan)
		assert.True(t, pkgerrors.IsPrecondition(err))
		assert.Equal(t, 1, graph.Len())
	})
}

func TestSkillGraph_AddPrerequisite(t *testing.T) {
	ctx := context.Background()
	graph := newTestGraph(t)
	a := addSkill(t, graph, "a")
	d := addSkill(t, graph, "d")

	require.NoError(t, graph.AddPrerequisite(ctx, d.ID(), a.ID()))
	assert.True(t, d.HasPrerequisite(a.ID()))

	t.Run("rejects self loop", func(t *testing.T) {
		err := graph.AddPrerequisite(ctx, a.ID(), a.ID())
		require.Error(t, err)
		assert.True(t, pkgerrors.IsPrecondition(err))
		assert.Contains(t, err.Error(), "cannot be its own prerequisite")
	})

	t.Run("rejects duplicate edge", func(t *testing.T) {
		err := graph.AddPrerequisite(ctx, d.ID(), a.ID())
		require.Error(t, err)
		assert.True(t, pkgerrors.IsPrecondition(err))
		assert.Contains(t, err.Error(), "must be unique")
	})

	t.Run("rejects unknown endpoints", func(t *testing.T) {
		unknown := valueobjects.NewSkillID()
		assert.True(t, pkgerrors.IsPrecondition(graph.AddPrerequisite(ctx, unknown, a.ID())))
		assert.True(t, pkgerrors.IsPrecondition(graph.AddPrerequisite(ctx, d.ID(), unknown)))
	})

	t.Run("tolerates cycles longer than one", func(t *testing.T) {
		// a -> d already exists as d's prerequisite; closing the loop is
		// allowed at write time.
		require.NoError(t, graph.AddPrerequisite(ctx, a.ID(), d.ID()))
	})
}

func TestSkillGraph_DeletePrerequisite(t *testing.T) {
	ctx := context.Background()
	graph := newTestGraph(t)
	a := addSkill(t, graph, "a")
	d := addSkill(t, graph, "d")
	require.NoError(t, graph.AddPrerequisite(ctx, d.ID(), a.ID()))

	t.Run("rejects missing edge", func(t *testing.T) {
		err := graph.DeletePrerequisite(ctx, a.ID(), d.ID())
		assert.True(t, pkgerrors.IsPrecondition(err))
	})

	require.NoError(t, graph.DeletePrerequisite(ctx, d.ID(), a.ID()))
	assert.False(t, d.HasPrerequisite(a.ID()))
}

func TestSkillGraph_Delete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInMemorySkillRepository()
	graph, err := aggregates.LoadSkillGraph(ctx, repo)
	require.NoError(t, err)

	a := addSkill(t, graph, "a")
	d := addSkill(t, graph, "d")
	e := addSkill(t, graph, "e")
	require.NoError(t, graph.AddPrerequisite(ctx, d.ID(), a.ID()))
	require.NoError(t, graph.AddPrerequisite(ctx, e.ID(), a.ID()))

	t.Run("rejects unknown id", func(t *testing.T) {
		err := graph.Delete(ctx, valueobjects.NewSkillID())
		assert.True(t, pkgerrors.IsPrecondition(err))
	})

	require.NoError(t, graph.Delete(ctx, a.ID()))
	assert.False(t, graph.Has(a.ID()))
	assert.False(t, d.HasPrerequisite(a.ID()), "deletion strips dangling edges")
	assert.False(t, e.HasPrerequisite(a.ID()))

	// The stripped prerequisite sets were persisted, not just mutated in
	// memory.
	reloaded, err := aggregates.LoadSkillGraph(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len())
	for _, skill := range reloaded.Skills() {
		assert.Empty(t, skill.PrerequisiteIDs())
	}
}

func TestSkillGraph_PrerequisitesAndSuccessors(t *testing.T) {
	ctx := context.Background()
	graph := newTestGraph(t)
	a := addSkill(t, graph, "a")
	b := addSkill(t, graph, "b")
	d := addSkill(t, graph, "d")
	require.NoError(t, graph.AddPrerequisite(ctx, d.ID(), a.ID()))
	require.NoError(t, graph.AddPrerequisite(ctx, d.ID(), b.ID()))

	prereqs := graph.Prerequisites(d.ID())
	require.Len(t, prereqs, 2)
	assert.True(t, prereqs[0].ID().Equals(a.ID()))
	assert.True(t, prereqs[1].ID().Equals(b.ID()))

	successors := graph.Successors(a.ID())
	require.Len(t, successors, 1)
	assert.True(t, successors[0].ID().Equals(d.ID()))

	assert.Empty(t, graph.Successors(d.ID()))
	assert.Empty(t, graph.Prerequisites(valueobjects.NewSkillID()))
}

func TestSkillGraph_SkillsInsertionOrder(t *testing.T) {
	graph := newTestGraph(t)
	names := []string{"c", "a", "b"}
	for _, name := range names {
		addSkill(t, graph, name)
	}

	skills := graph.Skills()
	require.Len(t, skills, 3)
	for i, name := range names {
		assert.Equal(t, name, skills[i].Name())
	}
}
