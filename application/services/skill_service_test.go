package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skillmap-backend/application/ports"
	"skillmap-backend/application/services"
	domainservices "skillmap-backend/domain/services"
	"skillmap-backend/infrastructure/messaging/eventbridge"
	"skillmap-backend/infrastructure/persistence/memory"
	pkgerrors "skillmap-backend/pkg/errors"
)

type fixedLimits struct {
	limits ports.GraphLimits
}

func (f fixedLimits) GraphLimits() ports.GraphLimits { return f.limits }

// capturingPublisher records published events for assertions
type capturingPublisher struct {
	events []ports.SkillEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, event ports.SkillEvent) error {
	p.events = append(p.events, event)
	return nil
}

func newSkillService(t *testing.T) (*services.SkillService, *capturingPublisher) {
	t.Helper()
	publisher := &capturingPublisher{}
	svc := services.NewSkillService(
		memory.NewInMemorySkillRepository(),
		publisher,
		nil,
		zap.NewNop(),
	)
	return svc, publisher
}

func TestSkillService_CreateSkill(t *testing.T) {
	ctx := context.Background()
	svc, publisher := newSkillService(t)

	base, err := svc.CreateSkill(ctx, "Algebra", "Linear equations", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, base.ID)
	assert.Equal(t, "Algebra", base.Name)
	assert.Empty(t, base.PrerequisiteIDs)

	dependent, err := svc.CreateSkill(ctx, "Calculus", "", []string{base.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{base.ID}, dependent.PrerequisiteIDs)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, ports.SkillCreated, publisher.events[0].Type)

	t.Run("rejects duplicate prerequisite input", func(t *testing.T) {
		_, err := svc.CreateSkill(ctx, "Geometry", "", []string{base.ID, base.ID})
		assert.True(t, pkgerrors.IsPrecondition(err))
	})

	t.Run("rejects unknown prerequisite", func(t *testing.T) {
		_, err := svc.CreateSkill(ctx, "Geometry", "", []string{"6a9bd9c0-0000-4000-8000-000000000000"})
		assert.True(t, pkgerrors.IsPrecondition(err))
	})

	t.Run("rejects malformed prerequisite id", func(t *testing.T) {
		_, err := svc.CreateSkill(ctx, "Geometry", "", []string{"nope"})
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestSkillService_CreateSkillLimits(t *testing.T) {
	ctx := context.Background()
	svc := services.NewSkillService(
		memory.NewInMemorySkillRepository(),
		eventbridge.NewNoopPublisher(),
		fixedLimits{ports.GraphLimits{MaxSkills: 1}},
		zap.NewNop(),
	)

	_, err := svc.CreateSkill(ctx, "Algebra", "", nil)
	require.NoError(t, err)

	_, err = svc.CreateSkill(ctx, "Calculus", "", nil)
	assert.True(t, pkgerrors.IsPrecondition(err))
}

func TestSkillService_GetAndList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSkillService(t)

	created, err := svc.CreateSkill(ctx, "b", "", nil)
	require.NoError(t, err)
	_, err = svc.CreateSkill(ctx, "a", "", nil)
	require.NoError(t, err)

	got, err := svc.GetSkill(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.GetSkill(ctx, "6a9bd9c0-0000-4000-8000-000000000000")
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("malformed id is a validation error", func(t *testing.T) {
		_, err := svc.GetSkill(ctx, "nope")
		assert.True(t, pkgerrors.IsValidation(err))
	})

	listed, err := svc.ListSkills(ctx, domainservices.SortByName)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "a", listed[0].Name)
	assert.Equal(t, "b", listed[1].Name)
}

func TestSkillService_UpdateSkill(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSkillService(t)

	a, err := svc.CreateSkill(ctx, "a", "", nil)
	require.NoError(t, err)
	b, err := svc.CreateSkill(ctx, "b", "", nil)
	require.NoError(t, err)
	c, err := svc.CreateSkill(ctx, "c", "", []string{a.ID})
	require.NoError(t, err)

	t.Run("replaces the prerequisite list atomically", func(t *testing.T) {
		updated, err := svc.UpdateSkill(ctx, c.ID, "c2", "updated", []string{b.ID})
		require.NoError(t, err)
		assert.Equal(t, "c2", updated.Name)
		assert.Equal(t, "updated", updated.Description)
		assert.Equal(t, []string{b.ID}, updated.PrerequisiteIDs)
	})

	t.Run("rejected update leaves the skill unchanged", func(t *testing.T) {
		_, err := svc.UpdateSkill(ctx, c.ID, "c3", "", []string{c.ID})
		require.True(t, pkgerrors.IsPrecondition(err))

		got, err := svc.GetSkill(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "c2", got.Name)
		assert.Equal(t, []string{b.ID}, got.PrerequisiteIDs)
	})

	t.Run("unknown skill is not found", func(t *testing.T) {
		_, err := svc.UpdateSkill(ctx, "6a9bd9c0-0000-4000-8000-000000000000", "x", "", nil)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestSkillService_Prerequisites(t *testing.T) {
	ctx := context.Background()
	svc, publisher := newSkillService(t)

	a, err := svc.CreateSkill(ctx, "a", "", nil)
	require.NoError(t, err)
	d, err := svc.CreateSkill(ctx, "d", "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.AddPrerequisite(ctx, d.ID, a.ID))

	prereqs, err := svc.GetPrerequisites(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, prereqs, 1)
	assert.Equal(t, a.ID, prereqs[0].ID)

	successors, err := svc.GetSuccessors(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, successors, 1)
	assert.Equal(t, d.ID, successors[0].ID)

	t.Run("self loop is rejected", func(t *testing.T) {
		err := svc.AddPrerequisite(ctx, d.ID, d.ID)
		assert.True(t, pkgerrors.IsPrecondition(err))
	})

	t.Run("duplicate edge is rejected", func(t *testing.T) {
		err := svc.AddPrerequisite(ctx, d.ID, a.ID)
		assert.True(t, pkgerrors.IsPrecondition(err))
	})

	require.NoError(t, svc.DeletePrerequisite(ctx, d.ID, a.ID))
	prereqs, err = svc.GetPrerequisites(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, prereqs)

	t.Run("edge events were published", func(t *testing.T) {
		var types []string
		for _, event := range publisher.events {
			types = append(types, event.Type)
		}
		assert.Contains(t, types, ports.SkillPrerequisiteAdded)
		assert.Contains(t, types, ports.SkillPrerequisiteDeleted)
	})
}

func TestSkillService_DeleteSkill(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSkillService(t)

	a, err := svc.CreateSkill(ctx, "a", "", nil)
	require.NoError(t, err)
	d, err := svc.CreateSkill(ctx, "d", "", []string{a.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSkill(ctx, a.ID))

	_, err = svc.GetSkill(ctx, a.ID)
	assert.True(t, pkgerrors.IsNotFound(err))

	// The dangling edge was stripped from the dependent skill.
	got, err := svc.GetSkill(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, got.PrerequisiteIDs)

	t.Run("deleting twice is a precondition violation", func(t *testing.T) {
		err := svc.DeleteSkill(ctx, a.ID)
		assert.True(t, pkgerrors.IsPrecondition(err))
	})
}
