package services_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillmap-backend/domain/core/aggregates"
	"skillmap-backend/domain/core/entities"
	"skillmap-backend/domain/core/valueobjects"
	domainservices "skillmap-backend/domain/services"
	"skillmap-backend/infrastructure/persistence/memory"
)

func cycleNames(skills map[string]*entities.Skill, cycle []valueobjects.SkillID) []string {
	byID := make(map[valueobjects.SkillID]string, len(skills))
	for name, skill := range skills {
		byID[skill.ID()] = name
	}
	out := make([]string, 0, len(cycle))
	for _, id := range cycle {
		out = append(out, byID[id])
	}
	sort.Strings(out)
	return out
}

func TestSkillMapMetrics_GraphShape(t *testing.T) {
	graph, skills := sampleGraph(t)
	skillMap := domainservices.LoadSkillMap(graph, nil)
	metrics := domainservices.NewSkillMapMetrics(skillMap)

	// The graph view mirrors the successor relation exactly: one node per
	// skill, one edge per successor pair.
	assert.Equal(t, graph.Len(), metrics.NodeCount())
	assert.Equal(t, 4, metrics.EdgeCount())

	assert.True(t, metrics.HasEdge(skills["a"].ID(), skills["d"].ID()))
	assert.True(t, metrics.HasEdge(skills["b"].ID(), skills["d"].ID()))
	assert.True(t, metrics.HasEdge(skills["c"].ID(), skills["e"].ID()))
	assert.True(t, metrics.HasEdge(skills["e"].ID(), skills["f"].ID()))
	assert.False(t, metrics.HasEdge(skills["d"].ID(), skills["a"].ID()))
	assert.False(t, metrics.HasEdge(skills["a"].ID(), valueobjects.NewSkillID()))
}

func TestSkillMapMetrics_SimpleCyclesAcyclic(t *testing.T) {
	graph, _ := sampleGraph(t)
	skillMap := domainservices.LoadSkillMap(graph, nil)
	metrics := domainservices.NewSkillMapMetrics(skillMap)

	cycles := metrics.SimpleCycles()
	assert.NotNil(t, cycles)
	assert.Empty(t, cycles)
}

func TestSkillMapMetrics_SimpleCyclesEmptyGraph(t *testing.T) {
	graph, err := aggregates.LoadSkillGraph(context.Background(), memory.NewInMemorySkillRepository())
	require.NoError(t, err)

	metrics := domainservices.NewSkillMapMetrics(domainservices.LoadSkillMap(graph, nil))
	assert.Equal(t, 0, metrics.NodeCount())
	assert.Empty(t, metrics.SimpleCycles())
}

func TestSkillMapMetrics_SimpleCyclesOneCycle(t *testing.T) {
	ctx := context.Background()
	graph, skills := sampleGraph(t)
	// a -> d exists; d -> a closes a 2-cycle.
	require.NoError(t, graph.AddPrerequisite(ctx, skills["a"].ID(), skills["d"].ID()))

	metrics := domainservices.NewSkillMapMetrics(domainservices.LoadSkillMap(graph, nil))
	cycles := metrics.SimpleCycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "d"}, cycleNames(skills, cycles[0]))
}

func TestSkillMapMetrics_SimpleCyclesDisjoint(t *testing.T) {
	ctx := context.Background()
	graph, skills := sampleGraph(t)
	require.NoError(t, graph.AddPrerequisite(ctx, skills["a"].ID(), skills["d"].ID()))

	// A second, disconnected cycle: g <-> h.
	for _, name := range []string{"g", "h"} {
		skill, err := entities.NewSkill(name, "")
		require.NoError(t, err)
		stored, err := graph.Add(ctx, skill)
		require.NoError(t, err)
		skills[name] = stored
	}
	require.NoError(t, graph.AddPrerequisite(ctx, skills["g"].ID(), skills["h"].ID()))
	require.NoError(t, graph.AddPrerequisite(ctx, skills["h"].ID(), skills["g"].ID()))

	metrics := domainservices.NewSkillMapMetrics(domainservices.LoadSkillMap(graph, nil))
	cycles := metrics.SimpleCycles()
	require.Len(t, cycles, 2)

	var got [][]string
	for _, cycle := range cycles {
		got = append(got, cycleNames(skills, cycle))
	}
	assert.ElementsMatch(t, [][]string{{"a", "d"}, {"g", "h"}}, got)
}
