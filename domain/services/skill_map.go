package services

import (
	"sort"

	"skillmap-backend/domain/core/aggregates"
	"skillmap-backend/domain/core/entities"
	"skillmap-backend/domain/core/valueobjects"
	pkgerrors "skillmap-backend/pkg/errors"
)

// SortPolicy selects the ordering of Skills()
type SortPolicy string

const (
	// SortNone keeps natural (insertion) order
	SortNone SortPolicy = ""
	// SortByName orders lexicographically by skill name
	SortByName SortPolicy = "name"
	// SortByLesson orders by the (unit, lesson) position of the first lesson
	// that teaches the skill, ties broken by original order
	SortByLesson SortPolicy = "lesson"
	// SortByPrerequisites is a topological order consistent with the
	// prerequisite relation
	SortByPrerequisites SortPolicy = "prerequisites"
)

// ErrCyclicGraph is returned by topological operations when the underlying
// graph contains a cycle. Callers should use SkillMapMetrics.SimpleCycles to
// diagnose it.
var ErrCyclicGraph = pkgerrors.NewPreconditionError("skill graph contains a cycle")

// SkillMap is a read/derive view over a SkillGraph scoped to a course,
// joining skills to the lessons that teach them. It does not own skills and
// is rebuilt on each load.
type SkillMap struct {
	graph          *aggregates.SkillGraph
	course         *entities.Course
	lessonsBySkill map[valueobjects.SkillID][]entities.LessonLocation
}

// LoadSkillMap builds a SkillMap from a graph snapshot and the course's
// lesson set. A nil course yields a map with no lesson assignments.
func LoadSkillMap(graph *aggregates.SkillGraph, course *entities.Course) *SkillMap {
	m := &SkillMap{
		graph:          graph,
		course:         course,
		lessonsBySkill: make(map[valueobjects.SkillID][]entities.LessonLocation),
	}
	if course != nil {
		for _, loc := range course.AllLessons() {
			for _, sid := range loc.Lesson.SkillIDs {
				m.lessonsBySkill[sid] = append(m.lessonsBySkill[sid], loc)
			}
		}
	}
	return m
}

// Graph returns the underlying graph snapshot
func (m *SkillMap) Graph() *aggregates.SkillGraph {
	return m.graph
}

// Skills produces all skills in the map ordered by the given policy.
// SortByPrerequisites fails with ErrCyclicGraph when the graph is cyclic.
func (m *SkillMap) Skills(sortBy SortPolicy) ([]*entities.Skill, error) {
	skills := m.graph.Skills()

	switch sortBy {
	case SortNone:
		return skills, nil

	case SortByName:
		sort.SliceStable(skills, func(i, j int) bool {
			if skills[i].Name() != skills[j].Name() {
				return skills[i].Name() < skills[j].Name()
			}
			return skills[i].ID().String() < skills[j].ID().String()
		})
		return skills, nil

	case SortByLesson:
		sort.SliceStable(skills, func(i, j int) bool {
			ui, li, oki := m.firstLessonPosition(skills[i].ID())
			uj, lj, okj := m.firstLessonPosition(skills[j].ID())
			if oki != okj {
				// Skills taught somewhere come before untaught ones.
				return oki
			}
			if !oki {
				return false
			}
			if ui != uj {
				return ui < uj
			}
			return li < lj
		})
		return skills, nil

	case SortByPrerequisites:
		coSets, err := m.TopoCoSets()
		if err != nil {
			return nil, err
		}
		ordered := make([]*entities.Skill, 0, len(skills))
		for _, coSet := range coSets {
			layer := make([]*entities.Skill, 0, len(coSet))
			for id := range coSet {
				if skill, ok := m.graph.Get(id); ok {
					layer = append(layer, skill)
				}
			}
			// Deterministic order among mutually independent skills.
			sort.Slice(layer, func(i, j int) bool {
				if layer[i].Name() != layer[j].Name() {
					return layer[i].Name() < layer[j].Name()
				}
				return layer[i].ID().String() < layer[j].ID().String()
			})
			ordered = append(ordered, layer...)
		}
		return ordered, nil

	default:
		return nil, pkgerrors.NewValidationError("unknown sort policy: " + string(sortBy))
	}
}

// GetLessonsForSkill returns the lessons that teach the skill, in ascending
// (unit, lesson) position order. The result is empty (never nil) when no
// lesson teaches the skill.
func (m *SkillMap) GetLessonsForSkill(id valueobjects.SkillID) []*entities.Lesson {
	lessons := []*entities.Lesson{}
	for _, loc := range m.lessonsBySkill[id] {
		lessons = append(lessons, loc.Lesson)
	}
	return lessons
}

// LessonLocationsForSkill returns the lesson locations that teach the skill,
// including unit/lesson positions, in ascending position order.
func (m *SkillMap) LessonLocationsForSkill(id valueobjects.SkillID) []entities.LessonLocation {
	locs := make([]entities.LessonLocation, len(m.lessonsBySkill[id]))
	copy(locs, m.lessonsBySkill[id])
	return locs
}

// BuildSuccessors returns the full inverse of the prerequisite relation:
// skill id -> the set of skill ids that list it as a prerequisite. Every
// skill appears as a key, even if isolated.
func (m *SkillMap) BuildSuccessors() map[valueobjects.SkillID][]valueobjects.SkillID {
	successors := make(map[valueobjects.SkillID][]valueobjects.SkillID, m.graph.Len())
	for _, skill := range m.graph.Skills() {
		if _, ok := successors[skill.ID()]; !ok {
			successors[skill.ID()] = []valueobjects.SkillID{}
		}
		for _, pid := range skill.PrerequisiteIDs() {
			successors[pid] = append(successors[pid], skill.ID())
		}
	}
	return successors
}

// TopoCoSets computes topological co-sets: co-set k contains exactly the
// skills whose longest prerequisite chain from any root has length k. Co-set
// 0 is all skills with no prerequisites. Returns ErrCyclicGraph when no
// layering exists.
func (m *SkillMap) TopoCoSets() ([]map[valueobjects.SkillID]struct{}, error) {
	skills := m.graph.Skills()

	depth := make(map[valueobjects.SkillID]int, len(skills))
	remaining := len(skills)

	for remaining > 0 {
		progress := false
		for _, skill := range skills {
			if _, done := depth[skill.ID()]; done {
				continue
			}

			d := 0
			ready := true
			for _, pid := range skill.PrerequisiteIDs() {
				if !m.graph.Has(pid) {
					// Dangling reference in trusted persisted data; treat
					// as satisfied.
					continue
				}
				pd, ok := depth[pid]
				if !ok {
					ready = false
					break
				}
				if pd+1 > d {
					d = pd + 1
				}
			}
			if !ready {
				continue
			}

			depth[skill.ID()] = d
			remaining--
			progress = true
		}
		if remaining > 0 && !progress {
			return nil, ErrCyclicGraph
		}
	}

	maxDepth := -1
	for _, d := range depth {
		if d > maxDepth {
			maxDepth = d
		}
	}

	coSets := make([]map[valueobjects.SkillID]struct{}, maxDepth+1)
	for i := range coSets {
		coSets[i] = make(map[valueobjects.SkillID]struct{})
	}
	for id, d := range depth {
		coSets[d][id] = struct{}{}
	}
	return coSets, nil
}

// firstLessonPosition returns the (unit, lesson) position of the first
// lesson teaching the skill, and whether any lesson teaches it.
func (m *SkillMap) firstLessonPosition(id valueobjects.SkillID) (int, int, bool) {
	locs := m.lessonsBySkill[id]
	if len(locs) == 0 {
		return 0, 0, false
	}
	return locs[0].UnitIndex, locs[0].LessonIndex, true
}
