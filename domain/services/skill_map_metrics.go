package services

import (
	"sort"

	"skillmap-backend/domain/core/valueobjects"
)

// SkillMapMetrics is the analytics layer over a SkillMap. It materializes
// the successor relation as a directed graph (every skill is a node even if
// isolated, every successor pair is exactly one edge) and enumerates all
// simple cycles in it. Cycles of length > 1 are tolerated at write time, so
// this is the component that surfaces them.
type SkillMapMetrics struct {
	ids       []valueobjects.SkillID
	index     map[valueobjects.SkillID]int
	adj       [][]int
	edgeCount int
}

// NewSkillMapMetrics builds the successor digraph from a loaded SkillMap
func NewSkillMapMetrics(m *SkillMap) *SkillMapMetrics {
	successors := m.BuildSuccessors()

	mm := &SkillMapMetrics{
		index: make(map[valueobjects.SkillID]int, len(successors)),
	}
	for _, skill := range m.Graph().Skills() {
		mm.index[skill.ID()] = len(mm.ids)
		mm.ids = append(mm.ids, skill.ID())
	}

	mm.adj = make([][]int, len(mm.ids))
	for i, id := range mm.ids {
		for _, dst := range successors[id] {
			mm.adj[i] = append(mm.adj[i], mm.index[dst])
			mm.edgeCount++
		}
	}
	return mm
}

// Nodes returns all node ids in the graph view
func (mm *SkillMapMetrics) Nodes() []valueobjects.SkillID {
	ids := make([]valueobjects.SkillID, len(mm.ids))
	copy(ids, mm.ids)
	return ids
}

// NodeCount returns the number of nodes in the graph view
func (mm *SkillMapMetrics) NodeCount() int {
	return len(mm.ids)
}

// EdgeCount returns the number of (prerequisite -> dependent) edges
func (mm *SkillMapMetrics) EdgeCount() int {
	return mm.edgeCount
}

// HasEdge reports whether the directed edge (from -> to) exists
func (mm *SkillMapMetrics) HasEdge(from, to valueobjects.SkillID) bool {
	fi, ok := mm.index[from]
	if !ok {
		return false
	}
	ti, ok := mm.index[to]
	if !ok {
		return false
	}
	for _, w := range mm.adj[fi] {
		if w == ti {
			return true
		}
	}
	return false
}

// SimpleCycles returns every simple cycle in the successor graph: each cycle
// is a closed directed walk with no repeated vertex except the implicit
// closure. Cycles across disconnected components are found independently,
// and the result is empty (never nil) for an acyclic graph. Self-loops are
// excluded by construction, so every reported cycle has length >= 2.
//
// The algorithm is a Tarjan strongly-connected-components decomposition with
// Johnson's circuit enumeration inside each nontrivial component.
func (mm *SkillMapMetrics) SimpleCycles() [][]valueobjects.SkillID {
	cycles := [][]valueobjects.SkillID{}

	var enumerate func(vertices []int)
	enumerate = func(vertices []int) {
		for _, scc := range mm.stronglyConnected(vertices) {
			if len(scc) < 2 {
				continue
			}
			sort.Ints(scc)
			start := scc[0]
			cycles = append(cycles, mm.circuits(start, scc)...)
			// Cycles not through start live in the component minus start.
			enumerate(scc[1:])
		}
	}

	all := make([]int, len(mm.ids))
	for i := range all {
		all[i] = i
	}
	enumerate(all)
	return cycles
}

// circuits runs Johnson's CIRCUIT procedure from start, restricted to the
// vertices of one strongly connected component.
func (mm *SkillMapMetrics) circuits(start int, scc []int) [][]valueobjects.SkillID {
	inSCC := make(map[int]bool, len(scc))
	for _, v := range scc {
		inSCC[v] = true
	}

	blocked := make(map[int]bool)
	blockList := make(map[int]map[int]bool)
	var stack []int
	var found [][]valueobjects.SkillID

	var unblock func(v int)
	unblock = func(v int) {
		blocked[v] = false
		for w := range blockList[v] {
			delete(blockList[v], w)
			if blocked[w] {
				unblock(w)
			}
		}
	}

	var circuit func(v int) bool
	circuit = func(v int) bool {
		closed := false
		stack = append(stack, v)
		blocked[v] = true

		for _, w := range mm.adj[v] {
			if !inSCC[w] {
				continue
			}
			if w == start {
				cycle := make([]valueobjects.SkillID, len(stack))
				for i, u := range stack {
					cycle[i] = mm.ids[u]
				}
				found = append(found, cycle)
				closed = true
			} else if !blocked[w] {
				if circuit(w) {
					closed = true
				}
			}
		}

		if closed {
			unblock(v)
		} else {
			for _, w := range mm.adj[v] {
				if !inSCC[w] {
					continue
				}
				if blockList[w] == nil {
					blockList[w] = make(map[int]bool)
				}
				blockList[w][v] = true
			}
		}

		stack = stack[:len(stack)-1]
		return closed
	}

	circuit(start)
	return found
}

// stronglyConnected runs Tarjan's algorithm over the subgraph induced by the
// given vertices and returns its strongly connected components.
func (mm *SkillMapMetrics) stronglyConnected(vertices []int) [][]int {
	in := make(map[int]bool, len(vertices))
	for _, v := range vertices {
		in[v] = true
	}

	index := make(map[int]int)
	lowlink := make(map[int]int)
	onStack := make(map[int]bool)
	var stack []int
	next := 0
	var sccs [][]int

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range mm.adj[v] {
			if !in[w] {
				continue
			}
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && index[w] < lowlink[v] {
				lowlink[v] = index[w]
			}
		}

		if lowlink[v] == index[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, v := range vertices {
		if _, seen := index[v]; !seen {
			strongconnect(v)
		}
	}
	return sccs
}
