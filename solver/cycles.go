package solver

import (
	"fmt"
	"log/slog"
)

const maxCycleSplitIterations = 100

// ErrCyclicPlan is returned when the cycle splitter cannot reduce the
// dependency graph to a DAG within the iteration cap. Per SPEC_FULL
// §4.3.5 this should be unreachable for schemas that pass composition
// but must be reported rather than looped.
type ErrCyclicPlan struct {
	Iterations int
}

func (e *ErrCyclicPlan) Error() string {
	return fmt.Sprintf("CyclicPlan: dependency cycle remained after %d splitting iterations", e.Iterations)
}

// SplitDependencyCycles enforces SPEC_FULL §3.3 / §4.3.3's "no
// self-dependent partition" invariant. Cycle *detection* is a
// depth-first search over DependsOn edges (findCycleEdge), and the
// splitting strategy is read off
// original_source/crates/engine/query-solver/src/post_process/partition_cycles.rs.
//
// Simplification versus the original: partition_cycles.rs moves only
// the specific fields that introduce the back-edge into a fresh
// sibling partition. Partition here carries no per-field provenance
// of which dependency required it, so this implementation instead
// clones the whole offending partition: the clone keeps only the
// cycle-causing dependency, the original drops it, and both are kept
// (the clone's fetch is redundant work, not a correctness bug — it
// trades a few duplicate fields for terminating the cycle).
func SplitDependencyCycles(partitions []*Partition) ([]*Partition, error) {
	for i := 0; i < maxCycleSplitIterations; i++ {
		from, to, ok := findCycleEdge(partitions)
		if !ok {
			return partitions, nil
		}

		slog.Warn("splitting query partition dependency cycle",
			"iteration", i, "from_partition", from, "to_partition", to)

		partitions = splitCycleEdge(partitions, from, to)
	}

	return nil, &ErrCyclicPlan{Iterations: maxCycleSplitIterations}
}

// findCycleEdge runs a DFS over DependsOn edges and returns the last
// edge (from -> to) closing a cycle, i.e. "from" transitively depends
// on itself through "to".
func findCycleEdge(partitions []*Partition) (from, to int, found bool) {
	byID := make(map[int]*Partition, len(partitions))
	for _, p := range partitions {
		byID[p.ID] = p
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[int]int, len(partitions))

	var visit func(id int) (int, int, bool)
	visit = func(id int) (int, int, bool) {
		color[id] = gray
		p := byID[id]
		for _, dep := range p.DependsOn {
			switch color[dep] {
			case gray:
				return id, dep, true
			case white:
				if f, t, ok := visit(dep); ok {
					return f, t, true
				}
			}
		}
		color[id] = black
		return 0, 0, false
	}

	for _, p := range partitions {
		if color[p.ID] == white {
			if f, t, ok := visit(p.ID); ok {
				return f, t, true
			}
		}
	}

	return 0, 0, false
}

// splitCycleEdge clones the "from" partition, keeping only the "to"
// dependency on the clone and dropping it from the original, which
// removes the closing edge of the cycle found by findCycleEdge.
func splitCycleEdge(partitions []*Partition, from, to int) []*Partition {
	nextID := 0
	for _, p := range partitions {
		if p.ID >= nextID {
			nextID = p.ID + 1
		}
	}

	out := make([]*Partition, 0, len(partitions)+1)
	for _, p := range partitions {
		if p.ID != from {
			out = append(out, p)
			continue
		}

		remaining := make([]int, 0, len(p.DependsOn))
		for _, dep := range p.DependsOn {
			if dep != to {
				remaining = append(remaining, dep)
			}
		}

		clone := &Partition{
			ID:         nextID,
			SubGraph:   p.SubGraph,
			ParentType: p.ParentType,
			Selections: p.Selections,
			DependsOn:  []int{to},
		}

		p.DependsOn = remaining
		out = append(out, p, clone)
	}

	return out
}
