package solver_test

import (
	"testing"

	"github.com/n9te9/federation-gateway/solver"
)

func TestSplitDependencyCyclesNoCycle(t *testing.T) {
	partitions := []*solver.Partition{
		{ID: 0, ParentType: "Query"},
		{ID: 1, ParentType: "Product", DependsOn: []int{0}},
	}

	out, err := solver.SplitDependencyCycles(partitions)
	if err != nil {
		t.Fatalf("SplitDependencyCycles: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected no new partitions for an acyclic plan, got %d", len(out))
	}
}

func TestSplitDependencyCyclesBreaksSelfCycle(t *testing.T) {
	// 0 -> 1 -> 0 is a dependency cycle between two partitions of the
	// same region; the splitter must clone one side so that neither
	// partition transitively depends on itself.
	partitions := []*solver.Partition{
		{ID: 0, ParentType: "Product", DependsOn: []int{1}},
		{ID: 1, ParentType: "Review", DependsOn: []int{0}},
	}

	out, err := solver.SplitDependencyCycles(partitions)
	if err != nil {
		t.Fatalf("SplitDependencyCycles: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected the cycle splitter to add one clone, got %d partitions", len(out))
	}

	byID := make(map[int]*solver.Partition, len(out))
	for _, p := range out {
		byID[p.ID] = p
	}

	// No partition should depend (directly, post-split) on a
	// partition that depends back on it.
	for _, p := range out {
		for _, dep := range p.DependsOn {
			other := byID[dep]
			for _, otherDep := range other.DependsOn {
				if otherDep == p.ID {
					t.Fatalf("cycle remains between partitions %d and %d", p.ID, other.ID)
				}
			}
		}
	}
}
