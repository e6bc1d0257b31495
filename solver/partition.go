package solver

import (
	"github.com/n9te9/federation-gateway/federation/graph"
	"github.com/n9te9/graphql-parser/ast"
)

// Partition is the solver package's view of a query partition: the
// unit SPEC_FULL §4.3.3 describes as "a contiguous, single-subgraph
// region of the Steiner tree, to be dispatched as one fetch". It is
// deliberately independent of federation/planner.StepV2 (same shape,
// different package) so that planner can import solver without a
// cycle; planner converts its StepV2 list to/from Partition around
// the WireRequirements and SplitDependencyCycles calls.
type Partition struct {
	ID         int
	SubGraph   *graph.SubGraphV2
	ParentType string
	Selections []ast.Selection
	DependsOn  []int
}
