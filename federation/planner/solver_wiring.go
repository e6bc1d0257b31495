package planner

import (
	"github.com/n9te9/federation-gateway/solver"
)

// injectRequiresDependencies runs the solver package's requirement
// wiring and dependency-cycle splitting passes over the plan's steps,
// per SPEC_FULL.md §4.3.3-4.3.4. It converts the plan's StepV2 list
// into solver.Partition values (the solver package's own view of a
// query partition, kept independent of planner to avoid an import
// cycle), runs the two solver passes, then folds the result back into
// plan.Steps, appending any partitions the cycle splitter had to
// clone as brand-new steps.
func (p *PlannerV2) injectRequiresDependencies(plan *PlanV2) {
	partitions := make([]*solver.Partition, len(plan.Steps))
	for i, step := range plan.Steps {
		partitions[i] = &solver.Partition{
			ID:         step.ID,
			SubGraph:   step.SubGraph,
			ParentType: step.ParentType,
			Selections: step.SelectionSet,
			DependsOn:  append([]int{}, step.DependsOn...),
		}
	}

	solver.WireRequirements(partitions)

	split, err := solver.SplitDependencyCycles(partitions)
	if err != nil {
		// CyclicPlan per SPEC_FULL §4.3.5: this should be unreachable
		// for schemas that pass composition. Leave the plan as wired
		// by WireRequirements rather than panicking the request.
		split = partitions
	}

	stepByID := make(map[int]*StepV2, len(plan.Steps))
	for _, step := range plan.Steps {
		stepByID[step.ID] = step
	}

	plan.Steps = plan.Steps[:0]
	for _, part := range split {
		step, ok := stepByID[part.ID]
		if !ok {
			// A clone produced by the cycle splitter: synthesize a new
			// StepV2 that shares its origin's shape but carries the
			// clone's narrowed DependsOn.
			step = &StepV2{
				ID:           part.ID,
				SubGraph:     part.SubGraph,
				StepType:     StepTypeEntity,
				ParentType:   part.ParentType,
				SelectionSet: part.Selections,
			}
		}
		step.SelectionSet = part.Selections
		step.DependsOn = part.DependsOn
		plan.Steps = append(plan.Steps, step)
	}
}
