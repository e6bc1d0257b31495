package validation

import (
	"fmt"

	"github.com/n9te9/graphql-parser/ast"
)

// FragmentError reports a structurally invalid fragment reference: a
// spread of an undefined fragment or a fragment cycle.
type FragmentError struct {
	FragmentName string
	Reason       string
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("fragment %q: %s", e.FragmentName, e.Reason)
}

// CollectFragmentDefinitions indexes every named fragment in doc,
// mirroring PlannerV2.collectFragmentDefinitions
// (federation/planner/planner_v2.go) so validation and planning walk
// the same fragment map.
func CollectFragmentDefinitions(doc *ast.Document) map[string]*ast.FragmentDefinition {
	fragments := make(map[string]*ast.FragmentDefinition)
	for _, def := range doc.Definitions {
		if fragDef, ok := def.(*ast.FragmentDefinition); ok {
			fragments[fragDef.Name.String()] = fragDef
		}
	}
	return fragments
}

// CheckFragments rejects fragment spreads that name an undefined
// fragment and fragment definitions that form a reference cycle
// (directly or transitively spreading themselves), either of which
// would otherwise recurse forever when the planner expands fragments.
func CheckFragments(doc *ast.Document, fragmentDefs map[string]*ast.FragmentDefinition) error {
	for _, def := range doc.Definitions {
		switch d := def.(type) {
		case *ast.OperationDefinition:
			if err := checkSpreadsResolve(d.SelectionSet, fragmentDefs); err != nil {
				return err
			}
		case *ast.FragmentDefinition:
			if err := checkSpreadsResolve(d.SelectionSet, fragmentDefs); err != nil {
				return err
			}
		}
	}

	for name := range fragmentDefs {
		if err := checkFragmentCycle(name, fragmentDefs, map[string]bool{}); err != nil {
			return err
		}
	}

	return nil
}

func checkSpreadsResolve(sels []ast.Selection, fragmentDefs map[string]*ast.FragmentDefinition) error {
	for _, sel := range sels {
		switch s := sel.(type) {
		case *ast.Field:
			if err := checkSpreadsResolve(s.SelectionSet, fragmentDefs); err != nil {
				return err
			}
		case *ast.InlineFragment:
			if err := checkSpreadsResolve(s.SelectionSet, fragmentDefs); err != nil {
				return err
			}
		case *ast.FragmentSpread:
			name := s.Name.String()
			if _, ok := fragmentDefs[name]; !ok {
				return &FragmentError{FragmentName: name, Reason: "spread of undefined fragment"}
			}
		}
	}
	return nil
}

func checkFragmentCycle(name string, fragmentDefs map[string]*ast.FragmentDefinition, path map[string]bool) error {
	if path[name] {
		return &FragmentError{FragmentName: name, Reason: "fragment spread forms a cycle"}
	}
	frag, ok := fragmentDefs[name]
	if !ok {
		return nil
	}
	path[name] = true
	defer delete(path, name)

	for _, sel := range frag.SelectionSet {
		if err := walkForCycles(sel, fragmentDefs, path); err != nil {
			return err
		}
	}
	return nil
}

func walkForCycles(sel ast.Selection, fragmentDefs map[string]*ast.FragmentDefinition, path map[string]bool) error {
	switch s := sel.(type) {
	case *ast.Field:
		for _, child := range s.SelectionSet {
			if err := walkForCycles(child, fragmentDefs, path); err != nil {
				return err
			}
		}
	case *ast.InlineFragment:
		for _, child := range s.SelectionSet {
			if err := walkForCycles(child, fragmentDefs, path); err != nil {
				return err
			}
		}
	case *ast.FragmentSpread:
		if err := checkFragmentCycle(s.Name.String(), fragmentDefs, path); err != nil {
			return err
		}
	}
	return nil
}
