// Package validation enforces operation-level limits and structural
// soundness checks ahead of planning, per SPEC_FULL.md §4.2. It is
// grounded on gateway.validateAccessibility's walk of an
// *ast.Document's selection sets (gateway/gateway.go), generalized
// from a single @inaccessible check into the full limits/fragment
// validation pass the teacher's own TODO left unimplemented.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/n9te9/federation-gateway/schema"
	"github.com/n9te9/graphql-parser/ast"
)

// LimitError reports which operation limit was exceeded.
type LimitError struct {
	Limit    string
	Value    uint16
	Max      uint16
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("operation exceeds %s limit: %d > %d", e.Limit, e.Value, e.Max)
}

// CheckLimits walks every operation in doc and enforces the
// depth/height/alias-count/root-field-count/complexity ceilings
// configured in limits. A nil field in OperationLimits means that
// particular limit is unbounded, matching the schema package's
// "*uint16 absent = no limit" convention (schema/schema.go).
func CheckLimits(doc *ast.Document, fragmentDefs map[string]*ast.FragmentDefinition, limits schema.OperationLimits) error {
	for _, def := range doc.Definitions {
		opDef, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}

		if limits.RootFields != nil {
			count := countRootFields(opDef.SelectionSet, fragmentDefs)
			if count > *limits.RootFields {
				return &LimitError{Limit: "root_fields", Value: count, Max: *limits.RootFields}
			}
		}

		if limits.Depth != nil {
			depth := measureDepth(opDef.SelectionSet, fragmentDefs, 0)
			if depth > *limits.Depth {
				return &LimitError{Limit: "depth", Value: depth, Max: *limits.Depth}
			}
		}

		if limits.Height != nil {
			height := countSelections(opDef.SelectionSet, fragmentDefs, map[string]bool{})
			if height > *limits.Height {
				return &LimitError{Limit: "height", Value: height, Max: *limits.Height}
			}
		}

		if limits.Aliases != nil {
			aliases := countAliases(opDef.SelectionSet, fragmentDefs, map[string]bool{})
			if aliases > *limits.Aliases {
				return &LimitError{Limit: "aliases", Value: aliases, Max: *limits.Aliases}
			}
		}

		if limits.Complexity != nil {
			complexity := estimateComplexity(opDef.SelectionSet, fragmentDefs, map[string]bool{})
			if complexity > *limits.Complexity {
				return &LimitError{Limit: "complexity", Value: complexity, Max: *limits.Complexity}
			}
		}
	}

	return nil
}

func countRootFields(sels []ast.Selection, fragmentDefs map[string]*ast.FragmentDefinition) uint16 {
	var count uint16
	for _, sel := range sels {
		switch s := sel.(type) {
		case *ast.Field:
			count++
		case *ast.InlineFragment:
			count += countRootFields(s.SelectionSet, fragmentDefs)
		case *ast.FragmentSpread:
			if frag, ok := fragmentDefs[s.Name.String()]; ok {
				count += countRootFields(frag.SelectionSet, fragmentDefs)
			}
		}
	}
	return count
}

// measureDepth returns the longest selection-set nesting chain,
// starting the top-level fields at depth 1.
func measureDepth(sels []ast.Selection, fragmentDefs map[string]*ast.FragmentDefinition, current uint16) uint16 {
	var max uint16
	for _, sel := range sels {
		switch s := sel.(type) {
		case *ast.Field:
			d := current + 1
			if len(s.SelectionSet) > 0 {
				d = measureDepth(s.SelectionSet, fragmentDefs, current+1)
			}
			if d > max {
				max = d
			}
		case *ast.InlineFragment:
			d := measureDepth(s.SelectionSet, fragmentDefs, current)
			if d > max {
				max = d
			}
		case *ast.FragmentSpread:
			if frag, ok := fragmentDefs[s.Name.String()]; ok {
				d := measureDepth(frag.SelectionSet, fragmentDefs, current)
				if d > max {
					max = d
				}
			}
		}
	}
	return max
}

// countSelections counts every field selection reachable from sels,
// following fragment spreads by name with cycle protection (a cyclic
// fragment is caught separately by CheckFragments; here we simply
// refuse to re-enter a fragment already on the active path so this
// pass terminates even if called before cycle detection).
func countSelections(sels []ast.Selection, fragmentDefs map[string]*ast.FragmentDefinition, active map[string]bool) uint16 {
	var count uint16
	for _, sel := range sels {
		switch s := sel.(type) {
		case *ast.Field:
			count++
			count += countSelections(s.SelectionSet, fragmentDefs, active)
		case *ast.InlineFragment:
			count += countSelections(s.SelectionSet, fragmentDefs, active)
		case *ast.FragmentSpread:
			name := s.Name.String()
			if active[name] {
				continue
			}
			if frag, ok := fragmentDefs[name]; ok {
				active[name] = true
				count += countSelections(frag.SelectionSet, fragmentDefs, active)
				delete(active, name)
			}
		}
	}
	return count
}

func countAliases(sels []ast.Selection, fragmentDefs map[string]*ast.FragmentDefinition, active map[string]bool) uint16 {
	var count uint16
	for _, sel := range sels {
		switch s := sel.(type) {
		case *ast.Field:
			if s.Alias != nil && s.Alias.String() != "" {
				count++
			}
			count += countAliases(s.SelectionSet, fragmentDefs, active)
		case *ast.InlineFragment:
			count += countAliases(s.SelectionSet, fragmentDefs, active)
		case *ast.FragmentSpread:
			name := s.Name.String()
			if active[name] {
				continue
			}
			if frag, ok := fragmentDefs[name]; ok {
				active[name] = true
				count += countAliases(frag.SelectionSet, fragmentDefs, active)
				delete(active, name)
			}
		}
	}
	return count
}

// estimateComplexity sums @cost(weight:) directive values across the
// selection tree, defaulting every field lacking an explicit weight
// to 1. It reads the directives on the operation's own selections,
// not FieldRecord.Cost from the schema.
func estimateComplexity(sels []ast.Selection, fragmentDefs map[string]*ast.FragmentDefinition, active map[string]bool) uint16 {
	var total uint16
	for _, sel := range sels {
		switch s := sel.(type) {
		case *ast.Field:
			total += fieldWeight(s)
			total += estimateComplexity(s.SelectionSet, fragmentDefs, active)
		case *ast.InlineFragment:
			total += estimateComplexity(s.SelectionSet, fragmentDefs, active)
		case *ast.FragmentSpread:
			name := s.Name.String()
			if active[name] {
				continue
			}
			if frag, ok := fragmentDefs[name]; ok {
				active[name] = true
				total += estimateComplexity(frag.SelectionSet, fragmentDefs, active)
				delete(active, name)
			}
		}
	}
	return total
}

func fieldWeight(f *ast.Field) uint16 {
	for _, d := range f.Directives {
		if d.Name != "cost" {
			continue
		}
		for _, arg := range d.Arguments {
			if arg.Name.String() != "weight" {
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(arg.Value.String()))
			if err == nil && n >= 0 {
				return uint16(n)
			}
		}
	}
	return 1
}
