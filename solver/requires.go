package solver

import (
	"github.com/n9te9/graphql-parser/ast"
	"github.com/n9te9/graphql-parser/token"
)

// WireRequirements implements SPEC_FULL §4.3.4: for every partition
// whose subgraph declares @requires on a selected field, find the
// partition(s) owning the required data, inject the missing fields
// into their selection sets, and add a DependsOn edge so the executor
// orders the fetches correctly. Grounded on the teacher's V1
// planner.solveRequiresField / findOwnerStep / injectField
// (federation/planner/planner.go), generalized from V1's
// []*Selection tree onto V2's ast.Selection-based partitions.
func WireRequirements(partitions []*Partition) {
	for _, p := range partitions {
		required := requiredFieldsOf(p)
		for parentType, fields := range required {
			for _, reqField := range fields {
				owner := findOwnerPartition(partitions, p, parentType)
				if owner == nil {
					continue
				}

				if injectField(owner, parentType, reqField) {
					addDependency(p, owner.ID)
				}
			}
		}
	}
}

// requiredFieldsOf walks a partition's own subgraph field definitions
// and collects the @requires(fields:) field sets declared on the
// fields it selects, keyed by the parent type those fields are
// requested on.
func requiredFieldsOf(p *Partition) map[string][]string {
	required := make(map[string][]string)

	var walk func(parentType string, selections []ast.Selection)
	walk = func(parentType string, selections []ast.Selection) {
		entity, ok := p.SubGraph.GetEntity(parentType)
		for _, sel := range selections {
			field, ok2 := sel.(*ast.Field)
			if !ok2 {
				continue
			}
			name := field.Name.String()

			if ok {
				if fdef, has := entity.Fields[name]; has && len(fdef.Requires) > 0 {
					required[parentType] = append(required[parentType], fdef.Requires...)
				}
			}

			if len(field.SelectionSet) > 0 {
				walk(name, field.SelectionSet)
			}
		}
	}
	walk(p.ParentType, p.Selections)

	return required
}

// findOwnerPartition locates another partition in the plan whose
// top-level ParentType is parentType and whose subgraph actually owns
// that entity. V2's entity-step architecture means every type that
// can be independently fetched gets its own partition with ParentType
// set to that entity, so a top-level match is sufficient; mirrors
// V1's findOwnerStep without needing V1's full-tree search.
func findOwnerPartition(partitions []*Partition, requester *Partition, parentType string) *Partition {
	for _, p := range partitions {
		if p.ID == requester.ID {
			continue
		}
		if p.ParentType == parentType {
			if _, ok := p.SubGraph.GetEntity(parentType); ok {
				return p
			}
		}
	}
	return nil
}

// injectField adds field to owner's top-level selection set if it is
// not already present, returning true if owner now (or already)
// resolves it, so the caller knows to add a DependsOn edge.
func injectField(owner *Partition, parentType, field string) bool {
	if owner.ParentType != parentType {
		return false
	}

	for _, sel := range owner.Selections {
		f, ok := sel.(*ast.Field)
		if ok && f.Name.String() == field {
			return true
		}
	}

	owner.Selections = append(owner.Selections, &ast.Field{
		Name: &ast.Name{
			Token: token.Token{Type: token.IDENT, Literal: field},
			Value: field,
		},
	})
	return true
}

// addDependency adds ownerID to p.DependsOn if not already present.
func addDependency(p *Partition, ownerID int) {
	for _, id := range p.DependsOn {
		if id == ownerID {
			return
		}
	}
	p.DependsOn = append(p.DependsOn, ownerID)
}
