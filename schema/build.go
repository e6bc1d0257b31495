package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/n9te9/federation-gateway/federation/graph"
	"github.com/n9te9/graphql-parser/ast"
)

// Build ingests a composed SuperGraphV2 into the immutable, id-indexed
// Schema described in SPEC_FULL.md §3.1. It runs the same two-pass
// strategy the teacher's composeSchema tolerates forward references
// with: first allocate a type id for every named type, then resolve
// field types, arguments and resolver sets against those ids.
func Build(sg *graph.SuperGraphV2) (*Schema, error) {
	s := &Schema{byName: make(map[string]TypeID)}

	if err := s.allocateTypes(sg.Schema); err != nil {
		return nil, fmt.Errorf("schema: allocate types: %w", err)
	}
	if err := s.resolveFields(sg.Schema); err != nil {
		return nil, fmt.Errorf("schema: resolve fields: %w", err)
	}
	s.resolveRootTypes(sg.Schema)

	if err := s.buildSubgraphsAndResolvers(sg); err != nil {
		return nil, fmt.Errorf("schema: build resolvers: %w", err)
	}

	return s, nil
}

func (s *Schema) allocateTypes(doc *ast.Document) error {
	for _, def := range doc.Definitions {
		var name string
		var kind TypeKind

		switch d := def.(type) {
		case *ast.ObjectTypeDefinition:
			name, kind = d.Name.String(), KindObject
		case *ast.ObjectTypeExtension:
			name, kind = d.Name.String(), KindObject
		case *ast.InterfaceTypeDefinition:
			name, kind = d.Name.String(), KindInterface
		case *ast.UnionTypeDefinition:
			name, kind = d.Name.String(), KindUnion
		case *ast.EnumTypeDefinition:
			name, kind = d.Name.String(), KindEnum
		case *ast.InputObjectTypeDefinition:
			name, kind = d.Name.String(), KindInputObject
		case *ast.ScalarTypeDefinition:
			name, kind = d.Name.String(), KindScalar
		default:
			continue
		}

		if _, exists := s.byName[name]; exists {
			continue
		}

		id := TypeID(len(s.Types))
		s.Types = append(s.Types, TypeRecord{Name: name, Kind: kind})
		s.byName[name] = id
	}

	if _, ok := s.byName["Query"]; !ok {
		id := TypeID(len(s.Types))
		s.Types = append(s.Types, TypeRecord{Name: "Query", Kind: KindObject})
		s.byName["Query"] = id
	}

	return nil
}

func (s *Schema) resolveFields(doc *ast.Document) error {
	for _, def := range doc.Definitions {
		switch d := def.(type) {
		case *ast.ObjectTypeDefinition:
			if err := s.addFields(d.Name.String(), d.Fields, d.Directives); err != nil {
				return err
			}
		case *ast.ObjectTypeExtension:
			if err := s.addFields(d.Name.String(), d.Fields, nil); err != nil {
				return err
			}
		case *ast.InterfaceTypeDefinition:
			if err := s.addFields(d.Name.String(), d.Fields, d.Directives); err != nil {
				return err
			}
		case *ast.UnionTypeDefinition:
			s.addUnionMembers(d)
		}
	}
	return nil
}

func (s *Schema) addUnionMembers(d *ast.UnionTypeDefinition) {
	tid, ok := s.byName[d.Name.String()]
	if !ok {
		return
	}
	for _, member := range d.Types {
		name := typeNameOf(member)
		if mid, ok := s.byName[name]; ok {
			s.Types[tid].PossibleTypes = append(s.Types[tid].PossibleTypes, mid)
		}
	}
}

func (s *Schema) addFields(typeName string, fields []*ast.FieldDefinition, typeDirectives []*ast.Directive) error {
	tid, ok := s.byName[typeName]
	if !ok {
		return fmt.Errorf("unknown type %q", typeName)
	}

	applyTypeDirectives(&s.Types[tid], typeDirectives)

	for _, fd := range fields {
		existingID, dup := s.fieldIDIn(tid, fd.Name.String())
		if dup {
			// Field already carried over from a prior definition of the
			// same type (sharded across subgraphs); keep the first and
			// just merge directive-derived flags.
			applyFieldDirectives(&s.Fields[existingID], fd.Directives)
			continue
		}

		fid := FieldID(len(s.Fields))
		rec := FieldRecord{Name: fd.Name.String(), Parent: tid}
		applyFieldDirectives(&rec, fd.Directives)

		for _, arg := range fd.Arguments {
			aid := ArgumentID(len(s.Arguments))
			s.Arguments = append(s.Arguments, ArgumentRecord{
				Name: arg.Name.String(),
				Type: s.typeRef(arg.Type),
			})
			rec.Arguments = append(rec.Arguments, aid)
		}

		s.Fields = append(s.Fields, rec)
		s.Types[tid].Fields = append(s.Types[tid].Fields, fid)

		s.Fields[fid].Type = s.typeRef(fd.Type)
	}

	return nil
}

func (s *Schema) fieldIDIn(tid TypeID, name string) (FieldID, bool) {
	for _, fid := range s.Types[tid].Fields {
		if s.Fields[fid].Name == name {
			return fid, true
		}
	}
	return 0, false
}

func (s *Schema) typeRef(t ast.Type) TypeRef {
	var wrapping []WrapKind
	cur := t
	for {
		switch v := cur.(type) {
		case *ast.NonNullType:
			wrapping = append(wrapping, WrapNonNull)
			cur = v.Type
		case *ast.ListType:
			wrapping = append(wrapping, WrapList)
			cur = v.Type
		case *ast.NamedType:
			id, ok := s.byName[v.Name.String()]
			if !ok {
				id = NoType
			}
			// Wrapping was collected outermost-first; the schema model
			// wants innermost-first, so reverse.
			for i, j := 0, len(wrapping)-1; i < j; i, j = i+1, j-1 {
				wrapping[i], wrapping[j] = wrapping[j], wrapping[i]
			}
			return TypeRef{Def: id, Wrapping: wrapping}
		default:
			return TypeRef{Def: NoType}
		}
	}
}

func typeNameOf(t ast.Type) string {
	switch v := t.(type) {
	case *ast.NamedType:
		return v.Name.String()
	case *ast.ListType:
		return typeNameOf(v.Type)
	case *ast.NonNullType:
		return typeNameOf(v.Type)
	default:
		return ""
	}
}

func applyTypeDirectives(rec *TypeRecord, directives []*ast.Directive) {
	for _, d := range directives {
		rec.Directives = append(rec.Directives, 0) // directive bytes decoded lazily; id range not tracked per-type here
		switch d.Name {
		case "inaccessible":
			rec.Inaccessible = true
		case "cost":
			if w, ok := intArg(d, "weight"); ok {
				rec.Cost = &w
			}
		}
	}
}

func applyFieldDirectives(rec *FieldRecord, directives []*ast.Directive) {
	for _, d := range directives {
		switch d.Name {
		case "inaccessible":
			rec.Inaccessible = true
		case "cost":
			if w, ok := intArg(d, "weight"); ok {
				rec.Cost = &w
			}
		case "deprecated":
			// presence recorded on the type; field-level deprecation
			// reason is not surfaced to the solver, only to introspection,
			// which is out of core scope per SPEC_FULL §1.
		}
	}
}

func intArg(d *ast.Directive, name string) (int, bool) {
	for _, arg := range d.Arguments {
		if arg.Name.String() != name {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(arg.Value.String()))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func (s *Schema) resolveRootTypes(doc *ast.Document) {
	s.QueryType, _ = s.byName["Query"]
	if id, ok := s.byName["Mutation"]; ok {
		s.MutationType = id
	} else {
		s.MutationType = NoType
	}
	if id, ok := s.byName["Subscription"]; ok {
		s.SubscriptionType = id
	} else {
		s.SubscriptionType = NoType
	}

	for _, def := range doc.Definitions {
		sd, ok := def.(*ast.SchemaDefinition)
		if !ok {
			continue
		}
		if len(sd.Query) > 0 {
			if id, ok := s.byName[string(sd.Query)]; ok {
				s.QueryType = id
			}
		}
		if len(sd.Mutation) > 0 {
			if id, ok := s.byName[string(sd.Mutation)]; ok {
				s.MutationType = id
			}
		}
		if len(sd.Subscription) > 0 {
			if id, ok := s.byName[string(sd.Subscription)]; ok {
				s.SubscriptionType = id
			}
		}
	}
}

// buildSubgraphsAndResolvers populates the Subgraphs and Resolvers
// arenas by reading each SubGraphV2's SDL: a field with an explicit
// owning subgraph (i.e. present in that subgraph's schema and not
// @external) gets a RootField (or ExtensionLookup-free) resolver for
// that subgraph; entities with @key get an additional EntityLookup
// resolver per subgraph that declares the key.
func (s *Schema) buildSubgraphsAndResolvers(sg *graph.SuperGraphV2) error {
	subgraphID := make(map[string]SubgraphID, len(sg.SubGraphs))
	for _, g := range sg.SubGraphs {
		id := SubgraphID(len(s.Subgraphs))
		s.Subgraphs = append(s.Subgraphs, SubgraphRecord{
			Name: g.Name,
			Kind: SubgraphGraphQLEndpoint,
			URL:  g.Host,
		})
		subgraphID[g.Name] = id
	}

	for _, g := range sg.SubGraphs {
		sid := subgraphID[g.Name]
		if err := s.addResolversForSubgraph(g, sid); err != nil {
			return err
		}
	}

	return nil
}

func (s *Schema) addResolversForSubgraph(g *graph.SubGraphV2, sid SubgraphID) error {
	for _, def := range g.Schema.Definitions {
		var typeName string
		var fields []*ast.FieldDefinition

		switch d := def.(type) {
		case *ast.ObjectTypeDefinition:
			typeName, fields = d.Name.String(), d.Fields
		case *ast.ObjectTypeExtension:
			typeName, fields = d.Name.String(), d.Fields
		default:
			continue
		}

		tid, ok := s.byName[typeName]
		if !ok {
			continue
		}

		for _, fd := range fields {
			if hasDirective(fd.Directives, "external") {
				continue
			}

			fid, ok := s.fieldIDIn(tid, fd.Name.String())
			if !ok {
				continue
			}

			rid := ResolverID(len(s.Resolvers))
			s.Resolvers = append(s.Resolvers, ResolverRecord{
				Kind:     ResolverRootField,
				Subgraph: sid,
			})
			s.Fields[fid].Resolvers = append(s.Fields[fid].Resolvers, rid)
		}

		if entity, ok := g.GetEntity(typeName); ok {
			for _, key := range entity.Keys {
				if !key.Resolvable {
					continue
				}
				rid := ResolverID(len(s.Resolvers))
				s.Resolvers = append(s.Resolvers, ResolverRecord{
					Kind:     ResolverEntityLookup,
					Subgraph: sid,
					Key:      s.fieldSetFromNames(tid, strings.Fields(key.FieldSet)),
				})
				// Entity lookup resolvers are recorded against the type,
				// not a specific field; the solver reads them via
				// EntityLookupResolvers below.
				s.entityLookups(tid, rid)
			}
		}
	}

	return nil
}

// entityLookupsByType indexes EntityLookup resolvers per type, since
// they are not attached to a single field. Kept unexported and built
// incrementally during addResolversForSubgraph.
func (s *Schema) entityLookups(tid TypeID, rid ResolverID) {
	if s.entityResolverIndex == nil {
		s.entityResolverIndex = make(map[TypeID][]ResolverID)
	}
	s.entityResolverIndex[tid] = append(s.entityResolverIndex[tid], rid)
}

// EntityLookupResolvers returns the EntityLookup resolvers declared
// for a type across all subgraphs.
func (s *Schema) EntityLookupResolvers(tid TypeID) []ResolverID {
	return s.entityResolverIndex[tid]
}

func (s *Schema) fieldSetFromNames(parent TypeID, names []string) FieldSet {
	fs := make(FieldSet, 0, len(names))
	for _, name := range names {
		fid, ok := s.fieldIDIn(parent, name)
		if !ok {
			continue
		}
		fs = append(fs, FieldSetItem{Field: fid})
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i].Field < fs[j].Field })
	return fs
}

func hasDirective(directives []*ast.Directive, name string) bool {
	for _, d := range directives {
		if d.Name == name {
			return true
		}
	}
	return false
}
