// Package schema holds the immutable, id-indexed representation of a
// composed supergraph. Types, fields, subgraphs, resolvers and
// directives live in parallel slices and are addressed by small
// integer ids instead of pointers, so that the mutually recursive
// object->field->type->object relationships never form reference
// cycles.
package schema

import "time"

type TypeID uint32
type FieldID uint32
type ArgumentID uint32
type SubgraphID uint16
type ResolverID uint32
type DirectiveID uint32

const NoType = TypeID(^uint32(0))

type TypeKind int

const (
	KindScalar TypeKind = iota
	KindObject
	KindInterface
	KindUnion
	KindEnum
	KindInputObject
)

func (k TypeKind) String() string {
	switch k {
	case KindScalar:
		return "SCALAR"
	case KindObject:
		return "OBJECT"
	case KindInterface:
		return "INTERFACE"
	case KindUnion:
		return "UNION"
	case KindEnum:
		return "ENUM"
	case KindInputObject:
		return "INPUT_OBJECT"
	default:
		return "UNKNOWN"
	}
}

// WrapKind is one marker of a type reference's wrapping stack,
// innermost first: [List, NonNull] means "a non-null list".
type WrapKind int

const (
	WrapList WrapKind = iota
	WrapNonNull
)

// TypeRef is a named type plus its wrapping stack.
type TypeRef struct {
	Def      TypeID
	Wrapping []WrapKind
}

// IsNonNull reports whether the outermost wrapper is NonNull.
func (t TypeRef) IsNonNull() bool {
	return len(t.Wrapping) > 0 && t.Wrapping[len(t.Wrapping)-1] == WrapNonNull
}

// FieldSetItem is one field of a FieldSet, optionally with a
// subselection (for composite-key leaves). The examples' own @key
// parsing (subgraph_v2.go's parseEntityKeys) only ever reads flat
// space-separated field names, never nested braces, so Sub is
// populated only by callers that build FieldSets programmatically
// (requirement wiring); the SDL parser leaves it empty.
type FieldSetItem struct {
	Field FieldID
	Sub   FieldSet
}

// FieldSet is a recursively sorted set of field selections, used to
// express @key, @requires and @provides at the schema level.
type FieldSet []FieldSetItem

func (fs FieldSet) Empty() bool { return len(fs) == 0 }

type ResolverKind int

const (
	ResolverRootField ResolverKind = iota
	ResolverEntityLookup
	ResolverExtension
	ResolverLookup
)

// ResolverRecord describes one way to fetch a field or entity from a
// subgraph.
type ResolverRecord struct {
	Kind ResolverKind

	Subgraph SubgraphID

	// Key is the @key FieldSet for ResolverEntityLookup and the
	// required-fields selection for ResolverLookup.
	Key FieldSet

	// ExtensionID and DirectiveArgs are populated for ResolverExtension.
	ExtensionID   string
	DirectiveArgs map[string]any
}

type TypeRecord struct {
	Name string
	Kind TypeKind

	Fields        []FieldID
	Interfaces    []TypeID
	PossibleTypes []TypeID

	Inaccessible bool
	Cost         *int
	Deprecated   *string

	Directives []DirectiveID
}

type ArgumentRecord struct {
	Name string
	Type TypeRef
}

type FieldRecord struct {
	Name   string
	Parent TypeID
	Type   TypeRef

	Arguments  []ArgumentID
	Directives []DirectiveID

	Inaccessible bool
	Cost         *int

	Resolvers []ResolverID
}

// HasExplicitResolver reports whether any resolver was attached from
// @join__field-equivalent attribution rather than the default
// "every subgraph exposing the parent type can resolve it" rule.
func (f *FieldRecord) HasExplicitResolver() bool {
	return len(f.Resolvers) > 0
}

type SubgraphKind int

const (
	SubgraphGraphQLEndpoint SubgraphKind = iota
	SubgraphVirtual
)

type HeaderRuleKind int

const (
	HeaderForward HeaderRuleKind = iota
	HeaderInsert
	HeaderRemove
	HeaderRenameDuplicate
)

type HeaderRule struct {
	Kind  HeaderRuleKind
	Name  string
	Value string
	Rename string
}

type SubgraphRecord struct {
	Name string
	Kind SubgraphKind

	URL     string
	Timeout time.Duration
	Headers []HeaderRule
	TTL     time.Duration
}

type DirectiveRecord struct {
	Name      string
	Arguments map[string]any
}

type OperationLimits struct {
	Depth       *uint16
	Height      *uint16
	Aliases     *uint16
	RootFields  *uint16
	Complexity  *uint16
}

type EntityCachingSettings struct {
	Enabled    bool
	DefaultTTL time.Duration
}

type Settings struct {
	OperationLimits        OperationLimits
	EntityCaching          EntityCachingSettings
	DefaultSubgraphTimeout time.Duration
}

// Schema is the immutable arena. Built once at startup or hot-reload,
// then shared read-only by every request.
type Schema struct {
	Types      []TypeRecord
	Fields     []FieldRecord
	Arguments  []ArgumentRecord
	Subgraphs  []SubgraphRecord
	Resolvers  []ResolverRecord
	Directives []DirectiveRecord

	QueryType        TypeID
	MutationType     TypeID
	SubscriptionType TypeID

	Settings Settings

	byName              map[string]TypeID
	entityResolverIndex map[TypeID][]ResolverID
}

func (s *Schema) TypeByName(name string) (TypeID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

func (s *Schema) Type(id TypeID) *TypeRecord   { return &s.Types[id] }
func (s *Schema) Field(id FieldID) *FieldRecord { return &s.Fields[id] }
func (s *Schema) Subgraph(id SubgraphID) *SubgraphRecord {
	return &s.Subgraphs[id]
}
func (s *Schema) Resolver(id ResolverID) *ResolverRecord {
	return &s.Resolvers[id]
}
func (s *Schema) Argument(id ArgumentID) *ArgumentRecord {
	return &s.Arguments[id]
}

// FieldByName looks up a field definition id by its declaring type
// name and field name. Used pervasively by the solver and executor
// instead of walking the AST repeatedly.
func (s *Schema) FieldByName(typeName, fieldName string) (FieldID, bool) {
	tid, ok := s.byName[typeName]
	if !ok {
		return 0, false
	}
	for _, fid := range s.Types[tid].Fields {
		if s.Fields[fid].Name == fieldName {
			return fid, true
		}
	}
	return 0, false
}

// ResolversFor returns the resolver records attached to a field.
// A field with no attached resolver yields nil; no default resolvers
// are synthesized for the subgraphs that expose the field's parent
// type.
func (s *Schema) ResolversFor(fid FieldID) []ResolverRecord {
	f := &s.Fields[fid]
	if len(f.Resolvers) == 0 {
		return nil
	}
	out := make([]ResolverRecord, len(f.Resolvers))
	for i, rid := range f.Resolvers {
		out[i] = s.Resolvers[rid]
	}
	return out
}
