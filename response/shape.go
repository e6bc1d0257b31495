package response

// FieldShape describes one expected field of a ConcreteShape: its
// response key, the scalar/composite kind the deserializer should
// coerce the payload value into, whether it is required (NonNull)
// and whether it is filtered per @inaccessible, per SPEC_FULL §4.5.1.
type FieldShape struct {
	ResponseKey  string
	SchemaName   string
	Kind         ValueKind
	List         bool
	Required     bool
	Inaccessible bool

	// Subshape describes the expected object/list-of-object payload
	// for composite fields. nil for scalar fields.
	Subshape *Shape
}

// Shape is the planner-emitted description of the expected response
// at a point in the tree (glossary: "Shape"). ConcreteShape is used
// when the runtime type is known statically; PolymorphicShape is
// used when the concrete type must be read from the payload's
// __typename, which is why Shape carries both a default field list
// and a per-typename override map.
type Shape struct {
	Fields []FieldShape

	// Polymorphic is non-nil when the runtime type must be resolved
	// from the payload's "__typename" before a field list can be
	// chosen; it maps concrete type name to that type's FieldShape
	// list (and to whether that type is @inaccessible).
	Polymorphic map[string]PolymorphicBranch
}

// PolymorphicBranch is one arm of a PolymorphicShape: the field list
// to use for that concrete type, and whether the type itself should
// be hidden per SPEC_FULL §4.5.3.
type PolymorphicBranch struct {
	Fields       []FieldShape
	Inaccessible bool
}

// IsPolymorphic reports whether the shape must read "__typename" to
// pick a field list.
func (s *Shape) IsPolymorphic() bool { return len(s.Polymorphic) > 0 }

// fieldsFor resolves the field list to use for a given payload,
// consulting Polymorphic when present.
func (s *Shape) fieldsFor(typename string) ([]FieldShape, bool, bool) {
	if !s.IsPolymorphic() {
		return s.Fields, false, false
	}
	branch, ok := s.Polymorphic[typename]
	if !ok {
		return nil, true, false
	}
	return branch.Fields, true, branch.Inaccessible
}
