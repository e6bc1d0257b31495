package schema

// TypeWalker pairs a TypeID with the schema it belongs to, giving
// callers method-style navigation (t.Fields(), t.Name()) without
// owning pointers into the arena.
type TypeWalker struct {
	id TypeID
	s  *Schema
}

func (s *Schema) Walk(id TypeID) TypeWalker { return TypeWalker{id, s} }

func (w TypeWalker) ID() TypeID    { return w.id }
func (w TypeWalker) record() *TypeRecord { return &w.s.Types[w.id] }
func (w TypeWalker) Name() string  { return w.record().Name }
func (w TypeWalker) Kind() TypeKind { return w.record().Kind }
func (w TypeWalker) Inaccessible() bool { return w.record().Inaccessible }

func (w TypeWalker) Fields() []FieldWalker {
	ids := w.record().Fields
	out := make([]FieldWalker, len(ids))
	for i, fid := range ids {
		out[i] = FieldWalker{fid, w.s}
	}
	return out
}

func (w TypeWalker) FieldNamed(name string) (FieldWalker, bool) {
	fid, ok := w.s.fieldIDIn(w.id, name)
	if !ok {
		return FieldWalker{}, false
	}
	return FieldWalker{fid, w.s}, true
}

// PossibleTypes returns the concrete object types a union or
// interface can resolve to.
func (w TypeWalker) PossibleTypes() []TypeWalker {
	ids := w.record().PossibleTypes
	out := make([]TypeWalker, len(ids))
	for i, tid := range ids {
		out[i] = TypeWalker{tid, w.s}
	}
	return out
}

type FieldWalker struct {
	id FieldID
	s  *Schema
}

func (s *Schema) WalkField(id FieldID) FieldWalker { return FieldWalker{id, s} }

func (w FieldWalker) ID() FieldID    { return w.id }
func (w FieldWalker) record() *FieldRecord { return &w.s.Fields[w.id] }
func (w FieldWalker) Name() string   { return w.record().Name }
func (w FieldWalker) Type() TypeWalker {
	return TypeWalker{w.record().Type.Def, w.s}
}
func (w FieldWalker) TypeRef() TypeRef { return w.record().Type }
func (w FieldWalker) Inaccessible() bool { return w.record().Inaccessible }
func (w FieldWalker) Parent() TypeWalker {
	return TypeWalker{w.record().Parent, w.s}
}

// Resolvers returns the subgraphs and resolver kinds this field can be
// fetched through.
func (w FieldWalker) Resolvers() []ResolverRecord {
	return w.s.ResolversFor(w.id)
}
