// Package response holds the typed response tree and shape-seeded
// deserializer of SPEC_FULL.md §4.5. Values live in an arena
// (parallel slice, small-int ids) for the same reason the schema
// package's types do: the tree is full of mutually recursive
// object/list nesting and owning pointers would fight the GC and the
// null-propagation walk for no benefit.
package response

// ValueKind tags the variant of a Value, mirroring the closed sum
// type described in SPEC_FULL §4.5 (Null, Boolean, Int, Float,
// BigInt, String, List, Object, Inaccessible, Unexpected).
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBoolean
	KindInt
	KindFloat
	KindBigInt
	KindString
	KindList
	KindObject
	KindInaccessible
	KindUnexpected
)

// ObjectID indexes Tree.Objects.
type ObjectID uint32

// Value is one node of the response tree. Composite kinds (List,
// Object) reference their children via arena ids rather than owning
// pointers.
type Value struct {
	Kind ValueKind

	Bool   bool
	Int    int32
	Float  float64
	BigInt int64
	Str    string

	List   []Value
	Object ObjectID
}

// Field is one resolved field of a response object, keyed by its
// response key (alias or field name) rather than schema field name.
type Field struct {
	Key   string
	Value Value
}

// Object is an arena-allocated response object; its fields preserve
// source selection order per SPEC_FULL §5 ("the response object
// preserves source order regardless of completion order").
type Object struct {
	Fields []Field
}

// Tree is the per-request response arena. One Tree per request;
// never shared across requests, matching the "owned by one task and
// never shared" resource model of SPEC_FULL §4.4.3/§5.
type Tree struct {
	Objects []Object
	Root    ObjectID
}

// NewTree allocates an empty tree with a single root object.
func NewTree() *Tree {
	t := &Tree{}
	t.Root = t.NewObject()
	return t
}

// NewObject allocates a new, empty object and returns its id.
func (t *Tree) NewObject() ObjectID {
	id := ObjectID(len(t.Objects))
	t.Objects = append(t.Objects, Object{})
	return id
}

func (t *Tree) object(id ObjectID) *Object { return &t.Objects[id] }

// SetField sets (or appends) a field on the object at id.
func (t *Tree) SetField(id ObjectID, key string, v Value) {
	obj := t.object(id)
	for i := range obj.Fields {
		if obj.Fields[i].Key == key {
			obj.Fields[i].Value = v
			return
		}
	}
	obj.Fields = append(obj.Fields, Field{Key: key, Value: v})
}

// ToPlain converts the tree rooted at id to plain
// map[string]any/[]any/scalar values, the shape the rest of the
// gateway (JSON encoding, the legacy map-based executor) already
// understands.
func (t *Tree) ToPlain(id ObjectID) map[string]any {
	obj := t.object(id)
	out := make(map[string]any, len(obj.Fields))
	for _, f := range obj.Fields {
		out[f.Key] = t.valueToPlain(f.Value)
	}
	return out
}

func (t *Tree) valueToPlain(v Value) any {
	switch v.Kind {
	case KindNull, KindInaccessible, KindUnexpected:
		return nil
	case KindBoolean:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindBigInt:
		return v.BigInt
	case KindString:
		return v.Str
	case KindList:
		out := make([]any, len(v.List))
		for i, e := range v.List {
			out[i] = t.valueToPlain(e)
		}
		return out
	case KindObject:
		return t.ToPlain(v.Object)
	default:
		return nil
	}
}
