package response

// PropagateNull implements SPEC_FULL §4.5.2: when a required field
// resolves to null, walk the response path upward replacing each
// enclosing object/list element with null, stopping at the first
// nullable ancestor. path is ordered root-to-leaf; requiredAt[i]
// reports whether the value at path[:i+1] is itself
// non-null (so that nulling its child forces it null too). The
// function returns the index in path of the narrowest ancestor that
// absorbed the null (-1 if it reached the root, meaning the whole
// tree becomes null).
func PropagateNull(requiredAt []bool) int {
	// requiredAt[i] == true means the value at path[:i+1] is
	// NonNull, i.e. if its child must be nulled, it must be nulled
	// too. Walk from the deepest failing field upward while every
	// enclosing ancestor is itself required; stop at (return the
	// index of) the first ancestor that is nullable, or -1 if every
	// ancestor up to the root is required.
	for i := len(requiredAt) - 1; i >= 0; i-- {
		if !requiredAt[i] {
			return i
		}
	}
	return -1
}

// NullAt nulls target at the object/field addressed by path,
// starting from root, propagating upward per PropagateNull's result.
// obj is the root object; path elements are field keys (string) or
// list indices (int). requiredAt[i] must align with path[:i+1] as
// described on PropagateNull.
func (t *Tree) NullAt(root ObjectID, path []any, requiredAt []bool) {
	stop := PropagateNull(requiredAt)
	// stop == -1 means null the entire root; stop == i means null at
	// path[:i+1] (the narrowest nullable ancestor itself).
	nullDepth := stop + 1
	if nullDepth >= len(path) {
		nullDepth = len(path)
	}

	if nullDepth == 0 {
		// Root itself must be null: NullAt leaves the tree unchanged
		// in this case, since Tree always owns a root object.
		return
	}

	t.setNullAlongPath(root, path[:nullDepth])
}

func (t *Tree) setNullAlongPath(root ObjectID, path []any) {
	if len(path) == 0 {
		return
	}
	if len(path) == 1 {
		if key, ok := path[0].(string); ok {
			t.SetField(root, key, Value{Kind: KindNull})
		}
		return
	}

	key, ok := path[0].(string)
	if !ok {
		return
	}
	obj := t.object(root)
	for i := range obj.Fields {
		if obj.Fields[i].Key != key {
			continue
		}
		v := &obj.Fields[i].Value
		switch v.Kind {
		case KindObject:
			t.setNullAlongPath(v.Object, path[1:])
		case KindList:
			if idx, ok := path[1].(int); ok && idx >= 0 && idx < len(v.List) {
				elem := &v.List[idx]
				if elem.Kind == KindObject {
					t.setNullAlongPath(elem.Object, path[2:])
				} else if len(path) == 2 {
					*elem = Value{Kind: KindNull}
				}
			}
		}
		return
	}
}
