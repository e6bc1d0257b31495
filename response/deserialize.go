package response

import (
	"fmt"

	gojson "github.com/goccy/go-json"
)

// DeserializeError is one error raised while shape-seeding a payload
// into a Value tree. Path is the response path (response keys and
// list indices) at which the error occurred, matching the shape of
// a GraphQL error's "path" entry.
type DeserializeError struct {
	Path    []any
	Message string
}

func (e *DeserializeError) Error() string { return e.Message }

// DeserializeJSON decodes raw subgraph response bytes with
// goccy/go-json (matching the decoder already used by
// gateway/schema_fetcher.go for SDL fetches) and shape-seeds the
// result into a Tree per SPEC_FULL §4.5.1.
func DeserializeJSON(t *Tree, dst ObjectID, raw []byte, shape *Shape) []*DeserializeError {
	var payload map[string]any
	if err := gojson.Unmarshal(raw, &payload); err != nil {
		return []*DeserializeError{{Message: fmt.Sprintf("invalid subgraph response: %v", err)}}
	}
	return DeserializeObject(t, dst, payload, shape, nil)
}

// DeserializeObject walks shape.Fields (or the Polymorphic branch
// selected by payload["__typename"]) and pulls each expected field
// out of payload, writing coerced values into t at dst. Fields
// present in payload but absent from the shape are left untouched
// (skipped in a single pass, per §4.5.1).
func DeserializeObject(t *Tree, dst ObjectID, payload map[string]any, shape *Shape, path []any) []*DeserializeError {
	var errs []*DeserializeError

	fields, polymorphic, inaccessible := shape.fieldsFor(typenameOf(payload))
	if polymorphic && inaccessible {
		// §4.5.3: a polymorphic value whose concrete type is
		// @inaccessible is treated as null of the parent field type.
		t.SetField(dst, "__inaccessible__", Value{Kind: KindInaccessible})
		return nil
	}
	if polymorphic && fields == nil {
		// __typename present but doesn't match any known branch: the
		// supergraph's possible-types enumeration is closed (§3.1
		// invariant), so an unrecognized typename is an upstream bug,
		// not an inaccessible type. Surface it as an error and mark
		// the object with an Unexpected value.
		errs = append(errs, &DeserializeError{
			Path:    path,
			Message: fmt.Sprintf("unexpected concrete type %q", typenameOf(payload)),
		})
		t.SetField(dst, "__unexpected__", Value{Kind: KindUnexpected})
		return errs
	}

	for _, fs := range fields {
		raw, present := payload[fs.ResponseKey]
		fieldPath := append(append([]any{}, path...), fs.ResponseKey)

		if !present || raw == nil {
			if fs.Required {
				errs = append(errs, &DeserializeError{
					Path:    fieldPath,
					Message: fmt.Sprintf("invalid null for required field %q", fs.ResponseKey),
				})
			}
			t.SetField(dst, fs.ResponseKey, Value{Kind: KindNull})
			continue
		}

		v, fieldErrs := deserializeValue(t, raw, fs, fieldPath)
		errs = append(errs, fieldErrs...)
		t.SetField(dst, fs.ResponseKey, v)
	}

	return errs
}

func deserializeValue(t *Tree, raw any, fs FieldShape, path []any) (Value, []*DeserializeError) {
	if fs.List {
		list, ok := raw.([]any)
		if !ok {
			return Value{Kind: KindNull}, []*DeserializeError{{
				Path: path, Message: fmt.Sprintf("expected a list for field %q", fs.ResponseKey),
			}}
		}
		elemShape := fs
		elemShape.List = false

		out := make([]Value, len(list))
		var errs []*DeserializeError
		for i, elem := range list {
			elemPath := append(append([]any{}, path...), i)
			v, elemErrs := deserializeValue(t, elem, elemShape, elemPath)
			out[i] = v
			errs = append(errs, elemErrs...)
		}
		return Value{Kind: KindList, List: out}, errs
	}

	switch fs.Kind {
	case KindObject:
		obj, ok := raw.(map[string]any)
		if !ok {
			return Value{Kind: KindNull}, []*DeserializeError{{
				Path: path, Message: fmt.Sprintf("expected an object for field %q", fs.ResponseKey),
			}}
		}
		if fs.Subshape == nil {
			return Value{Kind: KindNull}, nil
		}
		id := t.NewObject()
		errs := DeserializeObject(t, id, obj, fs.Subshape, path)
		if hasInaccessibleMarker(t, id) {
			return Value{Kind: KindInaccessible}, errs
		}
		return Value{Kind: KindObject, Object: id}, errs
	case KindInt:
		n, ok := CoerceInt(raw)
		if !ok {
			return Value{Kind: KindNull}, []*DeserializeError{{
				Path: path, Message: fmt.Sprintf("Int cannot represent value %v", raw),
			}}
		}
		return Value{Kind: KindInt, Int: n}, nil
	case KindFloat:
		f, ok := raw.(float64)
		if !ok {
			return Value{Kind: KindNull}, []*DeserializeError{{
				Path: path, Message: fmt.Sprintf("Float cannot represent value %v", raw),
			}}
		}
		return Value{Kind: KindFloat, Float: f}, nil
	case KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return Value{Kind: KindNull}, []*DeserializeError{{
				Path: path, Message: fmt.Sprintf("Boolean cannot represent value %v", raw),
			}}
		}
		return Value{Kind: KindBoolean, Bool: b}, nil
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return Value{Kind: KindNull}, []*DeserializeError{{
				Path: path, Message: fmt.Sprintf("String cannot represent value %v", raw),
			}}
		}
		return Value{Kind: KindString, Str: s}, nil
	default:
		return Value{Kind: KindUnexpected}, nil
	}
}

func typenameOf(payload map[string]any) string {
	if payload == nil {
		return ""
	}
	tn, _ := payload["__typename"].(string)
	return tn
}

func hasInaccessibleMarker(t *Tree, id ObjectID) bool {
	for _, f := range t.object(id).Fields {
		if f.Key == "__inaccessible__" {
			return true
		}
	}
	return false
}
