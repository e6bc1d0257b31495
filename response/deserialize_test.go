package response_test

import (
	"testing"

	"github.com/n9te9/federation-gateway/response"
)

func TestDeserializeJSONBasic(t *testing.T) {
	tree := response.NewTree()
	shape := &response.Shape{
		Fields: []response.FieldShape{
			{ResponseKey: "hello", Kind: response.KindString, Required: true},
		},
	}

	errs := response.DeserializeJSON(tree, tree.Root, []byte(`{"hello":"world"}`), shape)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	plain := tree.ToPlain(tree.Root)
	if plain["hello"] != "world" {
		t.Errorf("expected hello=world, got %v", plain["hello"])
	}
}

func TestDeserializeJSONSkipsUnexpectedFields(t *testing.T) {
	tree := response.NewTree()
	shape := &response.Shape{
		Fields: []response.FieldShape{
			{ResponseKey: "hello", Kind: response.KindString},
		},
	}

	errs := response.DeserializeJSON(tree, tree.Root, []byte(`{"hello":"world","extra":123}`), shape)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	plain := tree.ToPlain(tree.Root)
	if _, present := plain["extra"]; present {
		t.Errorf("expected unexpected field to be skipped, found %v", plain["extra"])
	}
}

func TestDeserializeJSONRequiredNullErrors(t *testing.T) {
	tree := response.NewTree()
	shape := &response.Shape{
		Fields: []response.FieldShape{
			{ResponseKey: "name", Kind: response.KindString, Required: true},
		},
	}

	errs := response.DeserializeJSON(tree, tree.Root, []byte(`{"name":null}`), shape)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error for a required null, got %d", len(errs))
	}
	if len(errs[0].Path) != 1 || errs[0].Path[0] != "name" {
		t.Errorf("expected error path [\"name\"], got %v", errs[0].Path)
	}
}

func TestDeserializeJSONNestedObjectAndList(t *testing.T) {
	tree := response.NewTree()
	reviewShape := &response.Shape{
		Fields: []response.FieldShape{
			{ResponseKey: "rating", Kind: response.KindInt, Required: true},
		},
	}
	shape := &response.Shape{
		Fields: []response.FieldShape{
			{ResponseKey: "reviews", Kind: response.KindObject, List: true, Subshape: reviewShape},
		},
	}

	errs := response.DeserializeJSON(tree, tree.Root, []byte(`{"reviews":[{"rating":5},{"rating":3.0}]}`), shape)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	plain := tree.ToPlain(tree.Root)
	reviews, ok := plain["reviews"].([]any)
	if !ok || len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %v", plain["reviews"])
	}
	first, ok := reviews[0].(map[string]any)
	if !ok || first["rating"] != int32(5) {
		t.Errorf("expected first review rating=5, got %v", first)
	}
}

func TestDeserializeJSONPolymorphicInaccessible(t *testing.T) {
	tree := response.NewTree()
	shape := &response.Shape{
		Fields: []response.FieldShape{
			{
				ResponseKey: "node", Kind: response.KindObject,
				Subshape: &response.Shape{
					Polymorphic: map[string]response.PolymorphicBranch{
						"A": {Fields: []response.FieldShape{{ResponseKey: "id", Kind: response.KindString}}},
						"B": {Inaccessible: true},
					},
				},
			},
		},
	}

	errs := response.DeserializeJSON(tree, tree.Root, []byte(`{"node":{"__typename":"B","id":"b"}}`), shape)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	plain := tree.ToPlain(tree.Root)
	if plain["node"] != nil {
		t.Errorf("expected inaccessible concrete type to resolve to null, got %v", plain["node"])
	}
}
