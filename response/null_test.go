package response_test

import "github.com/n9te9/federation-gateway/response"
import "testing"

func TestPropagateNullStopsAtNullableAncestor(t *testing.T) {
	// path = user.name, user is nullable (requiredAt[0]=false),
	// name is required (requiredAt[1]=true): the null stops at user.
	idx := response.PropagateNull([]bool{false, true})
	if idx != 0 {
		t.Fatalf("expected to stop at index 0 (user), got %d", idx)
	}
}

func TestPropagateNullReachesRoot(t *testing.T) {
	// Every ancestor required all the way up: propagate past the root.
	idx := response.PropagateNull([]bool{true, true})
	if idx != -1 {
		t.Fatalf("expected -1 (root nulled), got %d", idx)
	}
}

func TestNullAtNullsNarrowestAncestor(t *testing.T) {
	tree := response.NewTree()
	userID := tree.NewObject()
	tree.SetField(userID, "name", response.Value{Kind: response.KindString, Str: "ok"})
	tree.SetField(tree.Root, "user", response.Value{Kind: response.KindObject, Object: userID})

	// user is nullable, user.name is required and failed: null
	// should land on "user", not bubble to the root.
	tree.NullAt(tree.Root, []any{"user", "name"}, []bool{false, true})

	plain := tree.ToPlain(tree.Root)
	if plain["user"] != nil {
		t.Errorf("expected user to be nulled, got %v", plain["user"])
	}
}
