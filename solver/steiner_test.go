package solver_test

import (
	"testing"

	"github.com/n9te9/federation-gateway/federation/graph"
	"github.com/n9te9/federation-gateway/solver"
)

func buildReviewGraph(t *testing.T) *graph.WeightedDirectedGraph {
	t.Helper()

	productSDL := `
		type Product @key(fields: "id") {
			id: ID!
			name: String!
		}

		type Query {
			product(id: ID!): Product
		}
	`
	reviewSDL := `
		extend type Product @key(fields: "id") {
			id: ID! @external
			reviews: [Review!]!
		}

		type Review {
			id: ID!
			rating: Int!
		}
	`

	productSG, err := graph.NewSubGraphV2("products", []byte(productSDL), "http://products.example.com")
	if err != nil {
		t.Fatalf("NewSubGraphV2(products): %v", err)
	}
	reviewSG, err := graph.NewSubGraphV2("reviews", []byte(reviewSDL), "http://reviews.example.com")
	if err != nil {
		t.Fatalf("NewSubGraphV2(reviews): %v", err)
	}

	return graph.BuildGraph([]*graph.SubGraphV2{productSG, reviewSG})
}

func TestGrowSteinerTreeSingleSubgraph(t *testing.T) {
	g := buildReviewGraph(t)

	tree, err := solver.GrowSteinerTree(g,
		[]string{graph.NodeKey("products", "Product", "")},
		[]string{graph.NodeKey("products", "Product", "name")},
	)
	if err != nil {
		t.Fatalf("GrowSteinerTree: %v", err)
	}
	if tree.TotalCost != 0 {
		t.Errorf("expected same-subgraph field to cost 0, got %d", tree.TotalCost)
	}
	if !tree.Contains(graph.NodeKey("products", "Product", "name")) {
		t.Errorf("expected tree to contain the terminal node")
	}
}

func TestGrowSteinerTreeCrossSubgraph(t *testing.T) {
	g := buildReviewGraph(t)

	entry := graph.NodeKey("products", "Product", "")
	terminal := graph.NodeKey("reviews", "Review", "rating")

	tree, err := solver.GrowSteinerTree(g, []string{entry}, []string{terminal})
	if err != nil {
		t.Fatalf("GrowSteinerTree: %v", err)
	}
	if tree.TotalCost <= 0 {
		t.Errorf("expected crossing into reviews to carry a non-zero cost, got %d", tree.TotalCost)
	}
	path := tree.PathTo(terminal)
	if len(path) == 0 || path[0] != entry {
		t.Errorf("expected path to originate at entry point, got %v", path)
	}
}

func TestGrowSteinerTreeUnsatisfiable(t *testing.T) {
	g := buildReviewGraph(t)

	_, err := solver.GrowSteinerTree(g,
		[]string{graph.NodeKey("products", "Product", "")},
		[]string{graph.NodeKey("nonexistent", "Nowhere", "field")},
	)
	if err == nil {
		t.Fatalf("expected ErrUnsatisfiable for an unreachable terminal")
	}
	if _, ok := err.(*solver.ErrUnsatisfiable); !ok {
		t.Errorf("expected *ErrUnsatisfiable, got %T: %v", err, err)
	}
}
