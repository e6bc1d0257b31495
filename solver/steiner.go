// Package solver implements the query-solution graph construction and
// Steiner-tree cost minimization of SPEC_FULL.md §4.3, grounded on the
// reference Greedy FLAC algorithm
// (original_source/crates/engine/query-solver/src/solve/steiner_tree/greedy_flac)
// and built on top of the teacher's WeightedDirectedGraph and its
// container/heap Dijkstra implementation.
package solver

import (
	"fmt"
	"sort"

	"github.com/n9te9/federation-gateway/federation/graph"
)

// ErrUnplannable reports a field that no subgraph can provide.
// GrowSteinerTree does not return it: a terminal with no path from
// the entry points ends growth with ErrUnsatisfiable.
type ErrUnplannable struct {
	Field string
}

func (e *ErrUnplannable) Error() string {
	return fmt.Sprintf("unplannable: no subgraph can provide %q", e.Field)
}

// ErrUnsatisfiable is returned when growth stalls with uncovered
// terminals remaining and no finite-cost attachment exists for any of
// them (a disconnected subgraph of terminals).
type ErrUnsatisfiable struct {
	Remaining []string
}

func (e *ErrUnsatisfiable) Error() string {
	return fmt.Sprintf("unsatisfiable: %d terminal(s) unreachable from the current tree", len(e.Remaining))
}

// SteinerTree is the result of Greedy FLAC growth: the set of graph
// node ids chosen to cover every terminal, plus the edges used to
// reach them (parent pointers), determinism-broken by node id.
type SteinerTree struct {
	g *graph.WeightedDirectedGraph

	// Nodes is the committed steiner_tree_nodes bitset, represented as
	// a set for simplicity (the candidate graphs here are small
	// per-operation subgraphs of the supergraph, not the whole
	// schema, so a map is adequate).
	Nodes map[string]bool
	Prev  map[string]string

	TotalCost int
}

// Contains reports whether nodeID is part of the committed tree.
func (t *SteinerTree) Contains(nodeID string) bool { return t.Nodes[nodeID] }

// PathTo reconstructs the tree path from an entry point to nodeID.
func (t *SteinerTree) PathTo(nodeID string) []string {
	var path []string
	seen := map[string]bool{}
	for cur := nodeID; cur != ""; {
		if seen[cur] {
			break
		}
		seen[cur] = true
		path = append([]string{cur}, path...)
		prev, ok := t.Prev[cur]
		if !ok {
			break
		}
		cur = prev
	}
	return path
}

// GrowSteinerTree runs the greedy FLAC procedure: starting from
// entryPoints (cost 0), repeatedly attach the cheapest-to-reach
// uncovered terminal's shortest path, until every terminal is
// covered. Ties between equally-cheap terminals are broken by sorting
// terminal ids lexically first, matching SPEC_FULL §9's determinism
// requirement ("ties... broken deterministically... by subgraph id
// then field id", approximated here by sorting on the node key, which
// already embeds "{SubGraph}:{Type}.{Field}").
func GrowSteinerTree(g *graph.WeightedDirectedGraph, entryPoints []string, terminals []string) (*SteinerTree, error) {
	tree := &SteinerTree{
		g:     g,
		Nodes: make(map[string]bool),
		Prev:  make(map[string]string),
	}
	for _, ep := range entryPoints {
		tree.Nodes[ep] = true
	}

	uncovered := make(map[string]bool, len(terminals))
	for _, t := range terminals {
		if tree.Nodes[t] {
			continue
		}
		uncovered[t] = true
	}

	for len(uncovered) > 0 {
		sources := treeSources(tree)
		if len(sources) == 0 {
			sources = entryPoints
		}

		result := g.Dijkstra(sources)

		ordered := sortedKeys(uncovered)

		bestTerminal := ""
		bestCost := -1
		for _, term := range ordered {
			cost, ok := result.Dist[term]
			if !ok {
				continue
			}
			if bestCost == -1 || cost < bestCost {
				bestCost = cost
				bestTerminal = term
			}
		}

		if bestTerminal == "" {
			remaining := make([]string, 0, len(uncovered))
			for t := range uncovered {
				remaining = append(remaining, t)
			}
			sort.Strings(remaining)
			return nil, &ErrUnsatisfiable{Remaining: remaining}
		}

		path := result.ReconstructPath(bestTerminal)
		for i, nodeID := range path {
			tree.Nodes[nodeID] = true
			if i > 0 {
				tree.Prev[nodeID] = path[i-1]
			}
		}
		tree.TotalCost += bestCost

		delete(uncovered, bestTerminal)
	}

	return tree, nil
}

func treeSources(tree *SteinerTree) []string {
	out := make([]string, 0, len(tree.Nodes))
	for n := range tree.Nodes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
