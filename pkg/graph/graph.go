package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/matzehuels/folio/pkg/errors"
)

// Validate reports the first integrity problem in g: a duplicate node id, an
// edge endpoint that does not resolve to a node, or a malformed category tag.
func (g Graph) Validate() error {
	ids := make(map[int]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if ids[n.ID] {
			return errors.New(errors.ErrCodeDuplicateNode, "duplicate node id %d (%s)", n.ID, n.Label())
		}
		ids[n.ID] = true
		if err := errors.ValidateCategory(n.Category); err != nil {
			return err
		}
	}
	for i, e := range g.Edges {
		for _, id := range [2]int{e.Source, e.Target} {
			if !ids[id] {
				return errors.New(errors.ErrCodeUnknownNode,
					"edge %d (%d->%d): no node with id %d", i, e.Source, e.Target, id)
			}
		}
	}
	return nil
}

// Index maps node ids to their position in g.Nodes.
// Duplicate ids map to their last occurrence; call Validate first.
func (g Graph) Index() map[int]int {
	idx := make(map[int]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Categories returns the distinct non-empty categories in first-seen order.
func (g Graph) Categories() []string {
	var out []string
	for _, n := range g.Nodes {
		if n.Category != "" && !slices.Contains(out, n.Category) {
			out = append(out, n.Category)
		}
	}
	return out
}

// CategoryCounts returns how many nodes carry each category.
func (g Graph) CategoryCounts() map[string]int {
	counts := make(map[string]int)
	for _, n := range g.Nodes {
		if n.Category != "" {
			counts[n.Category]++
		}
	}
	return counts
}

// Degree returns the number of edges touching each node id.
func (g Graph) Degree() map[int]int {
	deg := make(map[int]int, len(g.Nodes))
	for _, e := range g.Edges {
		deg[e.Source]++
		deg[e.Target]++
	}
	return deg
}

// Clone returns a deep copy of g.
func (g Graph) Clone() Graph {
	return Graph{
		Nodes: slices.Clone(g.Nodes),
		Edges: slices.Clone(g.Edges),
	}
}

// MarshalGraph encodes g as compact JSON for cache keys. Node and edge order
// is kept: it decides seeding and solver order, so a reordered graph settles
// differently and must not share a key.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(g); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

func itoa(i int) string { return strconv.Itoa(i) }
