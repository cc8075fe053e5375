package graph

import (
	"fmt"

	"github.com/dhippley/semigraph/pkg/value"
)

func propValue(v any) value.Value { return value.Of(v) }

// Graph is a named coordinator layered on a single Storage instance. It
// owns referential-integrity validation (an edge may not reference a
// missing node) and cascading delete (deleting a node first removes its
// incident edges), both of which Storage itself does not enforce.
type Graph struct {
	Name    string
	storage *Storage
}

// New creates a Graph with its own Storage instance.
func New(name string) (*Graph, error) {
	storage, err := NewStorage(Config{Name: name})
	if err != nil {
		return nil, err
	}
	return &Graph{Name: name, storage: storage}, nil
}

// Storage exposes the underlying Storage handle for components (Traversal,
// Matrix) that need direct table/index access.
func (g *Graph) Storage() *Storage { return g.storage }

// AddNode stores n directly; nodes have no referential dependencies.
func (g *Graph) AddNode(n *Node) error {
	return g.storage.PutNode(n)
}

// AddEdge validates that both endpoints already exist before inserting the
// edge. This check-then-insert is not atomic with a concurrent DeleteNode of
// an endpoint: if the endpoint is deleted between the check and the insert,
// the stored edge references a node that no longer exists.
func (g *Graph) AddEdge(e *Edge) error {
	if _, err := g.storage.GetNode(e.From); err != nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, e.From)
	}
	if _, err := g.storage.GetNode(e.To); err != nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, e.To)
	}
	return g.storage.PutEdge(e)
}

// DeleteNode enumerates every edge incident to id, deletes each one, then
// deletes the node itself. The cascade completes before the node record
// disappears: a reader that still observes the node never observes a
// dangling edge for it, and a reader that no longer observes the node never
// observes one of its edges either.
func (g *Graph) DeleteNode(id NodeID) error {
	edges, err := g.storage.GetEdgesForNode(id)
	if err != nil {
		return err
	}
	for _, e := range edges {
		if err := g.storage.DeleteEdge(e.ID); err != nil && err != ErrNotFound {
			return err
		}
	}
	return g.storage.DeleteNode(id)
}

// GetNode returns the node with the given id.
func (g *Graph) GetNode(id NodeID) (*Node, error) { return g.storage.GetNode(id) }

// DeleteEdge removes a single edge without touching its endpoints.
func (g *Graph) DeleteEdge(id EdgeID) error { return g.storage.DeleteEdge(id) }

// GetEdge returns the edge with the given id.
func (g *Graph) GetEdge(id EdgeID) (*Edge, error) { return g.storage.GetEdge(id) }

// NodeFilter narrows ListNodes. The zero value (all fields unset) matches
// every node.
type NodeFilter struct {
	Label    string
	PropKey  string
	PropVal  any // compared via value.Of(PropVal).Equal
	Predicate func(*Node) bool
}

func (f NodeFilter) isEmpty() bool {
	return f.Label == "" && f.PropKey == "" && f.Predicate == nil
}

// ListNodes returns nodes matching filter. A Label-only filter uses the
// label index; a PropKey-only filter uses the property index; anything else
// (a Predicate, or a composite of more than one field) falls back to a full
// scan — the non-indexed path.
func (g *Graph) ListNodes(filter NodeFilter) ([]*Node, error) {
	if filter.isEmpty() {
		return g.storage.AllNodes(), nil
	}

	composite := filter.Predicate != nil || (filter.Label != "" && filter.PropKey != "")

	if !composite && filter.Label != "" {
		ids := g.storage.QueryLabel(filter.Label)
		return g.resolveNodes(ids), nil
	}
	if !composite && filter.PropKey != "" {
		ids := g.storage.QueryProperty(filter.PropKey, propValue(filter.PropVal))
		return g.resolveNodes(ids), nil
	}

	// Composite or predicate filter: full scan + predicate.
	all := g.storage.AllNodes()
	out := make([]*Node, 0, len(all))
	for _, n := range all {
		if !matchesNodeFilter(n, filter) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func matchesNodeFilter(n *Node, f NodeFilter) bool {
	if f.Label != "" && !n.HasLabel(f.Label) {
		return false
	}
	if f.PropKey != "" {
		v, ok := n.Properties[f.PropKey]
		if !ok || !v.Equal(propValue(f.PropVal)) {
			return false
		}
	}
	if f.Predicate != nil && !f.Predicate(n) {
		return false
	}
	return true
}

func (g *Graph) resolveNodes(ids []NodeID) []*Node {
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if n, err := g.storage.GetNode(id); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// EdgeFilter narrows ListEdges. The zero value matches every edge. There is
// no index on edge attributes, so ListEdges is always a full scan.
type EdgeFilter struct {
	Type      string
	From      NodeID
	To        NodeID
	PropKey   string
	PropVal   any
}

func (f EdgeFilter) isEmpty() bool {
	return f.Type == "" && f.From == "" && f.To == "" && f.PropKey == ""
}

// ListEdges returns edges matching filter via full scan.
func (g *Graph) ListEdges(filter EdgeFilter) ([]*Edge, error) {
	all := g.storage.AllEdges()
	if filter.isEmpty() {
		return all, nil
	}

	out := make([]*Edge, 0, len(all))
	for _, e := range all {
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.From != "" && e.From != filter.From {
			continue
		}
		if filter.To != "" && e.To != filter.To {
			continue
		}
		if filter.PropKey != "" {
			v, ok := e.Properties[filter.PropKey]
			if !ok || !v.Equal(propValue(filter.PropVal)) {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// GetOutgoingEdges resolves the out-adjacency of id into Edge values.
func (g *Graph) GetOutgoingEdges(id NodeID) ([]*Edge, error) {
	ids := g.storage.outgoingIDs(id)
	return g.resolveEdges(ids), nil
}

// GetIncomingEdges resolves the in-adjacency of id into Edge values.
func (g *Graph) GetIncomingEdges(id NodeID) ([]*Edge, error) {
	ids := g.storage.incomingIDs(id)
	return g.resolveEdges(ids), nil
}

func (g *Graph) resolveEdges(ids []EdgeID) []*Edge {
	out := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		if e, err := g.storage.GetEdge(id); err == nil {
			out = append(out, e)
		}
	}
	return out
}
