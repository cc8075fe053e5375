// Package graph implements the embedded property-graph engine: the node and
// edge entity types, the concurrent Storage tables and their indexes, the
// Graph coordinator that layers referential integrity and cascading delete
// on top of Storage, and BFS-based traversal primitives.
//
// The package follows the labeled-property-graph model: nodes carry a set
// of string labels and a schemaless property map, edges are directed and
// carry a single relationship type plus their own property map. Identity is
// caller-assigned (NodeID/EdgeID are opaque strings), and the whole package
// is safe for concurrent use — see Storage's doc comment for the exact
// consistency guarantee.
package graph

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dhippley/semigraph/pkg/value"
)

// Sentinel errors returned by Storage and Graph operations. Callers should
// compare with errors.Is rather than string-matching.
var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrNodeNotFound        = errors.New("referenced node not found")
	ErrStorageFailure      = errors.New("storage failure")
	ErrInvalidID           = errors.New("invalid id")
	ErrNoPath              = errors.New("no path between nodes")
	ErrUnsupportedPattern  = errors.New("unsupported pattern")
)

// NodeID uniquely identifies a node within a Graph.
type NodeID string

// EdgeID uniquely identifies an edge within a Graph.
type EdgeID string

// Properties is a schemaless string-keyed property map.
type Properties map[string]value.Value

// PropertiesOf converts a plain Go map (string/int/float/bool/nil/slice/map
// literals, as produced by application code) into Properties.
func PropertiesOf(m map[string]any) Properties {
	out := make(Properties, len(m))
	for k, v := range m {
		out[k] = value.Of(v)
	}
	return out
}

// Clone returns a copy of p's map; Storage stores and returns clones of
// Properties to keep callers from mutating indexed state by reference. List
// and Map values are copied as Value structs and share their underlying
// items with p.
func (p Properties) Clone() Properties {
	cp := make(Properties, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}

// Node is a vertex in the property graph: an identity, a deduplicated label
// set, a property map, and creation/update timestamps.
type Node struct {
	ID         NodeID
	Labels     []string
	Properties Properties
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewNode builds a Node with deduplicated labels and a cloned property map.
// If id is empty, a UUID is minted — callers that want caller-controlled
// identity should always pass one explicitly.
func NewNode(id NodeID, labels []string, props map[string]any) *Node {
	if id == "" {
		id = NodeID(uuid.NewString())
	}
	now := time.Now()
	return &Node{
		ID:         id,
		Labels:     dedupLabels(labels),
		Properties: PropertiesOf(props),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func dedupLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// HasLabel reports whether n carries label l.
func (n *Node) HasLabel(l string) bool {
	for _, have := range n.Labels {
		if have == l {
			return true
		}
	}
	return false
}

// clone returns a deep copy of n for safe storage/retrieval.
func (n *Node) clone() *Node {
	cp := *n
	cp.Labels = append([]string(nil), n.Labels...)
	cp.Properties = n.Properties.Clone()
	return &cp
}

// Edge is a directed, typed relationship between two nodes.
type Edge struct {
	ID        EdgeID
	From      NodeID
	To        NodeID
	Type      string
	Properties Properties
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEdge builds an Edge with a cloned property map. If id is empty, a UUID
// is minted.
func NewEdge(id EdgeID, from, to NodeID, relType string, props map[string]any) *Edge {
	if id == "" {
		id = EdgeID(uuid.NewString())
	}
	now := time.Now()
	return &Edge{
		ID:         id,
		From:       from,
		To:         to,
		Type:       relType,
		Properties: PropertiesOf(props),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (e *Edge) clone() *Edge {
	cp := *e
	cp.Properties = e.Properties.Clone()
	return &cp
}

// Direction selects which end of an edge a traversal step may cross.
type Direction int

const (
	// DirOut follows edges where the current node is the From endpoint.
	DirOut Direction = iota
	// DirIn follows edges where the current node is the To endpoint.
	DirIn
	// DirBoth follows edges in either direction.
	DirBoth
)
