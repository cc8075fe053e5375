package graph

import (
	"fmt"
	"sync"

	"github.com/dhippley/semigraph/pkg/value"
)

// Config configures a Storage instance. ReadConcurrency and WriteConcurrency
// are hints only: this implementation always guards all of its tables with
// one shared sync.RWMutex, so the hints do not change behavior, only document
// intent for callers porting from a backend where they do.
type Config struct {
	Name             string `validate:"required"`
	ReadConcurrency  bool
	WriteConcurrency bool
}

func (c Config) validate() error {
	if err := structValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid storage config: %w", err)
	}
	return nil
}

// adjacency is the per-node record of incident edge ids, split by direction.
type adjacency struct {
	in  []EdgeID
	out []EdgeID
}

// Storage owns the five core tables: nodes, edges, label index, property
// index, and adjacency index. All operations are safe for concurrent use.
// The guarantee is per-table atomicity, not cross-table atomicity: a single
// logical Graph operation spans multiple Storage calls, and a concurrent
// reader may observe the tables disagree between those calls. Callers
// needing a consistent snapshot must externally serialize.
//
// One struct holds every table behind a single mutex, and nodes/edges are
// copied on read and write so callers cannot mutate indexed state through a
// returned pointer.
type Storage struct {
	mu sync.RWMutex

	nodes map[NodeID]*Node
	edges map[EdgeID]*Edge

	labelIndex    map[string]map[NodeID]struct{}
	propertyIndex map[string]map[NodeID]struct{}
	adjacencyIdx  map[NodeID]*adjacency

	nodeOrder []NodeID // insertion order, for deterministic iteration
	edgeOrder []EdgeID // insertion order, for deterministic iteration

	cfg Config
}

// NewStorage creates an empty Storage table set per cfg.
func NewStorage(cfg Config) (*Storage, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Storage{
		nodes:         make(map[NodeID]*Node),
		edges:         make(map[EdgeID]*Edge),
		labelIndex:    make(map[string]map[NodeID]struct{}),
		propertyIndex: make(map[string]map[NodeID]struct{}),
		adjacencyIdx:  make(map[NodeID]*adjacency),
		cfg:           cfg,
	}, nil
}

// propIndexKey builds the composite (key, value) index key. Only scalar
// kinds (Bool, Int, Float, String) are indexed — Null/List/Map property
// values are never added to the property index; lookups for those kinds
// simply never hit.
func propIndexKey(key string, v value.Value) (string, bool) {
	switch v.Kind() {
	case value.KindBool:
		return fmt.Sprintf("b:%s=%v", key, v.Bool()), true
	case value.KindInt:
		return fmt.Sprintf("n:%s=%g", key, float64(v.Int())), true
	case value.KindFloat:
		return fmt.Sprintf("n:%s=%g", key, v.Float()), true
	case value.KindString:
		return fmt.Sprintf("s:%s=%s", key, v.Str()), true
	default:
		return "", false
	}
}

func (s *Storage) indexNodeLocked(n *Node) {
	for _, label := range n.Labels {
		if s.labelIndex[label] == nil {
			s.labelIndex[label] = make(map[NodeID]struct{})
		}
		s.labelIndex[label][n.ID] = struct{}{}
	}
	for k, v := range n.Properties {
		if idxKey, ok := propIndexKey(k, v); ok {
			if s.propertyIndex[idxKey] == nil {
				s.propertyIndex[idxKey] = make(map[NodeID]struct{})
			}
			s.propertyIndex[idxKey][n.ID] = struct{}{}
		}
	}
}

func (s *Storage) unindexNodeLocked(n *Node) {
	for _, label := range n.Labels {
		if m := s.labelIndex[label]; m != nil {
			delete(m, n.ID)
			if len(m) == 0 {
				delete(s.labelIndex, label)
			}
		}
	}
	for k, v := range n.Properties {
		if idxKey, ok := propIndexKey(k, v); ok {
			if m := s.propertyIndex[idxKey]; m != nil {
				delete(m, n.ID)
				if len(m) == 0 {
					delete(s.propertyIndex, idxKey)
				}
			}
		}
	}
}

// PutNode inserts n, or overwrites an existing node with the same ID after
// first removing its stale label/property index entries — indexes never
// carry a dangling entry for the prior revision.
func (s *Storage) PutNode(n *Node) error {
	if n == nil || n.ID == "" {
		return fmt.Errorf("%w: node id", ErrInvalidID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.nodes[n.ID]; ok {
		s.unindexNodeLocked(existing)
	} else {
		s.nodeOrder = append(s.nodeOrder, n.ID)
	}

	stored := n.clone()
	s.nodes[n.ID] = stored
	s.indexNodeLocked(stored)
	return nil
}

// GetNode returns a copy of the node with the given id, or ErrNotFound.
func (s *Storage) GetNode(id NodeID) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return n.clone(), nil
}

// DeleteNode removes id from nodes, the label index, the property index,
// and the adjacency index. It does not delete incident edges — callers
// (Graph) must do that first.
func (s *Storage) DeleteNode(id NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return ErrNotFound
	}

	s.unindexNodeLocked(n)
	delete(s.adjacencyIdx, id)
	delete(s.nodes, id)
	for i, existingID := range s.nodeOrder {
		if existingID == id {
			s.nodeOrder = append(s.nodeOrder[:i], s.nodeOrder[i+1:]...)
			break
		}
	}
	return nil
}

// PutEdge inserts e into edges and appends e.ID to the out-adjacency of
// e.From and the in-adjacency of e.To, creating adjacency records lazily.
func (s *Storage) PutEdge(e *Edge) error {
	if e == nil || e.ID == "" {
		return fmt.Errorf("%w: edge id", ErrInvalidID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.edges[e.ID]; !ok {
		s.edgeOrder = append(s.edgeOrder, e.ID)
	}

	stored := e.clone()
	s.edges[e.ID] = stored
	s.adjFor(e.From).out = append(s.adjFor(e.From).out, e.ID)
	s.adjFor(e.To).in = append(s.adjFor(e.To).in, e.ID)
	return nil
}

// adjFor returns (creating if needed) the adjacency record for id. Caller
// must hold s.mu for writing.
func (s *Storage) adjFor(id NodeID) *adjacency {
	a, ok := s.adjacencyIdx[id]
	if !ok {
		a = &adjacency{}
		s.adjacencyIdx[id] = a
	}
	return a
}

// GetEdge returns a copy of the edge with the given id, or ErrNotFound.
func (s *Storage) GetEdge(id EdgeID) (*Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.edges[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.clone(), nil
}

// DeleteEdge removes id from edges and from both endpoints' adjacency
// lists. Missing endpoints are tolerated silently, since a cascading node
// delete may already have removed them.
func (s *Storage) DeleteEdge(id EdgeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.edges[id]
	if !ok {
		return ErrNotFound
	}

	if a, ok := s.adjacencyIdx[e.From]; ok {
		a.out = removeEdgeID(a.out, id)
	}
	if a, ok := s.adjacencyIdx[e.To]; ok {
		a.in = removeEdgeID(a.in, id)
	}
	delete(s.edges, id)
	for i, existingID := range s.edgeOrder {
		if existingID == id {
			s.edgeOrder = append(s.edgeOrder[:i], s.edgeOrder[i+1:]...)
			break
		}
	}
	return nil
}

func removeEdgeID(ids []EdgeID, target EdgeID) []EdgeID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// GetEdgesForNode returns the deduplicated set of edges incident to id (the
// union of its in and out adjacency lists), resolved through the edges
// table.
func (s *Storage) GetEdgesForNode(id NodeID) ([]*Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.adjacencyIdx[id]
	if !ok {
		return nil, nil
	}

	seen := make(map[EdgeID]struct{})
	out := make([]*Edge, 0, len(a.in)+len(a.out))
	for _, list := range [][]EdgeID{a.in, a.out} {
		for _, eid := range list {
			if _, dup := seen[eid]; dup {
				continue
			}
			seen[eid] = struct{}{}
			if e, ok := s.edges[eid]; ok {
				out = append(out, e.clone())
			}
		}
	}
	return out, nil
}

// outgoingIDs and incomingIDs return the raw adjacency lists (not resolved
// to Edges) for use by traversal, which only needs ids and endpoints.
func (s *Storage) outgoingIDs(id NodeID) []EdgeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.adjacencyIdx[id]; ok {
		return append([]EdgeID(nil), a.out...)
	}
	return nil
}

func (s *Storage) incomingIDs(id NodeID) []EdgeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.adjacencyIdx[id]; ok {
		return append([]EdgeID(nil), a.in...)
	}
	return nil
}

// QueryLabel returns the node ids carrying label l (order unspecified).
func (s *Storage) QueryLabel(l string) []NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.labelIndex[l]
	out := make([]NodeID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

// QueryProperty returns the node ids whose property k equals v (order
// unspecified). Only scalar-kind values are indexed; other kinds return no
// results even if a node's property structurally equals v.
func (s *Storage) QueryProperty(k string, v value.Value) []NodeID {
	idxKey, ok := propIndexKey(k, v)
	if !ok {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.propertyIndex[idxKey]
	out := make([]NodeID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

// AllNodes returns a copy of every node, in insertion order.
func (s *Storage) AllNodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		if n, ok := s.nodes[id]; ok {
			out = append(out, n.clone())
		}
	}
	return out
}

// AllEdges returns a copy of every edge, in insertion order.
func (s *Storage) AllEdges() []*Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Edge, 0, len(s.edgeOrder))
	for _, id := range s.edgeOrder {
		if e, ok := s.edges[id]; ok {
			out = append(out, e.clone())
		}
	}
	return out
}
