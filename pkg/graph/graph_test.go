package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := New("test")
	require.NoError(t, err)
	return g
}

// deleting a node cascades to its incident edges.
func TestCRUDCascade(t *testing.T) {
	g := newTestGraph(t)
	require.NoError(t, g.AddNode(NewNode("alice", []string{"Person"}, nil)))
	require.NoError(t, g.AddNode(NewNode("bob", []string{"Person"}, nil)))
	require.NoError(t, g.AddEdge(NewEdge("e1", "alice", "bob", "KNOWS", nil)))

	require.NoError(t, g.DeleteNode("alice"))

	_, err := g.GetNode("alice")
	assert.ErrorIs(t, err, ErrNotFound)

	bob, err := g.GetNode("bob")
	require.NoError(t, err)
	assert.Equal(t, NodeID("bob"), bob.ID)

	edges, err := g.ListEdges(EdgeFilter{})
	require.NoError(t, err)
	assert.Empty(t, edges)
}

// an edge with a missing endpoint is rejected outright.
func TestAddEdgeRejectsMissingEndpoint(t *testing.T) {
	g := newTestGraph(t)
	err := g.AddEdge(NewEdge("e1", "alice", "bob", "KNOWS", nil))
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

// ListNodes with a label filter returns only nodes carrying that label.
func TestListNodesByLabel(t *testing.T) {
	g := newTestGraph(t)
	require.NoError(t, g.AddNode(NewNode("alice", []string{"Person"}, nil)))
	require.NoError(t, g.AddNode(NewNode("acme", []string{"Organization"}, nil)))
	require.NoError(t, g.AddNode(NewNode("bob", []string{"Person"}, nil)))

	people, err := g.ListNodes(NodeFilter{Label: "Person"})
	require.NoError(t, err)
	assert.Len(t, people, 2)
}

func TestListNodesCompositeFallsBackToScan(t *testing.T) {
	g := newTestGraph(t)
	require.NoError(t, g.AddNode(NewNode("alice", []string{"Person"}, map[string]any{"age": 30})))
	require.NoError(t, g.AddNode(NewNode("bob", []string{"Person"}, map[string]any{"age": 40})))

	matches, err := g.ListNodes(NodeFilter{Label: "Person", PropKey: "age", PropVal: 30})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, NodeID("alice"), matches[0].ID)
}

func TestListEdgesFilters(t *testing.T) {
	g := newTestGraph(t)
	require.NoError(t, g.AddNode(NewNode("a", nil, nil)))
	require.NoError(t, g.AddNode(NewNode("b", nil, nil)))
	require.NoError(t, g.AddNode(NewNode("c", nil, nil)))
	require.NoError(t, g.AddEdge(NewEdge("e1", "a", "b", "KNOWS", nil)))
	require.NoError(t, g.AddEdge(NewEdge("e2", "a", "c", "LIKES", nil)))

	knows, err := g.ListEdges(EdgeFilter{Type: "KNOWS"})
	require.NoError(t, err)
	require.Len(t, knows, 1)
	assert.Equal(t, EdgeID("e1"), knows[0].ID)
}

func TestGetOutgoingIncomingEdges(t *testing.T) {
	g := newTestGraph(t)
	require.NoError(t, g.AddNode(NewNode("a", nil, nil)))
	require.NoError(t, g.AddNode(NewNode("b", nil, nil)))
	require.NoError(t, g.AddEdge(NewEdge("e1", "a", "b", "KNOWS", nil)))

	out, err := g.GetOutgoingEdges("a")
	require.NoError(t, err)
	require.Len(t, out, 1)

	in, err := g.GetIncomingEdges("b")
	require.NoError(t, err)
	require.Len(t, in, 1)
}
