package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhippley/semigraph/pkg/graph"
	"github.com/dhippley/semigraph/pkg/semiring"
)

func abcGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.New("abc")
	require.NoError(t, err)
	require.NoError(t, g.AddNode(graph.NewNode("a", nil, nil)))
	require.NoError(t, g.AddNode(graph.NewNode("b", nil, nil)))
	require.NoError(t, g.AddNode(graph.NewNode("c", nil, nil)))
	require.NoError(t, g.AddEdge(graph.NewEdge("ab", "a", "b", "NEXT", map[string]any{"weight": 1})))
	require.NoError(t, g.AddEdge(graph.NewEdge("bc", "b", "c", "NEXT", map[string]any{"weight": 2.5})))
	return g
}

func TestFromGraphEmpty(t *testing.T) {
	g, err := graph.New("empty")
	require.NoError(t, err)

	m, err := FromGraph(g, Dense)
	require.NoError(t, err)
	assert.True(t, m.IsEmpty())
	assert.Equal(t, 0, m.Rows())
	assert.Equal(t, 0, m.Cols())
}

// building a dense matrix from a graph and reading it back as edges round-trips.
func TestFromGraphToEdgesRoundTrip(t *testing.T) {
	g := abcGraph(t)

	m, err := FromGraph(g, Dense)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Rows())

	edges := ToEdges(m)
	require.Len(t, edges, 2)
	assert.Equal(t, EdgeTuple{From: "a", To: "b", Weight: 1}, edges[0])
	assert.Equal(t, EdgeTuple{From: "b", To: "c", Weight: 2.5}, edges[1])
}

func TestFromGraphSparseMatchesDense(t *testing.T) {
	g := abcGraph(t)

	dense, err := FromGraph(g, Dense)
	require.NoError(t, err)
	sparse, err := FromGraph(g, Sparse)
	require.NoError(t, err)

	assert.ElementsMatch(t, ToEdges(dense), ToEdges(sparse))
}

func TestMultiEdgeLastWriteWins(t *testing.T) {
	g, err := graph.New("multi")
	require.NoError(t, err)
	require.NoError(t, g.AddNode(graph.NewNode("a", nil, nil)))
	require.NoError(t, g.AddNode(graph.NewNode("b", nil, nil)))
	require.NoError(t, g.AddEdge(graph.NewEdge("e1", "a", "b", "T", map[string]any{"weight": 1})))
	require.NoError(t, g.AddEdge(graph.NewEdge("e2", "a", "b", "T", map[string]any{"weight": 9})))

	m, err := FromGraph(g, Dense)
	require.NoError(t, err)
	edges := ToEdges(m)
	require.Len(t, edges, 1)
	assert.Equal(t, 9.0, edges[0].Weight)
}

func TestTransposeInvolution(t *testing.T) {
	g := abcGraph(t)
	m, err := FromGraph(g, Dense)
	require.NoError(t, err)

	tt := Transpose(Transpose(m))
	assert.Equal(t, ToEdges(m), ToEdges(tt))
}

func TestTransposeEmpty(t *testing.T) {
	assert.True(t, Transpose(empty()).IsEmpty())
}

func TestMultiplyIncompatibleMapping(t *testing.T) {
	g1 := abcGraph(t)
	g2, err := graph.New("other")
	require.NoError(t, err)
	require.NoError(t, g2.AddNode(graph.NewNode("x", nil, nil)))

	m1, err := FromGraph(g1, Dense)
	require.NoError(t, err)
	m2, err := FromGraph(g2, Dense)
	require.NoError(t, err)

	_, err = Multiply(m1, m2)
	assert.ErrorIs(t, err, ErrIncompatibleMapping)
}

func TestMultiplyDimensions(t *testing.T) {
	g := abcGraph(t)
	m, err := FromGraph(g, Dense)
	require.NoError(t, err)

	product, err := Multiply(m, m)
	require.NoError(t, err)
	assert.Equal(t, m.Rows(), product.Rows())
	assert.Equal(t, m.Cols(), product.Cols())
}

// squaring a 0/1 adjacency matrix under the boolean semiring yields two-hop reachability.
func TestBooleanReachability(t *testing.T) {
	g := abcGraph(t)
	m, err := FromGraph(g, Dense)
	require.NoError(t, err)

	boolM := toBoolean(m)
	squared, err := MultiplySemiring(boolM, boolM, semiring.Boolean)
	require.NoError(t, err)

	idxA, idxC := m.NodeMapping()["a"], m.NodeMapping()["c"]
	idxAA := m.NodeMapping()["a"]
	assert.Equal(t, 1.0, squared.toDenseData()[idxA][idxC])
	assert.Equal(t, 0.0, squared.toDenseData()[idxAA][idxAA])
}

// toBoolean rewrites every non-zero entry of m to 1.0, the 0/1 encoding
// the Boolean semiring expects.
func toBoolean(m *Matrix) *Matrix {
	data := m.toDenseData()
	for i := range data {
		for j := range data[i] {
			if data[i][j] != 0 {
				data[i][j] = 1
			}
		}
	}
	return &Matrix{kind: Dense, dense: data, rows: m.rows, cols: m.cols, index: m.NodeMapping(), nodes: append([]graph.NodeID(nil), m.nodes...)}
}

// the tropical semiring finds a two-hop path shorter than the direct edge.
func TestTropicalShortestPath(t *testing.T) {
	g, err := graph.New("tropical")
	require.NoError(t, err)
	require.NoError(t, g.AddNode(graph.NewNode("a", nil, nil)))
	require.NoError(t, g.AddNode(graph.NewNode("b", nil, nil)))
	require.NoError(t, g.AddNode(graph.NewNode("c", nil, nil)))
	require.NoError(t, g.AddEdge(graph.NewEdge("ab", "a", "b", "T", map[string]any{"weight": 2})))
	require.NoError(t, g.AddEdge(graph.NewEdge("bc", "b", "c", "T", map[string]any{"weight": 3})))
	require.NoError(t, g.AddEdge(graph.NewEdge("ac", "a", "c", "T", map[string]any{"weight": 7})))

	m, err := FromGraph(g, Dense)
	require.NoError(t, err)
	tropical := toTropical(m)

	squared, err := MultiplySemiring(tropical, tropical, semiring.Tropical)
	require.NoError(t, err)

	idxA, idxC := m.NodeMapping()["a"], m.NodeMapping()["c"]
	assert.Equal(t, 5.0, squared.toDenseData()[idxA][idxC])
}

// toTropical rewrites m so off-diagonal zero (no edge) entries become the
// tropical-infinity sentinel and the diagonal is 0, the weighted adjacency
// shape the tropical semiring expects.
func toTropical(m *Matrix) *Matrix {
	data := m.toDenseData()
	n := len(data)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				data[i][j] = 0
				continue
			}
			if data[i][j] == 0 {
				data[i][j] = semiring.Tropical.Zero
			}
		}
	}
	return &Matrix{kind: Dense, dense: data, rows: m.rows, cols: m.cols, index: m.NodeMapping(), nodes: append([]graph.NodeID(nil), m.nodes...)}
}

func TestSubgraphPreservesOrder(t *testing.T) {
	g := abcGraph(t)
	m, err := FromGraph(g, Dense)
	require.NoError(t, err)

	sub := Subgraph(m, []graph.NodeID{"c", "a"})
	require.Equal(t, 2, sub.Rows())
	assert.Equal(t, 0, sub.NodeMapping()["c"])
	assert.Equal(t, 1, sub.NodeMapping()["a"])
}

func TestConvertRoundTrip(t *testing.T) {
	g := abcGraph(t)
	dense, err := FromGraph(g, Dense)
	require.NoError(t, err)

	sparse := Convert(dense, Sparse)
	backToDense := Convert(sparse, Dense)
	assert.Equal(t, ToEdges(dense), ToEdges(backToDense))
}

func TestElementwiseAdd(t *testing.T) {
	g := abcGraph(t)
	m, err := FromGraph(g, Dense)
	require.NoError(t, err)

	sum, err := ElementwiseAdd(m, m)
	require.NoError(t, err)
	idxA, idxB := m.NodeMapping()["a"], m.NodeMapping()["b"]
	assert.Equal(t, 2.0, sum.toDenseData()[idxA][idxB])
}
