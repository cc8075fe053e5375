package matrix

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/dhippley/semigraph/pkg/graph"
)

// buildGraphFromTriples builds a 5-node graph ("v0".."v4") and adds one
// edge per (from, to, weight) triple encoded as consecutive ints in the
// range [0,4], reusing a flat []int generator instead of a bespoke struct
// generator.
func buildGraphFromTriples(t *testing.T, ints []int) *graph.Graph {
	t.Helper()
	g, err := graph.New("property")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, g.AddNode(graph.NewNode(graph.NodeID(fmt.Sprintf("v%d", i)), nil, nil)))
	}
	for i := 0; i+2 < len(ints); i += 3 {
		from, to, weight := ints[i], ints[i+1], ints[i+2]+1
		edgeID := graph.EdgeID(fmt.Sprintf("e%d", i/3))
		err := g.AddEdge(graph.NewEdge(edgeID, graph.NodeID(fmt.Sprintf("v%d", from)), graph.NodeID(fmt.Sprintf("v%d", to)), "T", map[string]any{"weight": weight}))
		require.NoError(t, err)
	}
	return g
}

// TestMatrixAlgebraicProperties checks quantified invariants (transpose
// involution, multiply's dimension law) against randomly generated small
// graphs.
func TestMatrixAlgebraicProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("transpose is involutive", prop.ForAll(
		func(ints []int) bool {
			g := buildGraphFromTriples(t, ints)
			m, err := FromGraph(g, Dense)
			if err != nil {
				return false
			}
			tt := Transpose(Transpose(m))
			return edgesEqual(ToEdges(m), ToEdges(tt))
		},
		gen.SliceOfN(24, gen.IntRange(0, 4)),
	))

	properties.Property("multiply dimensions follow (A.rows, B.cols)", prop.ForAll(
		func(ints []int) bool {
			g := buildGraphFromTriples(t, ints)
			m, err := FromGraph(g, Dense)
			if err != nil {
				return false
			}
			product, err := Multiply(m, m)
			if err != nil {
				return m.IsEmpty()
			}
			return product.Rows() == m.Rows() && product.Cols() == m.Cols()
		},
		gen.SliceOfN(24, gen.IntRange(0, 4)),
	))

	properties.Property("to_edges(from_graph(G)) matches G's edges", prop.ForAll(
		func(ints []int) bool {
			g := buildGraphFromTriples(t, ints)
			m, err := FromGraph(g, Dense)
			if err != nil {
				return false
			}
			graphEdges, err := g.ListEdges(graph.EdgeFilter{})
			if err != nil {
				return false
			}
			// last-write-wins per ordered pair, matching matrix construction
			want := map[[2]graph.NodeID]float64{}
			for _, e := range graphEdges {
				w := 1.0
				if v, ok := e.Properties["weight"]; ok {
					w = v.Float()
				}
				want[[2]graph.NodeID{e.From, e.To}] = w
			}
			got := map[[2]graph.NodeID]float64{}
			for _, et := range ToEdges(m) {
				got[[2]graph.NodeID{et.From, et.To}] = et.Weight
			}
			if len(want) != len(got) {
				return false
			}
			for k, v := range want {
				if got[k] != v {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(24, gen.IntRange(0, 4)),
	))

	properties.TestingRun(t)
}

func edgesEqual(a, b []EdgeTuple) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
