// Package matrix builds adjacency matrices from a graph snapshot and
// implements classical and semiring-generalized linear-algebra operations
// over them: transpose, multiply, power, elementwise combination, subgraph
// projection, kind conversion, and edge-list export.
//
// Matrices are derived values: FromGraph snapshots a node mapping and edge
// weights at construction time and never observes later graph mutations.
package matrix

import (
	"fmt"
	"sort"

	"github.com/dhippley/semigraph/pkg/graph"
	"github.com/dhippley/semigraph/pkg/semiring"
	"github.com/dhippley/semigraph/pkg/value"
)

// Kind selects the matrix's internal representation.
type Kind int

const (
	Dense Kind = iota
	Sparse
)

// coo is the coordinate-list representation: parallel row/col indices and
// values.
type coo struct {
	rows   []int
	cols   []int
	values []float64
}

// Matrix is an adjacency matrix: a dense or sparse payload, a node-id
// bijection onto [0,n), and dimensions. The empty matrix sentinel (dims
// (0,0), no payload) propagates through every operation below.
type Matrix struct {
	kind   Kind
	dense  [][]float64 // nil when kind == Sparse or matrix is empty
	sparse *coo        // nil when kind == Dense or matrix is empty
	rows   int
	cols   int

	// index maps NodeID -> matrix index; nodes maps the index back.
	index map[graph.NodeID]int
	nodes []graph.NodeID
}

// Rows reports the matrix's row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols reports the matrix's column count.
func (m *Matrix) Cols() int { return m.cols }

// Kind reports whether the matrix is stored densely or as COO triples.
func (m *Matrix) Kind() Kind { return m.kind }

// IsEmpty reports whether m is the empty-matrix sentinel (dims (0,0)).
func (m *Matrix) IsEmpty() bool { return m.rows == 0 && m.cols == 0 }

// NodeMapping returns a copy of the node-id-to-index bijection.
func (m *Matrix) NodeMapping() map[graph.NodeID]int {
	out := make(map[graph.NodeID]int, len(m.index))
	for k, v := range m.index {
		out[k] = v
	}
	return out
}

func empty() *Matrix {
	return &Matrix{index: map[graph.NodeID]int{}}
}

// weightKeys are the property keys FromGraph consults for an edge's
// weight, in preference order; an edge with neither gets weight 1.
var weightKeys = []string{"weight", "Weight"}

func edgeWeight(e *graph.Edge) float64 {
	for _, key := range weightKeys {
		if v, ok := e.Properties[key]; ok {
			if v.Kind() == value.KindInt || v.Kind() == value.KindFloat {
				return v.Float()
			}
		}
	}
	return 1
}

// FromGraph enumerates g's nodes in storage iteration order to build the
// node-index mapping, then scatters each edge's weight into a dense or
// sparse-COO adjacency matrix. Multi-edges between the same ordered pair
// overwrite (last write wins); preserving multiplicity would need a
// different representation entirely.
func FromGraph(g *graph.Graph, kind Kind) (*Matrix, error) {
	nodes, err := g.ListNodes(graph.NodeFilter{})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return empty(), nil
	}

	index := make(map[graph.NodeID]int, len(nodes))
	ids := make([]graph.NodeID, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
		ids[i] = n.ID
	}

	edges, err := g.ListEdges(graph.EdgeFilter{})
	if err != nil {
		return nil, err
	}

	n := len(nodes)
	switch kind {
	case Dense:
		data := make([][]float64, n)
		for i := range data {
			data[i] = make([]float64, n)
		}
		for _, e := range edges {
			fi, ok1 := index[e.From]
			ti, ok2 := index[e.To]
			if !ok1 || !ok2 {
				continue
			}
			data[fi][ti] = edgeWeight(e) // last write wins
		}
		return &Matrix{kind: Dense, dense: data, rows: n, cols: n, index: index, nodes: ids}, nil
	case Sparse:
		coalesce := make(map[[2]int]float64)
		order := make([][2]int, 0, len(edges))
		for _, e := range edges {
			fi, ok1 := index[e.From]
			ti, ok2 := index[e.To]
			if !ok1 || !ok2 {
				continue
			}
			key := [2]int{fi, ti}
			if _, seen := coalesce[key]; !seen {
				order = append(order, key)
			}
			coalesce[key] = edgeWeight(e) // last write wins, matching dense semantics
		}
		s := &coo{rows: make([]int, 0, len(order)), cols: make([]int, 0, len(order)), values: make([]float64, 0, len(order))}
		for _, key := range order {
			s.rows = append(s.rows, key[0])
			s.cols = append(s.cols, key[1])
			s.values = append(s.values, coalesce[key])
		}
		return &Matrix{kind: Sparse, sparse: s, rows: n, cols: n, index: index, nodes: ids}, nil
	default:
		return nil, fmt.Errorf("matrix: unknown kind %d", kind)
	}
}

// toDenseData materializes m as a dense [][]float64, regardless of m.kind.
func (m *Matrix) toDenseData() [][]float64 {
	data := make([][]float64, m.rows)
	for i := range data {
		data[i] = make([]float64, m.cols)
	}
	if m.IsEmpty() {
		return data
	}
	if m.kind == Dense {
		for i, row := range m.dense {
			copy(data[i], row)
		}
		return data
	}
	for k := range m.sparse.rows {
		data[m.sparse.rows[k]][m.sparse.cols[k]] = m.sparse.values[k]
	}
	return data
}

// sameMapping reports whether a and b share an identical NodeID->index
// bijection, required before Multiply or ElementwiseAdd can combine them.
func sameMapping(a, b map[graph.NodeID]int) bool {
	if len(a) != len(b) {
		return false
	}
	for id, i := range a {
		if j, ok := b[id]; !ok || i != j {
			return false
		}
	}
	return true
}

var ErrIncompatibleMapping = fmt.Errorf("matrix: incompatible node mapping")
var ErrIncompatibleDimensions = fmt.Errorf("matrix: incompatible dimensions")

// Transpose swaps rows and columns, preserving kind. Transpose(Transpose(M))
// is M, including for the empty matrix.
func Transpose(m *Matrix) *Matrix {
	if m.IsEmpty() {
		return empty()
	}
	switch m.kind {
	case Dense:
		out := make([][]float64, m.cols)
		for i := range out {
			out[i] = make([]float64, m.rows)
		}
		for i := 0; i < m.rows; i++ {
			for j := 0; j < m.cols; j++ {
				out[j][i] = m.dense[i][j]
			}
		}
		return &Matrix{kind: Dense, dense: out, rows: m.cols, cols: m.rows, index: m.NodeMapping(), nodes: append([]graph.NodeID(nil), m.nodes...)}
	default:
		s := &coo{rows: make([]int, len(m.sparse.rows)), cols: make([]int, len(m.sparse.cols)), values: append([]float64(nil), m.sparse.values...)}
		copy(s.rows, m.sparse.cols)
		copy(s.cols, m.sparse.rows)
		return &Matrix{kind: Sparse, sparse: s, rows: m.cols, cols: m.rows, index: m.NodeMapping(), nodes: append([]graph.NodeID(nil), m.nodes...)}
	}
}

// Multiply computes the standard (+, ·) matrix product A·B. Both operands
// must share an identical node mapping, or ErrIncompatibleMapping is
// returned. If either operand is sparse, it is converted to dense first —
// a correct but not a true sparse product. Empty propagates: multiplying
// with an empty matrix yields empty.
func Multiply(a, b *Matrix) (*Matrix, error) {
	return MultiplySemiring(a, b, semiring.Counting)
}

// MultiplySemiring computes (A (x) B)[i,j] = (+)_k (A[i,k] (*) B[k,j])
// using sr's operations and identities in place of the standard +/*. The
// shape rules, mapping check, and sparse-falls-back-to-dense behavior are
// identical to Multiply.
func MultiplySemiring(a, b *Matrix, sr semiring.Semiring) (*Matrix, error) {
	if a.IsEmpty() || b.IsEmpty() {
		return empty(), nil
	}
	if !sameMapping(a.index, b.index) {
		return nil, ErrIncompatibleMapping
	}
	if a.cols != b.rows {
		return nil, ErrIncompatibleDimensions
	}

	ad := a.toDenseData()
	bd := b.toDenseData()

	out := make([][]float64, a.rows)
	for i := 0; i < a.rows; i++ {
		out[i] = make([]float64, b.cols)
		for j := 0; j < b.cols; j++ {
			acc := sr.Zero
			for k := 0; k < a.cols; k++ {
				acc = sr.Oplus(acc, sr.Otimes(ad[i][k], bd[k][j]))
			}
			out[i][j] = acc
		}
	}

	return &Matrix{kind: Dense, dense: out, rows: a.rows, cols: b.cols, index: a.NodeMapping(), nodes: append([]graph.NodeID(nil), a.nodes...)}, nil
}

// Power computes the left-fold M (x) M (x) ... (x) M, k times, under the
// standard counting semiring (k=1 returns M unchanged).
func Power(m *Matrix, k int) (*Matrix, error) { return PowerSemiring(m, k, semiring.Counting) }

// PowerSemiring computes the left-fold semiring product M^k using sr.
func PowerSemiring(m *Matrix, k int, sr semiring.Semiring) (*Matrix, error) {
	if k < 1 {
		return nil, fmt.Errorf("matrix: power requires k >= 1, got %d", k)
	}
	if m.IsEmpty() {
		return empty(), nil
	}
	result := m
	for i := 1; i < k; i++ {
		next, err := MultiplySemiring(result, m, sr)
		if err != nil {
			return nil, err
		}
		result = next
	}
	return result, nil
}

// ElementwiseAdd applies ordinary scalar addition pairwise. Both operands
// must share an identical node mapping.
func ElementwiseAdd(a, b *Matrix) (*Matrix, error) {
	if a.IsEmpty() || b.IsEmpty() {
		return empty(), nil
	}
	if !sameMapping(a.index, b.index) {
		return nil, ErrIncompatibleMapping
	}
	if a.rows != b.rows || a.cols != b.cols {
		return nil, ErrIncompatibleDimensions
	}

	ad, bd := a.toDenseData(), b.toDenseData()
	out := make([][]float64, a.rows)
	for i := range out {
		out[i] = make([]float64, a.cols)
		for j := range out[i] {
			out[i][j] = ad[i][j] + bd[i][j]
		}
	}
	return &Matrix{kind: Dense, dense: out, rows: a.rows, cols: a.cols, index: a.NodeMapping(), nodes: append([]graph.NodeID(nil), a.nodes...)}, nil
}

// Subgraph projects m onto the rows/cols whose node ids appear in ids,
// assigning the retained ids fresh indices in the order ids is given (not in
// m's original index order). Ids absent from m are skipped.
func Subgraph(m *Matrix, ids []graph.NodeID) *Matrix {
	if m.IsEmpty() || len(ids) == 0 {
		return empty()
	}

	newIndex := make(map[graph.NodeID]int, len(ids))
	kept := make([]int, 0, len(ids)) // original indices, in caller order
	for _, id := range ids {
		if oldIdx, ok := m.index[id]; ok {
			newIndex[id] = len(kept)
			kept = append(kept, oldIdx)
		}
	}
	if len(kept) == 0 {
		return empty()
	}

	data := m.toDenseData()
	n := len(kept)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = data[kept[i]][kept[j]]
		}
	}

	nodes := make([]graph.NodeID, n)
	for id, idx := range newIndex {
		nodes[idx] = id
	}
	return &Matrix{kind: Dense, dense: out, rows: n, cols: n, index: newIndex, nodes: nodes}
}

// EdgeTuple is a non-zero matrix entry resolved back into graph space.
type EdgeTuple struct {
	From   graph.NodeID
	To     graph.NodeID
	Weight float64
}

// ToEdges enumerates m's non-zero entries as (from, to, weight) triples
// using the inverse of the node-index mapping.
func ToEdges(m *Matrix) []EdgeTuple {
	if m.IsEmpty() {
		return nil
	}

	var out []EdgeTuple
	switch m.kind {
	case Dense:
		for i, row := range m.dense {
			for j, w := range row {
				if w != 0 {
					out = append(out, EdgeTuple{From: m.nodes[i], To: m.nodes[j], Weight: w})
				}
			}
		}
	case Sparse:
		for k, w := range m.sparse.values {
			if w != 0 {
				out = append(out, EdgeTuple{From: m.nodes[m.sparse.rows[k]], To: m.nodes[m.sparse.cols[k]], Weight: w})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Convert returns m re-expressed as kind. Converting to the same kind
// returns m unchanged; dense->sparse drops explicit zeros into COO form;
// sparse->dense scatters values into a zero-filled tensor.
func Convert(m *Matrix, kind Kind) *Matrix {
	if m.kind == kind || m.IsEmpty() {
		return m
	}
	switch kind {
	case Dense:
		return &Matrix{kind: Dense, dense: m.toDenseData(), rows: m.rows, cols: m.cols, index: m.NodeMapping(), nodes: append([]graph.NodeID(nil), m.nodes...)}
	case Sparse:
		s := &coo{}
		for i, row := range m.dense {
			for j, w := range row {
				if w != 0 {
					s.rows = append(s.rows, i)
					s.cols = append(s.cols, j)
					s.values = append(s.values, w)
				}
			}
		}
		return &Matrix{kind: Sparse, sparse: s, rows: m.rows, cols: m.cols, index: m.NodeMapping(), nodes: append([]graph.NodeID(nil), m.nodes...)}
	default:
		return m
	}
}
