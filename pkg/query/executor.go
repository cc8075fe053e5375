package query

import (
	"fmt"
	"sort"
	"time"

	"github.com/dhippley/semigraph/pkg/graph"
	"github.com/dhippley/semigraph/pkg/value"
)

// bindingEntry is a partial-assignment slot: exactly one of Node/Edge is
// set, capturing the graph element currently bound to a pattern variable.
type bindingEntry struct {
	node *graph.Node
	edge *graph.Edge
}

type binding map[string]bindingEntry

func (b binding) clone() binding {
	cp := make(binding, len(b))
	for k, v := range b {
		cp[k] = v
	}
	return cp
}

// CellKind discriminates what a projected row cell holds.
type CellKind int

const (
	CellNull CellKind = iota
	CellNode
	CellEdge
	CellValue
)

// Cell is one entry of a projected result row: a whole bound Node/Edge (for
// a bare variable return item), a scalar property Value (for var.key), or
// null if the referenced variable/property wasn't bound.
type Cell struct {
	Kind  CellKind
	Node  *graph.Node
	Edge  *graph.Edge
	Value value.Value
}

// sortKey renders a Cell to a string for lexicographic tie-breaking when
// two cells aren't otherwise comparable.
func (c Cell) sortKey() string {
	switch c.Kind {
	case CellNode:
		return string(c.Node.ID)
	case CellEdge:
		return string(c.Edge.ID)
	case CellValue:
		return c.Value.String()
	default:
		return ""
	}
}

// Stats reports execution counters for one query run.
type Stats struct {
	NodesVisited   int
	EdgesTraversed int
	ExecutionTime  time.Duration
}

// Result is the executor's output: the projected rows, their column names
// (in return-item order), and execution stats.
type Result struct {
	Columns []string
	Rows    [][]Cell
	Stats   Stats
}

// Executor runs a parsed Query against graph g through a seed, expand,
// filter, project, order/skip/limit pipeline.
type Executor struct {
	g     *graph.Graph
	stats Stats
}

// NewExecutor creates an Executor bound to g.
func NewExecutor(g *graph.Graph) *Executor { return &Executor{g: g} }

// Execute runs q's five-stage pipeline: seed, expand, filter, project,
// order/skip/limit.
func (e *Executor) Execute(q *Query) (*Result, error) {
	start := time.Now()
	e.stats = Stats{}

	bindings, err := e.seedAndExpand(q.MatchPatterns)
	if err != nil {
		return nil, err
	}

	bindings = e.filter(bindings, q.WhereConditions)

	rows, err := e.project(bindings, q.ReturnItems)
	if err != nil {
		return nil, err
	}

	columns := make([]string, len(q.ReturnItems))
	for i, item := range q.ReturnItems {
		columns[i] = item.ColumnName()
	}

	rows = orderSkipLimit(rows, columns, q.OrderBy, q.Skip, q.Limit)

	e.stats.ExecutionTime = time.Since(start)
	return &Result{Columns: columns, Rows: rows, Stats: e.stats}, nil
}

// seedAndExpand performs the seed and expand stages. With no patterns, a
// single empty binding is produced. The first pattern's first node seeds
// candidate bindings from a full scan filtered by MatchesNode; each
// pattern's optional single hop (2-node + 1-edge) then extends every
// binding by walking the adjacency index in the pattern's direction.
// Patterns after the first re-seed independently and cross-join with the
// bindings accumulated so far — the string grammar (parser.go) never
// produces more than one pattern, so this generalization only matters to
// the builder form.
func (e *Executor) seedAndExpand(patterns []MatchPattern) ([]binding, error) {
	if len(patterns) == 0 {
		return []binding{{}}, nil
	}

	var all []binding
	for i, pat := range patterns {
		seeded, err := e.seedPattern(pat)
		if err != nil {
			return nil, err
		}
		expanded, err := e.expandHop(seeded, pat)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			all = expanded
			continue
		}
		all = crossJoin(all, expanded)
	}
	return all, nil
}

func (e *Executor) seedPattern(pat MatchPattern) ([]binding, error) {
	if len(pat.Nodes) == 0 {
		return []binding{{}}, nil
	}

	first := pat.Nodes[0]
	nodes, err := e.g.ListNodes(graph.NodeFilter{})
	if err != nil {
		return nil, err
	}

	var out []binding
	for _, n := range nodes {
		e.stats.NodesVisited++
		if !MatchesNode(n, first) {
			continue
		}
		b := binding{}
		if first.Var != "" {
			b[first.Var] = bindingEntry{node: n}
		}
		out = append(out, b)
	}
	return out, nil
}

// expandHop walks pat's single edge hop (if present), extending each
// binding in bindings with the target node (and the edge, if named).
func (e *Executor) expandHop(bindings []binding, pat MatchPattern) ([]binding, error) {
	if len(pat.Edges) == 0 {
		return bindings, nil
	}
	if len(pat.Nodes) < 2 {
		return nil, fmt.Errorf("%w: edge pattern without a target node", graph.ErrUnsupportedPattern)
	}

	edgePat := pat.Edges[0]
	targetPat := pat.Nodes[1]
	fromVar := pat.Nodes[0].Var

	var out []binding
	for _, b := range bindings {
		fromEntry, bound := b[fromVar]
		var fromNodes []*graph.Node
		if fromVar != "" && bound && fromEntry.node != nil {
			fromNodes = []*graph.Node{fromEntry.node}
		} else {
			all, err := e.g.ListNodes(graph.NodeFilter{})
			if err != nil {
				return nil, err
			}
			for _, n := range all {
				if MatchesNode(n, pat.Nodes[0]) {
					fromNodes = append(fromNodes, n)
				}
			}
		}

		for _, fromNode := range fromNodes {
			hops, err := e.candidateEdges(fromNode.ID, edgePat.Direction)
			if err != nil {
				return nil, err
			}
			for _, hop := range hops {
				e.stats.EdgesTraversed++
				if !MatchesEdge(hop.edge, edgePat) {
					continue
				}
				targetNode, err := e.g.GetNode(hop.target)
				if err != nil {
					continue
				}
				e.stats.NodesVisited++
				if !MatchesNode(targetNode, targetPat) {
					continue
				}

				nb := b.clone()
				if edgePat.Var != "" {
					nb[edgePat.Var] = bindingEntry{edge: hop.edge}
				}
				if targetPat.Var != "" {
					nb[targetPat.Var] = bindingEntry{node: targetNode}
				}
				out = append(out, nb)
			}
		}
	}
	return out, nil
}

type edgeHop struct {
	edge   *graph.Edge
	target graph.NodeID
}

// candidateEdges fetches from's incident edges in dir via the adjacency
// index, pairing each with the endpoint the hop would land on.
func (e *Executor) candidateEdges(from graph.NodeID, dir Direction) ([]edgeHop, error) {
	var hops []edgeHop
	if dir == DirOutgoing || dir == DirUndirected {
		out, err := e.g.GetOutgoingEdges(from)
		if err != nil {
			return nil, err
		}
		for _, edge := range out {
			hops = append(hops, edgeHop{edge: edge, target: edge.To})
		}
	}
	if dir == DirIncoming || dir == DirUndirected {
		in, err := e.g.GetIncomingEdges(from)
		if err != nil {
			return nil, err
		}
		for _, edge := range in {
			hops = append(hops, edgeHop{edge: edge, target: edge.From})
		}
	}
	return hops, nil
}

func crossJoin(left, right []binding) []binding {
	if len(left) == 0 || len(right) == 0 {
		return nil
	}
	out := make([]binding, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			merged := l.clone()
			for k, v := range r {
				merged[k] = v
			}
			out = append(out, merged)
		}
	}
	return out
}

// filter keeps only bindings for which every where-condition evaluates to
// true.
func (e *Executor) filter(bindings []binding, conditions []*Condition) []binding {
	if len(conditions) == 0 {
		return bindings
	}
	var out []binding
	for _, b := range bindings {
		ok := true
		for _, cond := range conditions {
			if !evaluate(cond, b) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, b)
		}
	}
	return out
}

// evaluate resolves cond against binding b. Unresolvable references (an
// operand naming a variable or property absent from b) make a comparison
// false rather than erroring.
func evaluate(cond *Condition, b binding) bool {
	switch cond.Kind {
	case ConditionLogical:
		switch cond.LogicalOp {
		case LogicalAnd:
			for _, c := range cond.Children {
				if !evaluate(c, b) {
					return false
				}
			}
			return true
		case LogicalOr:
			for _, c := range cond.Children {
				if evaluate(c, b) {
					return true
				}
			}
			return false
		case LogicalNot:
			return !evaluate(cond.Children[0], b)
		}
		return false
	case ConditionExists:
		entry, ok := b[cond.ExistsVar]
		if !ok {
			return false
		}
		_, exists := propertyOf(entry, cond.ExistsKey)
		return exists
	case ConditionComparison:
		left, leftOK := resolveOperand(cond.Left, b)
		right, rightOK := resolveOperand(cond.Right, b)
		if !leftOK || !rightOK {
			return false
		}
		return evaluateComparison(left, cond.Op, right)
	default:
		return false
	}
}

func evaluateComparison(left value.Value, op CompareOp, right value.Value) bool {
	switch op {
	case OpEq:
		return left.Equal(right)
	case OpNeq:
		return !left.Equal(right)
	case OpGt, OpGte, OpLt, OpLte:
		cmp, ok := left.Compare(right)
		if !ok {
			return false
		}
		switch op {
		case OpGt:
			return cmp > 0
		case OpGte:
			return cmp >= 0
		case OpLt:
			return cmp < 0
		default:
			return cmp <= 0
		}
	case OpIn:
		return right.Contains(left)
	case OpContains:
		return left.Contains(right)
	default:
		return false
	}
}

// resolveOperand resolves a literal or {variable, property?} reference
// against binding b. A bare variable reference (no property) resolves to
// the entity's id as a string, since Value has no "entity" kind — this is
// only meaningful for equality comparisons against a literal id or against
// another bare variable.
func resolveOperand(op Operand, b binding) (value.Value, bool) {
	if !op.IsRef {
		return op.Lit, true
	}
	entry, ok := b[op.Ref.Variable]
	if !ok {
		return value.Value{}, false
	}
	if op.Ref.Property == "" {
		return value.String(entryID(entry)), true
	}
	return propertyOf(entry, op.Ref.Property)
}

func entryID(e bindingEntry) string {
	if e.node != nil {
		return string(e.node.ID)
	}
	if e.edge != nil {
		return string(e.edge.ID)
	}
	return ""
}

func propertyOf(e bindingEntry, key string) (value.Value, bool) {
	if e.node != nil {
		v, ok := e.node.Properties[key]
		return v, ok
	}
	if e.edge != nil {
		v, ok := e.edge.Properties[key]
		return v, ok
	}
	return value.Value{}, false
}

// project renders each surviving binding into a row of Cells, one per
// return item.
func (e *Executor) project(bindings []binding, items []ReturnItem) ([][]Cell, error) {
	rows := make([][]Cell, 0, len(bindings))
	for _, b := range bindings {
		row := make([]Cell, len(items))
		for i, item := range items {
			row[i] = projectItem(b, item)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func projectItem(b binding, item ReturnItem) Cell {
	switch item.Kind {
	case ReturnVariable:
		return entryCell(b[item.Var])
	case ReturnProperty:
		v, ok := propertyOf(b[item.Var], item.Key)
		if !ok {
			return Cell{Kind: CellNull}
		}
		return Cell{Kind: CellValue, Value: v}
	case ReturnAggregation:
		// Pass through the underlying variable/property; aggregation
		// functions are declared but not computed.
		if item.Key == "" {
			return entryCell(b[item.Var])
		}
		v, ok := propertyOf(b[item.Var], item.Key)
		if !ok {
			return Cell{Kind: CellNull}
		}
		return Cell{Kind: CellValue, Value: v}
	default:
		return Cell{Kind: CellNull}
	}
}

func entryCell(e bindingEntry) Cell {
	if e.node != nil {
		return Cell{Kind: CellNode, Node: e.node}
	}
	if e.edge != nil {
		return Cell{Kind: CellEdge, Edge: e.edge}
	}
	return Cell{Kind: CellNull}
}

// orderSkipLimit sorts rows by each OrderItem in turn (stable, so ties
// preserve arrival order), drops the leading skip entries, then truncates
// to limit. An absent clause is a no-op.
// OrderItem.Column names a projected column (see Result.Columns); an
// OrderItem naming a column absent from columns is ignored.
func orderSkipLimit(rows [][]Cell, columns []string, orderBy []OrderItem, skip, limit *int) [][]Cell {
	if len(orderBy) > 0 {
		colIndex := make(map[string]int, len(columns))
		for i, c := range columns {
			colIndex[c] = i
		}

		type keyed struct {
			idx int
			ok  bool
			desc bool
		}
		keys := make([]keyed, 0, len(orderBy))
		for _, item := range orderBy {
			idx, ok := colIndex[item.Column]
			keys = append(keys, keyed{idx: idx, ok: ok, desc: item.Descending})
		}

		rows = append([][]Cell(nil), rows...)
		sort.SliceStable(rows, func(i, j int) bool {
			for _, k := range keys {
				if !k.ok {
					continue
				}
				cmp := compareCells(rows[i][k.idx], rows[j][k.idx])
				if cmp == 0 {
					continue
				}
				if k.desc {
					return cmp > 0
				}
				return cmp < 0
			}
			return false
		})
	}

	if skip != nil && *skip > 0 {
		if *skip >= len(rows) {
			rows = nil
		} else {
			rows = rows[*skip:]
		}
	}
	if limit != nil && *limit >= 0 && *limit < len(rows) {
		rows = rows[:*limit]
	}
	return rows
}

// compareCells orders two cells for ORDER BY: Values compare numerically or
// lexically via Value.Compare when possible, otherwise (or for Node/Edge
// cells) it falls back to the lexicographic id/string tie-break.
func compareCells(a, b Cell) int {
	if a.Kind == CellValue && b.Kind == CellValue {
		if cmp, ok := a.Value.Compare(b.Value); ok {
			return cmp
		}
	}
	ak, bk := a.sortKey(), b.sortKey()
	switch {
	case ak < bk:
		return -1
	case ak > bk:
		return 1
	default:
		return 0
	}
}
