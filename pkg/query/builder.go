package query

import "github.com/dhippley/semigraph/pkg/graph"

// Builder assembles a Query programmatically, the only route to ORDER BY,
// SKIP, LIMIT, and aggregation-shaped return items, since the string parser
// rejects all four.
type Builder struct {
	g *graph.Graph
	q Query
}

// Match starts a Builder against g with an initial match pattern.
func Match(g *graph.Graph, pattern MatchPattern) *Builder {
	b := &Builder{g: g}
	b.q.MatchPatterns = append(b.q.MatchPatterns, pattern)
	return b
}

// AndMatch appends an additional match pattern, cross-joined with prior
// patterns during execution.
func (b *Builder) AndMatch(pattern MatchPattern) *Builder {
	b.q.MatchPatterns = append(b.q.MatchPatterns, pattern)
	return b
}

// Where adds a filter condition; multiple calls combine with implicit AND.
func (b *Builder) Where(cond *Condition) *Builder {
	b.q.WhereConditions = append(b.q.WhereConditions, cond)
	return b
}

// Return sets the projected columns, replacing any previous selection.
func (b *Builder) Return(items ...ReturnItem) *Builder {
	b.q.ReturnItems = items
	return b
}

// OrderBy appends an ORDER BY key.
func (b *Builder) OrderBy(column string, descending bool) *Builder {
	b.q.OrderBy = append(b.q.OrderBy, OrderItem{Column: column, Descending: descending})
	return b
}

// Skip sets how many leading rows to drop after ordering.
func (b *Builder) Skip(n int) *Builder {
	b.q.Skip = &n
	return b
}

// Limit caps the number of rows returned.
func (b *Builder) Limit(n int) *Builder {
	b.q.Limit = &n
	return b
}

// Query returns the assembled AST without executing it.
func (b *Builder) Query() *Query { return &b.q }

// Execute runs the assembled query against the Builder's graph.
func (b *Builder) Execute() (*Result, error) {
	return NewExecutor(b.g).Execute(&b.q)
}

// Var returns a ReturnItem projecting a whole bound variable.
func Var(name string) ReturnItem { return ReturnItem{Kind: ReturnVariable, Var: name} }

// Prop returns a ReturnItem projecting one property of a bound variable.
func Prop(variable, key string) ReturnItem {
	return ReturnItem{Kind: ReturnProperty, Var: variable, Key: key}
}

// Agg returns a ReturnItem declaring an aggregation function over a variable
// (or one of its properties, when key is non-empty). Execution passes
// through the underlying value — see executor.go's Project step.
func Agg(fn, variable, key string) ReturnItem {
	return ReturnItem{Kind: ReturnAggregation, Fn: fn, Var: variable, Key: key}
}
