// Package query implements the Cypher-inspired pattern-match language: the
// AST shapes (ast.go), a recursive-descent parser for a bit-exact
// MATCH/WHERE/RETURN subset (parser.go), and a bindings-expansion executor
// (executor.go) plus a fluent builder form (builder.go).
package query

import "github.com/dhippley/semigraph/pkg/value"

// Direction constrains which way an EdgePattern may cross during expansion.
type Direction int

const (
	DirOutgoing Direction = iota
	DirIncoming
	DirUndirected
)

// NodePattern matches a node that carries every listed label and every
// listed property with an equal value. Var is empty for an anonymous node.
type NodePattern struct {
	Var        string
	Labels     []string
	Properties map[string]value.Value
}

// EdgePattern matches an edge whose type equals RelType (when set) and
// whose properties all match, consistent with Direction. MinHops/MaxHops are
// carried on the AST for variable-length hops but are not executed by this
// parser/executor subset — see executor.go.
type EdgePattern struct {
	Var        string
	RelType    string // empty means "any type"
	Properties map[string]value.Value
	Direction  Direction
	MinHops    *int
	MaxHops    *int
}

// MatchPattern is a path-shaped pattern: Nodes and Edges alternate, with
// Edges[i] connecting Nodes[i] and Nodes[i+1]. len(Nodes) == 1 and
// len(Edges) == 0 for a single-node pattern.
type MatchPattern struct {
	Nodes []NodePattern
	Edges []EdgePattern
}

// CompareOp enumerates the comparison operators a Condition may use.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNeq
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
	OpContains
)

// LogicalOp enumerates the ways Conditions combine.
type LogicalOp int

const (
	LogicalAnd LogicalOp = iota
	LogicalOr
	LogicalNot
)

// Ref is a reference to a bound variable, optionally narrowed to one of its
// properties. A bare Ref (Property == "") resolves to the bound Node/Edge's
// id, as a string value.
type Ref struct {
	Variable string
	Property string
}

// Operand is either a literal Value or a Ref into the current binding.
// Exactly one of Lit/Ref is meaningful, selected by IsRef.
type Operand struct {
	IsRef bool
	Lit   value.Value
	Ref   Ref
}

// LitOperand wraps a literal value as an Operand.
func LitOperand(v value.Value) Operand { return Operand{Lit: v} }

// RefOperand wraps a variable (and optional property) reference as an Operand.
func RefOperand(variable, property string) Operand {
	return Operand{IsRef: true, Ref: Ref{Variable: variable, Property: property}}
}

// Condition is a discriminated union over comparison, logical, and
// property-existence predicates. Exactly one of Comparison/Logical/Exists is
// non-nil/meaningful, selected by Kind.
type Condition struct {
	Kind ConditionKind

	// Comparison
	Left  Operand
	Op    CompareOp
	Right Operand

	// Logical
	LogicalOp LogicalOp
	Children  []*Condition

	// PropertyExists
	ExistsVar string
	ExistsKey string
}

// ConditionKind discriminates Condition's three shapes.
type ConditionKind int

const (
	ConditionComparison ConditionKind = iota
	ConditionLogical
	ConditionExists
)

// Comparison builds a comparison condition.
func Comparison(left Operand, op CompareOp, right Operand) *Condition {
	return &Condition{Kind: ConditionComparison, Left: left, Op: op, Right: right}
}

// Logical builds a logical combinator condition.
func Logical(op LogicalOp, children ...*Condition) *Condition {
	return &Condition{Kind: ConditionLogical, LogicalOp: op, Children: children}
}

// PropertyExists builds a property-existence condition.
func PropertyExists(variable, key string) *Condition {
	return &Condition{Kind: ConditionExists, ExistsVar: variable, ExistsKey: key}
}

// ReturnItemKind discriminates the three shapes a ReturnItem may take.
type ReturnItemKind int

const (
	ReturnVariable ReturnItemKind = iota
	ReturnProperty
	ReturnAggregation
)

// ReturnItem is one projected column. Aggregation is declared (Fn/Var/Key)
// but executes as a pass-through of Var/Var.Key in this subset — see
// executor.go's Project step.
type ReturnItem struct {
	Kind ReturnItemKind
	Var  string
	Key  string // property name, meaningful for ReturnProperty/ReturnAggregation
	Fn   string // aggregation function name, meaningful for ReturnAggregation
}

// ColumnName returns the canonical projected column name: "v", "v.k",
// "fn(v)", or "fn(v.k)".
func (r ReturnItem) ColumnName() string {
	switch r.Kind {
	case ReturnVariable:
		return r.Var
	case ReturnProperty:
		return r.Var + "." + r.Key
	case ReturnAggregation:
		if r.Key == "" {
			return r.Fn + "(" + r.Var + ")"
		}
		return r.Fn + "(" + r.Var + "." + r.Key + ")"
	default:
		return ""
	}
}

// OrderItem is one ORDER BY key.
type OrderItem struct {
	Column     string
	Descending bool
}

// Query is the top-level AST node: match patterns, filter conditions,
// projected return items, and the optional order/skip/limit clauses.
type Query struct {
	MatchPatterns  []MatchPattern
	WhereConditions []*Condition
	ReturnItems    []ReturnItem
	OrderBy        []OrderItem
	Skip           *int
	Limit          *int
}
