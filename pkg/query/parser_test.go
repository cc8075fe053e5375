package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleMatchWhereReturn(t *testing.T) {
	q, err := NewParser().Parse(`MATCH (n:Person) WHERE n.age = 25 RETURN n.name`)
	require.NoError(t, err)

	require.Len(t, q.MatchPatterns, 1)
	pattern := q.MatchPatterns[0]
	require.Len(t, pattern.Nodes, 1)
	assert.Equal(t, "n", pattern.Nodes[0].Var)
	assert.Equal(t, []string{"Person"}, pattern.Nodes[0].Labels)
	assert.Empty(t, pattern.Edges)

	require.Len(t, q.WhereConditions, 1)
	cond := q.WhereConditions[0]
	require.Equal(t, ConditionComparison, cond.Kind)
	assert.Equal(t, RefOperand("n", "age"), cond.Left)
	assert.Equal(t, OpEq, cond.Op)
	assert.False(t, cond.Right.IsRef)
	assert.Equal(t, int64(25), cond.Right.Lit.Int())

	require.Len(t, q.ReturnItems, 1)
	assert.Equal(t, ReturnProperty, q.ReturnItems[0].Kind)
	assert.Equal(t, "n", q.ReturnItems[0].Var)
	assert.Equal(t, "name", q.ReturnItems[0].Key)
	assert.Equal(t, "n.name", q.ReturnItems[0].ColumnName())
}

func TestParseSingleHopPattern(t *testing.T) {
	q, err := NewParser().Parse(`MATCH (a:Person)-[r:KNOWS]->(b:Person) RETURN a, b`)
	require.NoError(t, err)

	pattern := q.MatchPatterns[0]
	require.Len(t, pattern.Nodes, 2)
	require.Len(t, pattern.Edges, 1)
	assert.Equal(t, "a", pattern.Nodes[0].Var)
	assert.Equal(t, "b", pattern.Nodes[1].Var)
	assert.Equal(t, "r", pattern.Edges[0].Var)
	assert.Equal(t, "KNOWS", pattern.Edges[0].RelType)
	assert.Equal(t, DirOutgoing, pattern.Edges[0].Direction)

	require.Len(t, q.ReturnItems, 2)
	assert.Equal(t, ReturnVariable, q.ReturnItems[0].Kind)
	assert.Equal(t, "a", q.ReturnItems[0].ColumnName())
	assert.Equal(t, "b", q.ReturnItems[1].ColumnName())
}

func TestParseIncomingAndUndirectedEdges(t *testing.T) {
	q, err := NewParser().Parse(`MATCH (a)<-[:FOLLOWS]-(b) RETURN a`)
	require.NoError(t, err)
	assert.Equal(t, DirIncoming, q.MatchPatterns[0].Edges[0].Direction)

	q, err = NewParser().Parse(`MATCH (a)-[:FOLLOWS]-(b) RETURN a`)
	require.NoError(t, err)
	assert.Equal(t, DirUndirected, q.MatchPatterns[0].Edges[0].Direction)
}

func TestParseLogicalOperators(t *testing.T) {
	q, err := NewParser().Parse(`MATCH (n) WHERE n.age > 18 AND n.age < 65 RETURN n`)
	require.NoError(t, err)
	cond := q.WhereConditions[0]
	require.Equal(t, ConditionLogical, cond.Kind)
	assert.Equal(t, LogicalAnd, cond.LogicalOp)
	require.Len(t, cond.Children, 2)
	assert.Equal(t, OpGt, cond.Children[0].Op)
	assert.Equal(t, OpLt, cond.Children[1].Op)
}

func TestParseNotAndParens(t *testing.T) {
	q, err := NewParser().Parse(`MATCH (n) WHERE NOT (n.age = 10 OR n.age = 20) RETURN n`)
	require.NoError(t, err)
	cond := q.WhereConditions[0]
	require.Equal(t, ConditionLogical, cond.Kind)
	assert.Equal(t, LogicalNot, cond.LogicalOp)
	require.Len(t, cond.Children, 1)
	assert.Equal(t, ConditionLogical, cond.Children[0].Kind)
	assert.Equal(t, LogicalOr, cond.Children[0].LogicalOp)
}

func TestParseStringAndFloatLiterals(t *testing.T) {
	q, err := NewParser().Parse(`MATCH (n) WHERE n.name = "Alice" RETURN n`)
	require.NoError(t, err)
	assert.Equal(t, "Alice", q.WhereConditions[0].Right.Lit.Str())

	q, err = NewParser().Parse(`MATCH (n) WHERE n.score = 4.5 RETURN n`)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, q.WhereConditions[0].Right.Lit.Float(), 0.0001)
}

func TestParseRejectsUnsupportedClauses(t *testing.T) {
	cases := []string{
		`CREATE (n:Person) RETURN n`,
		`MATCH (n) RETURN n ORDER BY n.age`,
		`MATCH (n) RETURN n SKIP 1`,
		`MATCH (n) RETURN n LIMIT 1`,
		`MATCH (n) RETURN count(n)`,
		`MATCH (n)-[:KNOWS*1..3]->(m) RETURN m`,
		`MATCH (n) SET n.age = 10 RETURN n`,
		`MATCH (n) WHERE n.age = 10 DELETE n`,
	}
	for _, src := range cases {
		_, err := NewParser().Parse(src)
		assert.Error(t, err, "expected parse error for %q", src)
		var perr *ParseError
		assert.ErrorAs(t, err, &perr)
	}
}

func TestParseMissingReturnIsError(t *testing.T) {
	_, err := NewParser().Parse(`MATCH (n:Person)`)
	assert.Error(t, err)
}
