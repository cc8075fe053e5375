// Package main provides the semigraph CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhippley/semigraph/pkg/graph"
	"github.com/dhippley/semigraph/pkg/matrix"
	"github.com/dhippley/semigraph/pkg/query"
	"github.com/dhippley/semigraph/pkg/semiring"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "semigraph",
		Short: "semigraph - an embedded, in-memory property graph engine",
		Long: `semigraph is an embedded property-graph engine written in Go: concurrent
in-memory storage with label/property indexes, BFS traversal and shortest
path, a Cypher-inspired pattern-match query language, and an algebraic
adjacency-matrix/semiring layer for bulk graph computation.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("semigraph v%s (%s)\n", version, commit)
		},
	})

	rootCmd.AddCommand(demoCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// demoCmd builds a small social graph, runs a query against it, and prints
// its reachability matrix — an end-to-end exercise of all three layers.
func demoCmd() *cobra.Command {
	var queryStr string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Build a sample graph and run a query against it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, queryStr)
		},
	}
	cmd.Flags().StringVar(&queryStr, "query", `MATCH (n:Person) WHERE n.age > 25 RETURN n.name`, "query string to execute")
	return cmd
}

func runDemo(cmd *cobra.Command, queryStr string) error {
	g, err := graph.New("demo")
	if err != nil {
		return fmt.Errorf("create graph: %w", err)
	}

	people := []struct {
		id   string
		name string
		age  int64
	}{
		{"alice", "Alice", 30},
		{"bob", "Bob", 25},
		{"carol", "Carol", 40},
	}
	for _, p := range people {
		n := graph.NewNode(graph.NodeID(p.id), []string{"Person"}, map[string]any{"name": p.name, "age": p.age})
		if err := g.AddNode(n); err != nil {
			return fmt.Errorf("add node %s: %w", p.id, err)
		}
	}

	edges := [][2]string{{"alice", "bob"}, {"alice", "carol"}, {"bob", "carol"}}
	for i, e := range edges {
		edge := graph.NewEdge(graph.EdgeID(fmt.Sprintf("e%d", i)), graph.NodeID(e[0]), graph.NodeID(e[1]), "KNOWS", nil)
		if err := g.AddEdge(edge); err != nil {
			return fmt.Errorf("add edge %s->%s: %w", e[0], e[1], err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "running query: %s\n", queryStr)
	q, err := query.NewParser().Parse(queryStr)
	if err != nil {
		return fmt.Errorf("parse query: %w", err)
	}

	result, err := query.NewExecutor(g).Execute(q)
	if err != nil {
		return fmt.Errorf("execute query: %w", err)
	}

	printResult(cmd, result)

	m, err := matrix.FromGraph(g, matrix.Dense)
	if err != nil {
		return fmt.Errorf("build adjacency matrix: %w", err)
	}
	reach, err := matrix.MultiplySemiring(m, m, semiring.Boolean)
	if err != nil {
		return fmt.Errorf("compute two-hop reachability: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\ntwo-hop reachability (%d x %d):\n", reach.Rows(), reach.Cols())
	for _, edge := range matrix.ToEdges(reach) {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s -> %s (weight %g)\n", edge.From, edge.To, edge.Weight)
	}
	return nil
}

func printResult(cmd *cobra.Command, result *query.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Columns)
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			switch c.Kind {
			case query.CellNode:
				cells[i] = string(c.Node.ID)
			case query.CellEdge:
				cells[i] = string(c.Edge.ID)
			case query.CellValue:
				cells[i] = c.Value.String()
			default:
				cells[i] = "null"
			}
		}
		fmt.Fprintln(out, cells)
	}
	fmt.Fprintf(out, "visited %d nodes, traversed %d edges in %s\n",
		result.Stats.NodesVisited, result.Stats.EdgesTraversed, result.Stats.ExecutionTime)
}
