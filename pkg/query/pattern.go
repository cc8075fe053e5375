package query

import "github.com/dhippley/semigraph/pkg/graph"

// MatchesNode reports whether n satisfies pat: every pattern label must be
// present on n, and every pattern property must equal the node's
// corresponding value.
func MatchesNode(n *graph.Node, pat NodePattern) bool {
	for _, label := range pat.Labels {
		if !n.HasLabel(label) {
			return false
		}
	}
	for k, want := range pat.Properties {
		got, ok := n.Properties[k]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

// MatchesEdge reports whether e satisfies pat: pat.RelType must be absent
// or equal e.Type, and every pattern property must equal the edge's
// corresponding value. Direction consistency is checked separately by the
// executor, which already knows which endpoint it walked from.
func MatchesEdge(e *graph.Edge, pat EdgePattern) bool {
	if pat.RelType != "" && pat.RelType != e.Type {
		return false
	}
	for k, want := range pat.Properties {
		got, ok := e.Properties[k]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}
