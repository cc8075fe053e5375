package graph

// Traverse performs a breadth-first neighborhood expansion from start,
// returning every node reachable within maxDepth hops (inclusive of start
// itself). At each hop, a node's neighbors are the far endpoints of its
// incident edges filtered by dir: DirOut only follows edges where the
// current node is From, DirIn only follows edges where it is To, DirBoth
// follows either.
func (g *Graph) Traverse(start NodeID, maxDepth int, dir Direction) ([]NodeID, error) {
	if _, err := g.storage.GetNode(start); err != nil {
		return nil, err
	}

	visited := map[NodeID]struct{}{start: {}}
	order := []NodeID{start}
	frontier := []NodeID{start}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []NodeID
		for _, current := range frontier {
			for _, neighbor := range g.neighbors(current, dir) {
				if _, seen := visited[neighbor]; seen {
					continue
				}
				visited[neighbor] = struct{}{}
				order = append(order, neighbor)
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return order, nil
}

// neighbors returns the far endpoints of id's incident edges in direction
// dir, in adjacency-list order (duplicates possible if parallel edges
// exist; callers that need a set should dedupe).
func (g *Graph) neighbors(id NodeID, dir Direction) []NodeID {
	var out []NodeID
	if dir == DirOut || dir == DirBoth {
		for _, eid := range g.storage.outgoingIDs(id) {
			if e, err := g.storage.GetEdge(eid); err == nil {
				out = append(out, e.To)
			}
		}
	}
	if dir == DirIn || dir == DirBoth {
		for _, eid := range g.storage.incomingIDs(id) {
			if e, err := g.storage.GetEdge(eid); err == nil {
				out = append(out, e.From)
			}
		}
	}
	return out
}

// ShortestPath finds an unweighted shortest path from -> to by BFS over the
// undirected adjacency (a step may cross an edge in either direction).
// Returns the node-id sequence including both endpoints ([from] if
// from == to), or ErrNoPath if the two nodes are not connected. Ties
// between equally-short paths are broken by first discovery order.
func (g *Graph) ShortestPath(from, to NodeID) ([]NodeID, error) {
	if _, err := g.storage.GetNode(from); err != nil {
		return nil, err
	}
	if _, err := g.storage.GetNode(to); err != nil {
		return nil, err
	}
	if from == to {
		return []NodeID{from}, nil
	}

	parent := map[NodeID]NodeID{from: from}
	frontier := []NodeID{from}

	for len(frontier) > 0 {
		var next []NodeID
		for _, current := range frontier {
			for _, neighbor := range g.neighbors(current, DirBoth) {
				if _, seen := parent[neighbor]; seen {
					continue
				}
				parent[neighbor] = current
				if neighbor == to {
					return reconstructPath(parent, from, to), nil
				}
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return nil, ErrNoPath
}

func reconstructPath(parent map[NodeID]NodeID, from, to NodeID) []NodeID {
	var rev []NodeID
	for cur := to; ; {
		rev = append(rev, cur)
		if cur == from {
			break
		}
		cur = parent[cur]
	}
	path := make([]NodeID, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}
