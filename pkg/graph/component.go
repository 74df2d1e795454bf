package graph

// Components partitions the graph's node indices into weakly connected
// components, treating every directed edge as undirected for reachability.
// Components are emitted in order of increasing minimal node index; isolated
// nodes form singleton components.
func Components(g *Graph) [][]int {
	n := g.NumNodes()
	if n == 0 {
		return nil
	}

	// Incoming index so BFS can walk edges in both directions.
	in := g.reverseIndex()

	visited := make([]bool, n)
	var comps [][]int

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		var comp []int
		queue := []int{start}
		visited[start] = true

		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			comp = append(comp, u)

			for _, e := range g.OutEdges(u) {
				if !visited[e.To] {
					visited[e.To] = true
					queue = append(queue, e.To)
				}
			}
			for _, v := range in[u] {
				if !visited[v] {
					visited[v] = true
					queue = append(queue, v)
				}
			}
		}

		comps = append(comps, comp)
	}

	return comps
}

// Split partitions the graph into one independent Graph per weakly connected
// component, in component discovery order. Node indices are remapped to be
// dense within each component; edge geometry is copied through unchanged.
func Split(g *Graph) []*Graph {
	comps := Components(g)
	out := make([]*Graph, 0, len(comps))

	for _, comp := range comps {
		oldToNew := make(map[int]int, len(comp))
		for newIdx, oldIdx := range comp {
			oldToNew[oldIdx] = newIdx
		}

		adj := make([][]Edge, len(comp))
		for newIdx, oldIdx := range comp {
			for _, e := range g.OutEdges(oldIdx) {
				newTo, ok := oldToNew[e.To]
				if !ok {
					// Cannot happen for weakly connected components; an edge
					// always stays inside its component.
					continue
				}
				adj[newIdx] = append(adj[newIdx], Edge{
					To:       newTo,
					Length:   e.Length,
					Geometry: e.Geometry,
				})
			}
		}

		out = append(out, New(adj))
	}

	return out
}
