package sequence

import "nexus/internal/types"

// edgePair is a bare (from, to) arc used by the DAG utilities.
type edgePair struct {
	from, to int
}

func pairs(edges []types.DependencyEdge) []edgePair {
	out := make([]edgePair, len(edges))
	for i, e := range edges {
		out[i] = edgePair{from: e.FromIdx, to: e.ToIdx}
	}
	return out
}

// hasCycle reports whether the directed graph over n nodes contains a cycle.
// Classic three-color depth-first search: 0=unvisited, 1=in current path,
// 2=fully processed. A back-edge into an in-path node signals a cycle.
func hasCycle(n int, edges []edgePair) bool {
	adj := make([][]int, n)
	for _, e := range edges {
		adj[e.from] = append(adj[e.from], e.to)
	}

	state := make([]uint8, n)
	var visit func(node int) bool
	visit = func(node int) bool {
		if state[node] == 1 {
			return true
		}
		if state[node] == 2 {
			return false
		}
		state[node] = 1
		for _, next := range adj[node] {
			if visit(next) {
				return true
			}
		}
		state[node] = 2
		return false
	}

	for i := 0; i < n; i++ {
		if state[i] == 0 && visit(i) {
			return true
		}
	}
	return false
}

// HasCycle reports whether the dependency edges over n actions contain a cycle.
func HasCycle(n int, edges []types.DependencyEdge) bool {
	return hasCycle(n, pairs(edges))
}

// TopoSort returns the action indices in topological order (prerequisites
// first) using Kahn's algorithm. ok is false when the graph has a cycle and
// no complete ordering exists.
func TopoSort(n int, edges []types.DependencyEdge) (order []int, ok bool) {
	adj := make([][]int, n)
	inDegree := make([]int, n)
	for _, e := range edges {
		adj[e.FromIdx] = append(adj[e.FromIdx], e.ToIdx)
		inDegree[e.ToIdx]++
	}

	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order = make([]int, 0, n)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		for _, next := range adj[node] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return order, len(order) == n
}
