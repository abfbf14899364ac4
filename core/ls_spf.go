package core

import (
	"slices"

	"github.com/encodeous/weft/state"
)

// SpfResult is a shortest path tree rooted at Source. Unreachable nodes have distance INF
// and no entry in Prev.
type SpfResult struct {
	Source state.NodeId
	Dist   map[state.NodeId]state.Metric
	Prev   map[state.NodeId]state.NodeId
}

type edge struct {
	to   state.NodeId
	cost state.Metric
}

// Dijkstra computes shortest paths from s.Id over every known node. The next node to settle
// is the unvisited one with the smallest tentative distance; ties go to the smallest id.
func Dijkstra(s *state.LsState) SpfResult {
	adj := make(map[state.NodeId][]edge)
	vertices := make(map[state.NodeId]struct{}, len(s.KnownNodes))
	for n := range s.KnownNodes {
		vertices[n] = struct{}{}
	}
	vertices[s.Id] = struct{}{}
	for link, cost := range s.Costs {
		adj[link.V1] = append(adj[link.V1], edge{link.V2, cost})
		adj[link.V2] = append(adj[link.V2], edge{link.V1, cost})
		vertices[link.V1] = struct{}{}
		vertices[link.V2] = struct{}{}
	}
	nodes := state.SortedNodes(vertices)

	res := SpfResult{
		Source: s.Id,
		Dist:   make(map[state.NodeId]state.Metric, len(nodes)),
		Prev:   make(map[state.NodeId]state.NodeId),
	}
	for _, n := range nodes {
		res.Dist[n] = state.INF
	}
	res.Dist[s.Id] = 0

	visited := make(map[state.NodeId]struct{}, len(nodes))
	for len(visited) < len(nodes) {
		cur, best := state.NodeId(0), state.INF
		found := false
		for _, n := range nodes {
			if _, ok := visited[n]; ok {
				continue
			}
			if d := res.Dist[n]; d < best {
				cur, best, found = n, d, true
			}
		}
		if !found {
			break // everything left is unreachable
		}
		visited[cur] = struct{}{}
		for _, e := range adj[cur] {
			alt := AddMetric(best, e.cost)
			if alt < res.Dist[e.to] {
				res.Dist[e.to] = alt
				res.Prev[e.to] = cur
			}
		}
	}
	return res
}

// GeneratePath reconstructs the path from the source to dst, excluding the source.
// It returns false if dst is unreachable.
func GeneratePath(res SpfResult, dst state.NodeId) ([]state.NodeId, bool) {
	if d, ok := res.Dist[dst]; !ok || d == state.INF {
		return nil, false
	}
	path := make([]state.NodeId, 0)
	cur := dst
	for cur != res.Source {
		if len(path) > len(res.Dist) {
			return nil, false
		}
		path = append(path, cur)
		prev, ok := res.Prev[cur]
		if !ok {
			return nil, false
		}
		cur = prev
	}
	slices.Reverse(path)
	return path, true
}
