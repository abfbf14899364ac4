package sim

import (
	"fmt"

	"github.com/encodeous/weft/core"
	"github.com/encodeous/weft/state"
)

// Oracle knows the true shortest distances of a fixed topology
type Oracle struct {
	nodes []state.NodeId
	links map[state.Link]state.Latency
	dist  map[state.NodeId]map[state.NodeId]state.Metric
}

func NewOracle(nodes []state.NodeId, links map[state.Link]state.Latency) *Oracle {
	o := &Oracle{
		nodes: nodes,
		links: links,
		dist:  make(map[state.NodeId]map[state.NodeId]state.Metric, len(nodes)),
	}
	for _, a := range nodes {
		o.dist[a] = make(map[state.NodeId]state.Metric, len(nodes))
		for _, b := range nodes {
			o.dist[a][b] = state.INF
		}
		o.dist[a][a] = 0
	}
	for l, lat := range links {
		if lat.Down {
			continue
		}
		o.dist[l.V1][l.V2] = min(o.dist[l.V1][l.V2], lat.Metric)
		o.dist[l.V2][l.V1] = min(o.dist[l.V2][l.V1], lat.Metric)
	}
	// floyd-warshall
	for _, k := range nodes {
		for _, i := range nodes {
			for _, j := range nodes {
				if d := core.AddMetric(o.dist[i][k], o.dist[k][j]); d < o.dist[i][j] {
					o.dist[i][j] = d
				}
			}
		}
	}
	return o
}

func (o *Oracle) Distance(src, dst state.NodeId) state.Metric {
	return o.dist[src][dst]
}

// OnShortestPath reports whether forwarding from src to nh is the first step of some
// minimum latency path to dst
func (o *Oracle) OnShortestPath(src, nh, dst state.NodeId) bool {
	lat, ok := o.links[state.MakeLink(src, nh)]
	if !ok || lat.Down {
		return false
	}
	best := o.Distance(src, dst)
	return best != state.INF && core.AddMetric(lat.Metric, o.Distance(nh, dst)) == best
}

type Violation struct {
	Src    state.NodeId
	Dst    state.NodeId
	Got    state.NextHop
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%v -> %v: next hop %v, %s", v.Src, v.Dst, v.Got, v.Reason)
}

// Verify checks every node's forwarding decision against the current topology.
// It is only meaningful once the network has settled.
func (n *Network) Verify() []Violation {
	o := NewOracle(n.Cfg.Nodes, n.links)
	violations := make([]Violation, 0)
	for _, src := range n.Cfg.Nodes {
		for _, dst := range n.Cfg.Nodes {
			nh := n.Nodes[src].GetNextHop(dst)
			if reason := o.check(src, dst, nh); reason != "" {
				violations = append(violations, Violation{Src: src, Dst: dst, Got: nh, Reason: reason})
				continue
			}
			if reason := n.followPath(src, dst); reason != "" {
				violations = append(violations, Violation{Src: src, Dst: dst, Got: nh, Reason: reason})
			}
		}
	}
	return violations
}

func (o *Oracle) check(src, dst state.NodeId, nh state.NextHop) string {
	switch {
	case src == dst:
		if nh != state.RouteSelf {
			return "expected a self route"
		}
	case o.Distance(src, dst) == state.INF:
		if nh.Kind != state.Unreachable {
			return "destination is unreachable"
		}
	case nh.Kind != state.Via:
		return fmt.Sprintf("destination is reachable at distance %v", o.Distance(src, dst))
	case !o.OnShortestPath(src, nh.Node, dst):
		return fmt.Sprintf("not on a shortest path of length %v", o.Distance(src, dst))
	}
	return ""
}

// followPath forwards hop by hop from src and reports loops and black holes
func (n *Network) followPath(src, dst state.NodeId) string {
	if src == dst {
		return ""
	}
	visited := map[state.NodeId]struct{}{src: {}}
	cur := src
	for {
		nh := n.Nodes[cur].GetNextHop(dst)
		switch nh.Kind {
		case state.Unreachable:
			if cur == src {
				return ""
			}
			return fmt.Sprintf("black hole at %v", cur)
		case state.SelfRoute:
			return fmt.Sprintf("%v claims to be %v", cur, dst)
		}
		if _, ok := n.links[state.MakeLink(cur, nh.Node)]; !ok {
			return fmt.Sprintf("%v forwards over missing link to %v", cur, nh.Node)
		}
		cur = nh.Node
		if cur == dst {
			return ""
		}
		if _, ok := visited[cur]; ok {
			return fmt.Sprintf("forwarding loop through %v", cur)
		}
		visited[cur] = struct{}{}
	}
}
