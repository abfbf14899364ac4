package core

import (
	"github.com/encodeous/weft/state"
	"github.com/jellydator/ttlcache/v3"
)

// LsNode runs the link-state engine for a single node. Shortest path trees are computed on
// demand and reused until the database changes.
type LsNode struct {
	State  *state.LsState
	Router Router
	spf    *ttlcache.Cache[uint64, SpfResult]
}

func NewLsNode(id state.NodeId, r Router) *LsNode {
	return &LsNode{
		State:  state.NewLsState(id),
		Router: r,
		spf: ttlcache.New[uint64, SpfResult](
			ttlcache.WithTTL[uint64, SpfResult](state.SpfCacheTTL),
			ttlcache.WithCapacity[uint64, SpfResult](state.SpfCacheCapacity),
			ttlcache.WithDisableTouchOnHit[uint64, SpfResult](),
		),
	}
}

func (n *LsNode) Id() state.NodeId {
	return n.State.Id
}

func (n *LsNode) LinkHasBeenUpdated(neigh state.NodeId, lat state.Latency) {
	LsLinkUpdate(n.State, n.Router, neigh, lat)
}

func (n *LsNode) ProcessIncomingRoutingMessage(msg string) {
	LsHandleMessage(n.State, n.Router, msg)
}

// ShortestPaths returns the shortest path tree for the current database generation
func (n *LsNode) ShortestPaths() SpfResult {
	gen := n.State.Generation
	if item := n.spf.Get(gen); item != nil {
		return item.Value()
	}
	res := Dijkstra(n.State)
	n.spf.Set(gen, res, ttlcache.DefaultTTL)
	return res
}

func (n *LsNode) GetNextHop(dst state.NodeId) state.NextHop {
	if dst == n.State.Id {
		return state.RouteSelf
	}
	res := n.ShortestPaths()
	path, ok := GeneratePath(res, dst)
	if !ok || len(path) == 0 {
		if d, known := res.Dist[dst]; known && d != state.INF {
			n.Router.Log(InconsistentState, "no path to a reachable destination", "dst", dst, "dist", d)
		}
		return state.NoRoute
	}
	return state.NextHopVia(path[0])
}

func (n *LsNode) Table() []state.RouteView {
	res := n.ShortestPaths()
	views := make([]state.RouteView, 0, len(res.Dist))
	for _, dst := range state.SortedNodes(res.Dist) {
		view := state.RouteView{
			Dst:    dst,
			Nh:     n.GetNextHop(dst),
			Metric: res.Dist[dst],
		}
		if path, ok := GeneratePath(res, dst); ok {
			view.Path = append([]state.NodeId{n.State.Id}, path...)
		}
		views = append(views, view)
	}
	return views
}
