package core

import (
	"slices"

	"github.com/encodeous/weft/state"
)

// DvNode runs the path-vector engine for a single node
type DvNode struct {
	State  *state.DvState
	Router Router
}

func NewDvNode(id state.NodeId, r Router) *DvNode {
	return &DvNode{
		State:  state.NewDvState(id),
		Router: r,
	}
}

func (n *DvNode) Id() state.NodeId {
	return n.State.Id
}

func (n *DvNode) LinkHasBeenUpdated(neigh state.NodeId, lat state.Latency) {
	DvLinkUpdate(n.State, n.Router, neigh, lat)
}

func (n *DvNode) ProcessIncomingRoutingMessage(msg string) {
	DvHandleAdvertisement(n.State, n.Router, msg)
}

func (n *DvNode) GetNextHop(dst state.NodeId) state.NextHop {
	return DvNextHop(n.State, dst)
}

func (n *DvNode) Table() []state.RouteView {
	views := make([]state.RouteView, 0, len(n.State.Routes))
	for _, dst := range state.SortedNodes(n.State.Routes) {
		route := n.State.Routes[dst]
		views = append(views, state.RouteView{
			Dst:    dst,
			Nh:     DvNextHop(n.State, dst),
			Metric: route.Metric,
			Path:   slices.Clone(route.Path),
		})
	}
	return views
}
