package core

import (
	"slices"
	"strings"

	"github.com/encodeous/weft/protocol"
	"github.com/encodeous/weft/state"
)

// DvLinkUpdate applies a local link event to the path-vector state.
// Every accepted event is a real change, so the table is always recomputed and flooded.
func DvLinkUpdate(s *state.DvState, r Router, neigh state.NodeId, lat state.Latency) {
	n, known := s.Neighbours[neigh]
	direct := []state.NodeId{s.Id, neigh}
	switch {
	case !known && !lat.Down:
		s.Neighbours[neigh] = &state.DvNeighbour{
			Advertised: make(map[state.NodeId]state.DvRoute),
			Seqno:      0,
			Metric:     lat.Metric,
		}
		s.Routes[neigh] = state.DvRoute{Path: direct, Metric: lat.Metric, LearnedFrom: neigh}
		r.Log(LinkAdded, "new neighbour", "neigh", neigh, "metric", lat.Metric)
	case known && !lat.Down:
		if n.Metric == lat.Metric {
			return
		}
		n.Metric = lat.Metric
		s.Routes[neigh] = state.DvRoute{Path: direct, Metric: lat.Metric, LearnedFrom: neigh}
		r.Log(LinkChanged, "neighbour metric changed", "neigh", neigh, "metric", lat.Metric)
	case known && lat.Down:
		delete(s.Neighbours, neigh)
		r.Log(LinkRemoved, "lost neighbour", "neigh", neigh)
	default:
		r.Log(UnknownLink, "link removed for unknown neighbour", "neigh", neigh)
		return
	}

	s.Routes = ComputeDv(s)
	if lat.Down {
		// poison the lost neighbour so the withdrawal is advertised, unless it is still reachable
		if _, ok := s.Routes[neigh]; !ok {
			s.Routes[neigh] = state.DvRoute{Path: direct, Metric: state.INF, LearnedFrom: neigh}
		}
	}
	ResponsibleFlood(s, r)
}

// ComputeDv rebuilds the routing table from scratch. It depends only on the neighbour set,
// the measured neighbour metrics and the last advertisement of each neighbour.
func ComputeDv(s *state.DvState) map[state.NodeId]state.DvRoute {
	table := map[state.NodeId]state.DvRoute{
		s.Id: {Path: []state.NodeId{s.Id}, Metric: 0, LearnedFrom: state.Local},
	}
	neighs := state.SortedNodes(s.Neighbours)
	for _, n := range neighs {
		table[n] = state.DvRoute{
			Path:        []state.NodeId{s.Id, n},
			Metric:      s.Neighbours[n].Metric,
			LearnedFrom: n,
		}
	}

	// routes to our own neighbours go first, so the cost to a neighbour is final before it is
	// used to extend routes further away

	for _, n := range neighs {
		adv := s.Neighbours[n].Advertised
		for _, dst := range state.SortedNodes(adv) {
			if dst == n {
				continue
			}
			if _, isNeigh := s.Neighbours[dst]; !isNeigh {
				continue
			}
			route := adv[dst]
			via := table[n]
			cost := AddMetric(via.Metric, route.Metric)
			if cost >= table[dst].Metric || slices.Contains(route.Path, s.Id) {
				continue
			}
			path := joinPath(via.Path, route.Path)
			if !isSimplePath(path) {
				continue
			}
			table[dst] = state.DvRoute{Path: path, Metric: cost, LearnedFrom: n}
		}
	}

	for _, n := range neighs {
		adv := s.Neighbours[n].Advertised
		for _, dst := range state.SortedNodes(adv) {
			if _, isNeigh := s.Neighbours[dst]; isNeigh || dst == s.Id {
				continue
			}
			route := adv[dst]
			if route.Metric == state.INF || slices.Contains(route.Path, s.Id) {
				continue
			}
			via := table[n]
			cost := AddMetric(via.Metric, route.Metric)
			if cur, ok := table[dst]; ok && cost >= cur.Metric {
				continue
			}
			// a route that already passes through another of our neighbours would let two
			// neighbours count to infinity through each other
			if slices.ContainsFunc(route.Path, func(hop state.NodeId) bool {
				_, isNeigh := s.Neighbours[hop]
				return isNeigh && hop != n
			}) {
				continue
			}
			path := joinPath(via.Path, route.Path)
			if !isSimplePath(path) {
				continue
			}
			table[dst] = state.DvRoute{Path: path, Metric: cost, LearnedFrom: n}
		}
	}
	return table
}

// ResponsibleFlood sends every neighbour the part of our table that was not learned from it
func ResponsibleFlood(s *state.DvState, r Router) {
	for _, n := range state.SortedNodes(s.Neighbours) {
		routes := make(map[state.NodeId]protocol.DvWireRoute)
		for dst, route := range s.Routes {
			if route.LearnedFrom == n {
				continue // split horizon
			}
			routes[dst] = protocol.DvWireRoute{
				Path:        protocol.ToWirePath(s.Id, dst, route.Path),
				Metric:      route.Metric,
				LearnedFrom: route.LearnedFrom,
			}
		}
		if len(routes) == 0 {
			continue
		}
		r.SendToNeighbour(n, protocol.EncodeDv(protocol.DvAdvertisement{
			Sender: s.Id,
			Seqno:  s.Seqno,
			Routes: routes,
		}))
	}
	r.Log(TableFlooded, "flooded table", "seqno", s.Seqno, "neighbours", len(s.Neighbours))
	s.Seqno++
}

// DvHandleAdvertisement processes a "SENDER|SEQ|PAYLOAD" message from a neighbour
func DvHandleAdvertisement(s *state.DvState, r Router, msg string) {
	if !strings.Contains(msg, protocol.Separator) {
		r.Log(MalformedMessage, "dropped message without separator", "msg", msg)
		return
	}
	adv, err := protocol.DecodeDv(msg)
	if err != nil {
		r.Log(MalformedMessage, "dropped undecodable advertisement", "err", err)
		return
	}
	n, ok := s.Neighbours[adv.Sender]
	if !ok {
		r.Log(UnknownSender, "dropped advertisement from non-neighbour", "from", adv.Sender)
		return
	}

	if adv.Seqno > n.Seqno {
		// the measured metric is kept, it is authoritative over anything the neighbour claims
		n.Advertised = dvFromWire(adv)
		n.Seqno = adv.Seqno
		r.Log(AdvertisementAccepted, "accepted advertisement", "from", adv.Sender, "seqno", adv.Seqno)
	} else {
		r.Log(DuplicateSeqno, "old advertisement", "from", adv.Sender, "seqno", adv.Seqno, "have", n.Seqno)
	}

	old := s.Routes
	s.Routes = ComputeDv(s)
	if !state.DvTablesEqual(old, s.Routes) {
		r.Log(RouteChanged, "table changed", "from", adv.Sender)
		ResponsibleFlood(s, r)
	}
}

func dvFromWire(adv protocol.DvAdvertisement) map[state.NodeId]state.DvRoute {
	out := make(map[state.NodeId]state.DvRoute, len(adv.Routes))
	for dst, route := range adv.Routes {
		out[dst] = state.DvRoute{
			Path:        protocol.FromWirePath(adv.Sender, dst, route.Path),
			Metric:      route.Metric,
			LearnedFrom: route.LearnedFrom,
		}
	}
	return out
}

func DvNextHop(s *state.DvState, dst state.NodeId) state.NextHop {
	if dst == s.Id {
		return state.RouteSelf
	}
	route, ok := s.Routes[dst]
	if !ok || route.Metric == state.INF || len(route.Path) < 2 {
		return state.NoRoute
	}
	return state.NextHopVia(route.Path[1])
}
