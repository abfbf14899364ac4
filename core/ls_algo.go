package core

import (
	"maps"

	"github.com/encodeous/weft/protocol"
	"github.com/encodeous/weft/state"
)

// LsLinkUpdate applies a local link event to the link-state database
func LsLinkUpdate(s *state.LsState, r Router, neigh state.NodeId, lat state.Latency) {
	s.Observe(neigh)
	link := state.MakeLink(s.Id, neigh)
	switch {
	case !s.IsNeighbour(neigh) && !lat.Down:
		// a link that was withdrawn before keeps its tombstone, the new announcement must outrank it
		seq := s.LinkSeqno(link) + 1
		s.SetLink(link, lat.Metric, seq)
		s.Neighbours[neigh] = struct{}{}
		r.Log(LinkAdded, "new neighbour", "neigh", neigh, "metric", lat.Metric)
		beginFlood(s, r, neigh, protocol.Lsa{Node1: s.Id, Node2: neigh, Sender: s.Id, Seqno: seq, Cost: lat.Metric})
		sendDatabase(s, r, neigh)
	case s.IsNeighbour(neigh) && !lat.Down:
		if s.Costs[link] == lat.Metric {
			return
		}
		seq := s.Seqnos[link] + 1
		s.SetLink(link, lat.Metric, seq)
		r.Log(LinkChanged, "neighbour metric changed", "neigh", neigh, "metric", lat.Metric, "seqno", seq)
		beginFlood(s, r, neigh, protocol.Lsa{Node1: s.Id, Node2: neigh, Sender: s.Id, Seqno: seq, Cost: lat.Metric})
	case s.IsNeighbour(neigh) && lat.Down:
		seq := s.Seqnos[link] + 1
		s.WithdrawLink(link, seq)
		delete(s.Neighbours, neigh)
		r.Log(LinkRemoved, "lost neighbour", "neigh", neigh, "seqno", seq)
		beginFlood(s, r, neigh, protocol.Lsa{Node1: s.Id, Node2: neigh, Sender: s.Id, Seqno: seq, Withdrawn: true})
	default:
		r.Log(UnknownLink, "link removed for unknown neighbour", "neigh", neigh)
	}
}

// beginFlood advertises one of our own links. The other endpoint learns of the change locally.
func beginFlood(s *state.LsState, r Router, neigh state.NodeId, lsa protocol.Lsa) {
	msg := protocol.EncodeLsa(lsa)
	for _, n := range state.SortedNodes(s.Neighbours) {
		if n != neigh {
			r.SendToNeighbour(n, msg)
		}
	}
}

func sendDatabase(s *state.LsState, r Router, neigh state.NodeId) {
	seq := s.DbSeqnos[s.Id]
	r.SendToNeighbour(neigh, protocol.EncodeDat(protocol.Dat{
		Owner:  s.Id,
		Sender: s.Id,
		Seqno:  seq,
		Seqnos: maps.Clone(s.Seqnos),
		Costs:  maps.Clone(s.Costs),
	}))
	r.Log(DatabaseSent, "sent database", "to", neigh, "seqno", seq, "links", len(s.Costs))
	s.DbSeqnos[s.Id] = seq + 1
}

func LsHandleMessage(s *state.LsState, r Router, msg string) {
	switch protocol.Classify(msg) {
	case protocol.KindLsa:
		lsa, err := protocol.DecodeLsa(msg)
		if err != nil {
			r.Log(MalformedMessage, "dropped undecodable lsa", "err", err)
			return
		}
		LsHandleLsa(s, r, lsa)
	case protocol.KindDat:
		dat, err := protocol.DecodeDat(msg)
		if err != nil {
			r.Log(MalformedMessage, "dropped undecodable database", "err", err)
			return
		}
		LsHandleDat(s, r, dat)
	default:
		r.Log(MalformedMessage, "dropped unknown message", "msg", msg)
	}
}

// LsHandleLsa implements reliable flooding of a single link advertisement
func LsHandleLsa(s *state.LsState, r Router, lsa protocol.Lsa) {
	s.Observe(lsa.Node1, lsa.Node2)
	link := lsa.Link()
	if link.Has(s.Id) {
		return // we know our own links authoritatively
	}
	if _, ok := s.Costs[link]; !ok && lsa.Withdrawn {
		return // nothing to remove
	}

	local := s.LinkSeqno(link)
	switch {
	case lsa.Seqno > local:
		if lsa.Withdrawn {
			s.WithdrawLink(link, lsa.Seqno)
		} else {
			s.SetLink(link, lsa.Cost, lsa.Seqno)
		}
		r.Log(LsaAccepted, "accepted lsa", "link", link, "seqno", lsa.Seqno, "cost", lsa.Cost, "withdrawn", lsa.Withdrawn)
		relay := lsa
		relay.Sender = s.Id
		msg := protocol.EncodeLsa(relay)
		for _, n := range state.SortedNodes(s.Neighbours) {
			if n != lsa.Sender {
				r.SendToNeighbour(n, msg)
			}
		}
	case lsa.Seqno == local:
		r.Log(DuplicateSeqno, "lsa already current", "link", link, "seqno", lsa.Seqno)
	default:
		// the sender is behind, correct it directly and let it re-propagate
		if local < 0 {
			return
		}
		if !s.IsNeighbour(lsa.Sender) {
			r.Log(UnknownSender, "stale lsa from non-neighbour", "from", lsa.Sender, "link", link)
			return
		}
		cost, live := s.Costs[link]
		r.Log(StaleSender, "correcting stale sender", "to", lsa.Sender, "link", link, "theirs", lsa.Seqno, "ours", local)
		r.SendToNeighbour(lsa.Sender, protocol.EncodeLsa(protocol.Lsa{
			Node1:     lsa.Node1,
			Node2:     lsa.Node2,
			Sender:    s.Id,
			Seqno:     local,
			Cost:      cost,
			Withdrawn: !live,
		}))
	}
}

// LsHandleDat merges a database snapshot, relaying every link it taught us
func LsHandleDat(s *state.LsState, r Router, dat protocol.Dat) {
	if last, ok := s.DbSeqnos[dat.Owner]; ok && dat.Seqno <= last {
		r.Log(DuplicateSeqno, "database already seen", "owner", dat.Owner, "seqno", dat.Seqno)
		return
	}
	s.DbSeqnos[dat.Owner] = dat.Seqno
	s.Observe(dat.Owner, dat.Sender)

	accepted := 0
	for _, link := range state.SortedLinks(dat.Seqnos) {
		seq := dat.Seqnos[link]
		if link.Has(s.Id) || seq <= s.LinkSeqno(link) {
			continue
		}
		s.Observe(link.V1, link.V2)
		lsa := protocol.Lsa{Node1: link.V1, Node2: link.V2, Sender: s.Id, Seqno: seq}
		if cost, live := dat.Costs[link]; live {
			s.SetLink(link, cost, seq)
			lsa.Cost = cost
		} else {
			if _, ok := s.Costs[link]; !ok {
				continue
			}
			s.WithdrawLink(link, seq)
			lsa.Withdrawn = true
		}
		accepted++
		msg := protocol.EncodeLsa(lsa)
		for _, n := range state.SortedNodes(s.Neighbours) {
			if n != dat.Sender && n != dat.Owner {
				r.SendToNeighbour(n, msg)
			}
		}
	}
	r.Log(DatabaseAccepted, "accepted database", "owner", dat.Owner, "seqno", dat.Seqno, "links", accepted)
}
