package state

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DvRoute is a path-vector table entry. Path starts at the owning node and ends at the destination.
type DvRoute struct {
	Path        []NodeId
	Metric      Metric
	LearnedFrom NodeId
}

func (r DvRoute) Clone() DvRoute {
	r.Path = slices.Clone(r.Path)
	return r
}

func (r DvRoute) Equal(o DvRoute) bool {
	return r.Metric == o.Metric && r.LearnedFrom == o.LearnedFrom && slices.Equal(r.Path, o.Path)
}

func (r DvRoute) String() string {
	return fmt.Sprintf("(path: %v, metric: %v, from: %v)", r.Path, r.Metric, r.LearnedFrom)
}

type DvNeighbour struct {
	// Advertised is the last accepted table from this neighbour, paths start at the neighbour
	Advertised map[NodeId]DvRoute
	Seqno      int64
	Metric     Metric
}

// DvState is owned by a single node and must only be accessed from the goroutine processing its events
type DvState struct {
	Id         NodeId
	Seqno      int64
	Routes     map[NodeId]DvRoute
	Neighbours map[NodeId]*DvNeighbour
}

func NewDvState(id NodeId) *DvState {
	return &DvState{
		Id:    id,
		Seqno: 1,
		Routes: map[NodeId]DvRoute{
			id: {Path: []NodeId{id}, Metric: 0, LearnedFrom: Local},
		},
		Neighbours: make(map[NodeId]*DvNeighbour),
	}
}

func CloneDvTable(t map[NodeId]DvRoute) map[NodeId]DvRoute {
	out := make(map[NodeId]DvRoute, len(t))
	for k, v := range t {
		out[k] = v.Clone()
	}
	return out
}

func DvTablesEqual(a, b map[NodeId]DvRoute) bool {
	return maps.EqualFunc(a, b, DvRoute.Equal)
}

func (s *DvState) StringRoutes() string {
	buf := make([]string, 0, len(s.Routes))
	for _, dst := range SortedNodes(s.Routes) {
		buf = append(buf, fmt.Sprintf("%v via %v", dst, s.Routes[dst]))
	}
	return strings.Join(buf, "\n")
}

// LsState is a node's link-state database
type LsState struct {
	Id    NodeId
	Costs map[Link]Metric
	// Seqnos also holds tombstones for withdrawn links, which have no entry in Costs
	Seqnos     map[Link]int64
	DbSeqnos   map[NodeId]int64
	Neighbours map[NodeId]struct{}
	KnownNodes map[NodeId]struct{}
	// Generation is bumped on every change to Costs
	Generation uint64
}

func NewLsState(id NodeId) *LsState {
	return &LsState{
		Id:         id,
		Costs:      make(map[Link]Metric),
		Seqnos:     make(map[Link]int64),
		DbSeqnos:   map[NodeId]int64{id: 0},
		Neighbours: make(map[NodeId]struct{}),
		KnownNodes: map[NodeId]struct{}{id: {}},
	}
}

// LinkSeqno returns the stored sequence number for l, or -1 if the link has never been seen
func (s *LsState) LinkSeqno(l Link) int64 {
	seq, ok := s.Seqnos[l]
	if !ok {
		return -1
	}
	return seq
}

func (s *LsState) SetLink(l Link, cost Metric, seq int64) {
	s.Costs[l] = cost
	s.Seqnos[l] = seq
	s.Generation++
}

// WithdrawLink removes l from the database and keeps seq as its tombstone
func (s *LsState) WithdrawLink(l Link, seq int64) {
	delete(s.Costs, l)
	s.Seqnos[l] = seq
	s.Generation++
}

func (s *LsState) Observe(nodes ...NodeId) {
	for _, n := range nodes {
		s.KnownNodes[n] = struct{}{}
	}
}

func (s *LsState) IsNeighbour(n NodeId) bool {
	_, ok := s.Neighbours[n]
	return ok
}

func (s *LsState) StringLinks() string {
	buf := make([]string, 0, len(s.Seqnos))
	for _, l := range SortedLinks(s.Seqnos) {
		cost, ok := s.Costs[l]
		if ok {
			buf = append(buf, fmt.Sprintf("%v cost %v seqno %d", l, cost, s.Seqnos[l]))
		} else {
			buf = append(buf, fmt.Sprintf("%v withdrawn seqno %d", l, s.Seqnos[l]))
		}
	}
	return strings.Join(buf, "\n")
}
