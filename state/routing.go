package state

import (
	"fmt"
	"slices"
	"strconv"
)

type NodeId int

func (n NodeId) String() string {
	return strconv.Itoa(int(n))
}

// Link is an undirected edge between two nodes, always stored with V1 < V2
type Link Pair[NodeId, NodeId]

func MakeLink(a, b NodeId) Link {
	return Link(MakeSortedPair(a, b))
}

func (l Link) Has(n NodeId) bool {
	return l.V1 == n || l.V2 == n
}

// Other returns the endpoint of l that is not n
func (l Link) Other(n NodeId) NodeId {
	if l.V1 == n {
		return l.V2
	}
	return l.V1
}

func (l Link) String() string {
	return fmt.Sprintf("%d-%d", l.V1, l.V2)
}

func CompareLinks(a, b Link) int {
	return ComparePairs(Pair[NodeId, NodeId](a), Pair[NodeId, NodeId](b))
}

// SortedLinks returns the keys of m in ascending link order
func SortedLinks[V any](m map[Link]V) []Link {
	links := make([]Link, 0, len(m))
	for l := range m {
		links = append(links, l)
	}
	slices.SortFunc(links, CompareLinks)
	return links
}

// SortedNodes returns the keys of m in ascending order
func SortedNodes[V any](m map[NodeId]V) []NodeId {
	nodes := make([]NodeId, 0, len(m))
	for n := range m {
		nodes = append(nodes, n)
	}
	slices.Sort(nodes)
	return nodes
}

type Metric uint32

func (m Metric) String() string {
	if m == INF {
		return "inf"
	}
	return strconv.FormatUint(uint64(m), 10)
}

// Latency describes the state of a link as reported by the simulator.
type Latency struct {
	Metric Metric
	Down   bool
}

var LinkDown = Latency{Down: true}

func LinkUp(m Metric) Latency {
	return Latency{Metric: m}
}

// ParseLatency converts the simulator convention where -1 means the link is down.
func ParseLatency(lat int) (Latency, error) {
	if lat == -1 {
		return LinkDown, nil
	}
	if lat < 0 || uint64(lat) >= uint64(INFM) {
		return Latency{}, fmt.Errorf("latency %d out of range", lat)
	}
	return LinkUp(Metric(lat)), nil
}

func (l Latency) String() string {
	if l.Down {
		return "down"
	}
	return l.Metric.String()
}

type HopKind int

const (
	Unreachable HopKind = iota
	SelfRoute
	Via
)

// NextHop is the outcome of a routing query
type NextHop struct {
	Kind HopKind
	Node NodeId
}

func NextHopVia(n NodeId) NextHop {
	return NextHop{Kind: Via, Node: n}
}

var (
	NoRoute   = NextHop{Kind: Unreachable}
	RouteSelf = NextHop{Kind: SelfRoute}
)

func (h NextHop) String() string {
	switch h.Kind {
	case SelfRoute:
		return "self"
	case Via:
		return h.Node.String()
	default:
		return "unreachable"
	}
}

// RouteView is an algorithm-independent row of a node's routing table
type RouteView struct {
	Dst    NodeId
	Nh     NextHop
	Metric Metric
	Path   []NodeId
}

func (r RouteView) String() string {
	return fmt.Sprintf("%v via (nh: %v, metric: %v, path: %v)", r.Dst, r.Nh, r.Metric, r.Path)
}
