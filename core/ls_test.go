package core

import (
	"testing"

	"github.com/encodeous/weft/protocol"
	"github.com/encodeous/weft/state"
	"github.com/stretchr/testify/assert"
)

func TestLsLinkEvents(t *testing.T) {
	h := &RouterHarness{}
	n := NewLsNode(1, h)

	n.LinkHasBeenUpdated(2, state.LinkUp(3))
	a := h.GetActions()
	assert.Equal(t, `SEND 2 DAT|1|1|0|[[[1, 2], 0]]|[[[1, 2], 3]]`, a.String())

	n.LinkHasBeenUpdated(3, state.LinkUp(4))
	a = h.GetActions()
	assert.Equal(t,
		`SEND 2 LSA|1|3|1|0|4
SEND 3 DAT|1|1|1|[[[1, 2], 0], [[1, 3], 0]]|[[[1, 2], 3], [[1, 3], 4]]`,
		a.String())

	// unchanged cost is not an event
	n.LinkHasBeenUpdated(2, state.LinkUp(3))
	assert.Empty(t, h.GetActions())

	n.LinkHasBeenUpdated(2, state.LinkUp(5))
	a = h.GetActions()
	assert.Equal(t, `SEND 3 LSA|1|2|1|1|5`, a.String())

	n.LinkHasBeenUpdated(3, state.LinkDown)
	a = h.GetActions()
	assert.Equal(t, `SEND 2 LSA|1|3|1|1|-1`, a.String())
	assert.Equal(t, "1-2 cost 5 seqno 1\n1-3 withdrawn seqno 1", n.State.StringLinks())
	assert.Equal(t, state.NoRoute, n.GetNextHop(3))

	// the link comes back with a seqno above its tombstone
	n.LinkHasBeenUpdated(3, state.LinkUp(2))
	a = h.GetActions()
	assert.Equal(t,
		`SEND 2 LSA|1|3|1|2|2
SEND 3 DAT|1|1|2|[[[1, 2], 1], [[1, 3], 2]]|[[[1, 2], 5], [[1, 3], 2]]`,
		a.String())
	assert.Equal(t, state.NextHopVia(3), n.GetNextHop(3))

	n.LinkHasBeenUpdated(9, state.LinkDown)
	assert.Equal(t, []RouterEvent{UnknownLink}, h.GetLogs())
	assert.Empty(t, h.GetActions())
}

func newLsWithNeighbours(h *RouterHarness, id state.NodeId, neighs ...state.NodeId) *LsNode {
	n := NewLsNode(id, h)
	for _, neigh := range neighs {
		n.LinkHasBeenUpdated(neigh, state.LinkUp(1))
	}
	h.GetActions()
	return n
}

func TestLsReliableFlooding(t *testing.T) {
	h := &RouterHarness{}
	n := newLsWithNeighbours(h, 1, 2, 3)

	// new link, relayed to everyone but the sender, restamped with our id
	n.ProcessIncomingRoutingMessage("LSA|2|3|2|0|7")
	a := h.GetActions()
	assert.Equal(t, `SEND 3 LSA|2|3|1|0|7`, a.String())

	// same seqno from someone else
	n.ProcessIncomingRoutingMessage("LSA|2|3|3|0|7")
	assert.Equal(t, []RouterEvent{DuplicateSeqno}, h.GetLogs())
	assert.Empty(t, h.GetActions())

	// our own link
	n.ProcessIncomingRoutingMessage("LSA|1|2|3|9|9")
	assert.Empty(t, h.GetActions())
	assert.Equal(t, state.Metric(1), n.State.Costs[state.MakeLink(1, 2)])

	// withdrawal of a link we never had
	n.ProcessIncomingRoutingMessage("LSA|5|6|2|3|-1")
	assert.Empty(t, h.GetActions())
	assert.Contains(t, n.State.KnownNodes, state.NodeId(5))
	assert.Contains(t, n.State.KnownNodes, state.NodeId(6))
	assert.NotContains(t, n.State.Seqnos, state.MakeLink(5, 6))

	n.ProcessIncomingRoutingMessage("LSA|2|3|2|2|4")
	a = h.GetActions()
	assert.Equal(t, `SEND 3 LSA|2|3|1|2|4`, a.String())

	// 3 is behind, it gets our newer copy and nobody else does
	n.ProcessIncomingRoutingMessage("LSA|2|3|3|1|7")
	a = h.GetActions()
	assert.Equal(t, `SEND 3 LSA|2|3|1|2|4`, a.String())

	n.ProcessIncomingRoutingMessage("LSA|3|2|2|3|-1")
	a = h.GetActions()
	assert.Equal(t, `SEND 3 LSA|3|2|1|3|-1`, a.String())
	assert.NotContains(t, n.State.Costs, state.MakeLink(2, 3))
	assert.Equal(t, int64(3), n.State.Seqnos[state.MakeLink(2, 3)])

	// a stale live copy is answered with the withdrawal
	n.ProcessIncomingRoutingMessage("LSA|2|3|3|2|4")
	a = h.GetActions()
	assert.Equal(t, `SEND 3 LSA|2|3|1|3|-1`, a.String())
}

func TestLsMalformed(t *testing.T) {
	h := &RouterHarness{}
	n := newLsWithNeighbours(h, 1, 2)
	n.ProcessIncomingRoutingMessage("LSA|2|3")
	n.ProcessIncomingRoutingMessage("DAT|2|2|x|[]|[]")
	n.ProcessIncomingRoutingMessage("hello")
	assert.Equal(t, []RouterEvent{MalformedMessage, MalformedMessage, MalformedMessage}, h.GetLogs())
	assert.Empty(t, h.GetActions())
}

func TestLsDatabaseSnapshot(t *testing.T) {
	h := &RouterHarness{}
	n := newLsWithNeighbours(h, 4, 2)

	dat := protocol.Dat{
		Owner:  2,
		Sender: 2,
		Seqno:  0,
		Seqnos: map[state.Link]int64{
			state.MakeLink(1, 2): 0,
			state.MakeLink(2, 3): 0,
			state.MakeLink(2, 4): 0,
			state.MakeLink(1, 3): 1,
		},
		Costs: map[state.Link]state.Metric{
			state.MakeLink(1, 2): 1,
			state.MakeLink(2, 3): 1,
			state.MakeLink(2, 4): 1,
			state.MakeLink(1, 3): 5,
		},
	}
	n.ProcessIncomingRoutingMessage(protocol.EncodeDat(dat))
	assert.Empty(t, h.GetActions())
	assert.Equal(t, state.NextHopVia(2), n.GetNextHop(1))
	assert.Equal(t, state.NextHopVia(2), n.GetNextHop(3))
	assert.Equal(t, state.Metric(2), n.ShortestPaths().Dist[1])

	// replayed snapshot
	n.ProcessIncomingRoutingMessage(protocol.EncodeDat(dat))
	assert.Equal(t, []RouterEvent{DuplicateSeqno}, h.GetLogs())

	n.LinkHasBeenUpdated(5, state.LinkUp(1))
	h.GetActions()

	dat.Seqno = 1
	dat.Seqnos[state.MakeLink(1, 3)] = 2
	dat.Costs[state.MakeLink(1, 3)] = 1
	// stale information about our own link must not win
	dat.Seqnos[state.MakeLink(2, 4)] = 7
	dat.Costs[state.MakeLink(2, 4)] = 50
	n.ProcessIncomingRoutingMessage(protocol.EncodeDat(dat))
	a := h.GetActions()
	assert.Equal(t, `SEND 5 LSA|1|3|4|2|1`, a.String())
	assert.Equal(t, state.Metric(1), n.State.Costs[state.MakeLink(2, 4)])
}

func TestLsDatabaseWithdrawal(t *testing.T) {
	h := &RouterHarness{}
	n := newLsWithNeighbours(h, 4, 2, 5)
	n.ProcessIncomingRoutingMessage("LSA|1|2|2|0|1")
	h.GetActions()

	n.ProcessIncomingRoutingMessage(protocol.EncodeDat(protocol.Dat{
		Owner:  2,
		Sender: 2,
		Seqno:  3,
		Seqnos: map[state.Link]int64{state.MakeLink(1, 2): 1},
		Costs:  map[state.Link]state.Metric{},
	}))
	a := h.GetActions()
	assert.Equal(t, `SEND 5 LSA|1|2|4|1|-1`, a.String())
	assert.Equal(t, state.NoRoute, n.GetNextHop(1))
}

func TestLsDijkstraTies(t *testing.T) {
	h := &RouterHarness{}
	n := newLsWithNeighbours(h, 1, 2, 3)
	n.ProcessIncomingRoutingMessage("LSA|2|4|2|0|1")
	n.ProcessIncomingRoutingMessage("LSA|3|4|3|0|1")
	res := n.ShortestPaths()
	// either first hop is a shortest path
	assert.Equal(t, state.Metric(2), res.Dist[4])
	assert.Contains(t, []state.NextHop{state.NextHopVia(2), state.NextHopVia(3)}, n.GetNextHop(4))
	path, ok := GeneratePath(res, 4)
	assert.True(t, ok)
	assert.Len(t, path, 2)
	assert.Equal(t, state.NodeId(4), path[1])
}

func TestLsUnreachable(t *testing.T) {
	h := &RouterHarness{}
	n := newLsWithNeighbours(h, 1, 2)
	n.ProcessIncomingRoutingMessage("LSA|5|6|2|0|1")
	res := n.ShortestPaths()
	assert.Equal(t, state.INF, res.Dist[5])
	_, hasPrev := res.Prev[5]
	assert.False(t, hasPrev)
	assert.Equal(t, state.NoRoute, n.GetNextHop(5))
	assert.Equal(t, state.NoRoute, n.GetNextHop(42))
	assert.Equal(t, state.RouteSelf, n.GetNextHop(1))
}

func TestLsShortestPathsFollowDatabase(t *testing.T) {
	h := &RouterHarness{}
	n := newLsWithNeighbours(h, 1, 2)
	before := n.ShortestPaths()
	_, known := before.Dist[3]
	assert.False(t, known)

	n.ProcessIncomingRoutingMessage("LSA|2|3|2|0|4")
	after := n.ShortestPaths()
	assert.Equal(t, state.Metric(5), after.Dist[3])
	assert.Equal(t, state.NextHopVia(2), n.GetNextHop(3))

	views := n.Table()
	assert.Equal(t, []state.NodeId{1, 2, 3}, views[2].Path)
	assert.Equal(t, state.RouteSelf, views[0].Nh)
}
