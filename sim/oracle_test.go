package sim

import (
	"testing"

	"github.com/encodeous/weft/state"
	"github.com/stretchr/testify/assert"
)

func TestOracleDistances(t *testing.T) {
	nodes := []state.NodeId{1, 2, 3, 4, 5}
	o := NewOracle(nodes, map[state.Link]state.Latency{
		state.MakeLink(1, 2): state.LinkUp(1),
		state.MakeLink(2, 3): state.LinkUp(1),
		state.MakeLink(1, 3): state.LinkUp(5),
		state.MakeLink(3, 4): state.LinkUp(2),
	})
	assert.Equal(t, state.Metric(0), o.Distance(1, 1))
	assert.Equal(t, state.Metric(2), o.Distance(1, 3))
	assert.Equal(t, state.Metric(4), o.Distance(4, 1))
	assert.Equal(t, state.INF, o.Distance(1, 5))

	assert.True(t, o.OnShortestPath(1, 2, 4))
	assert.False(t, o.OnShortestPath(1, 3, 4))
	assert.False(t, o.OnShortestPath(1, 4, 4))
	assert.False(t, o.OnShortestPath(1, 2, 5))
}

func TestOracleEqualCostPaths(t *testing.T) {
	nodes := []state.NodeId{1, 2, 3, 4}
	o := NewOracle(nodes, map[state.Link]state.Latency{
		state.MakeLink(1, 2): state.LinkUp(1),
		state.MakeLink(1, 3): state.LinkUp(1),
		state.MakeLink(2, 4): state.LinkUp(1),
		state.MakeLink(3, 4): state.LinkUp(1),
	})
	assert.True(t, o.OnShortestPath(1, 2, 4))
	assert.True(t, o.OnShortestPath(1, 3, 4))
	assert.Equal(t, "", o.check(1, 4, state.NextHopVia(3)))
	assert.Equal(t, "", o.check(1, 1, state.RouteSelf))
	assert.NotEqual(t, "", o.check(1, 4, state.NoRoute))
	assert.NotEqual(t, "", o.check(1, 1, state.NextHopVia(2)))
}
