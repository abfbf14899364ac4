package state

import "time"

const (
	INF = ^Metric(0)
	// INFM is the maximum value for a metric that is not a retraction.
	INFM = INF - 1

	// Local marks a path-vector route that was not learned from any neighbour (the route to self).
	Local NodeId = -1
)

type Algorithm string

const (
	AlgoPathVector Algorithm = "path_vector"
	AlgoLinkState  Algorithm = "link_state"
)

var (
	// SpfCacheTTL bounds how long a shortest path tree is reused for one database generation
	SpfCacheTTL = time.Minute
	// SpfCacheCapacity is the number of database generations kept
	SpfCacheCapacity = uint64(4)

	DefaultMaxEvents = 1_000_000
	DefaultLatency   = 1

	// SlowDispatch is the wall-clock threshold above which the simulator warns about an event
	SlowDispatch = time.Millisecond * 4
)
