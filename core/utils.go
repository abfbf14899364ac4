package core

import (
	"github.com/encodeous/weft/state"
)

func AddMetric(a, b state.Metric) state.Metric {
	if a == state.INF || b == state.INF {
		return state.INF
	} else {
		return state.Metric(min(uint64(state.INFM), uint64(a)+uint64(b)))
	}
}

// joinPath appends tail to head, where tail starts at the last node of head
func joinPath(head, tail []state.NodeId) []state.NodeId {
	path := make([]state.NodeId, 0, len(head)+len(tail))
	path = append(path, head...)
	if len(tail) > 0 {
		path = append(path, tail[1:]...)
	}
	return path
}

func isSimplePath(path []state.NodeId) bool {
	seen := make(map[state.NodeId]struct{}, len(path))
	for _, n := range path {
		if _, ok := seen[n]; ok {
			return false
		}
		seen[n] = struct{}{}
	}
	return true
}
