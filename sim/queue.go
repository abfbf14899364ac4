package sim

import (
	"github.com/encodeous/weft/state"
)

type eventKind int

const (
	evLink eventKind = iota
	evDeliver
)

type event struct {
	at   uint64
	seq  uint64 // insertion order, keeps simultaneous events FIFO
	kind eventKind
	from state.NodeId
	to   state.NodeId
	msg  string
	lat  state.Latency
}

// eventQueue implements heap.Interface ordered by (at, seq)
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}
