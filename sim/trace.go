package sim

import (
	"fmt"
	"sync"

	"github.com/dustin/go-broadcast"
	"github.com/encodeous/weft/state"
)

type TraceKind int

const (
	TraceSent TraceKind = iota
	TraceDelivered
	TraceDropped
	TraceDuplicated
	TraceLinkChanged
	TraceSettled
	traceClosed
)

func (k TraceKind) String() string {
	switch k {
	case TraceSent:
		return "SENT"
	case TraceDelivered:
		return "DELIVERED"
	case TraceDropped:
		return "DROPPED"
	case TraceDuplicated:
		return "DUPLICATED"
	case TraceLinkChanged:
		return "LINK"
	case TraceSettled:
		return "SETTLED"
	default:
		return "CLOSED"
	}
}

type TraceEvent struct {
	At      uint64
	Kind    TraceKind
	From    state.NodeId
	To      state.NodeId
	Msg     string
	Latency state.Latency
}

func (e TraceEvent) String() string {
	switch e.Kind {
	case TraceLinkChanged:
		return fmt.Sprintf("t=%d %s %v-%v %v", e.At, e.Kind, e.From, e.To, e.Latency)
	case TraceSettled:
		return fmt.Sprintf("t=%d %s", e.At, e.Kind)
	default:
		return fmt.Sprintf("t=%d %s %v->%v %s", e.At, e.Kind, e.From, e.To, e.Msg)
	}
}

// Trace fans simulator events out to any number of listeners
type Trace struct {
	broadcast.Broadcaster
	listeners sync.WaitGroup
}

func NewTrace() *Trace {
	return &Trace{
		Broadcaster: broadcast.NewBroadcaster(1024),
	}
}

// Listen calls fn for every event submitted after it returns, on a separate goroutine.
// fn must not submit to the trace.
func (t *Trace) Listen(fn func(TraceEvent)) {
	ch := make(chan interface{}, 64)
	t.Register(ch)
	t.listeners.Add(1)
	go func() {
		defer t.listeners.Done()
		for m := range ch {
			ev := m.(TraceEvent)
			if ev.Kind == traceClosed {
				return
			}
			fn(ev)
		}
	}()
}

// Close flushes every listener and stops the broadcaster
func (t *Trace) Close() error {
	t.Submit(TraceEvent{Kind: traceClosed})
	t.listeners.Wait()
	return t.Broadcaster.Close()
}
