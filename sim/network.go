package sim

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"github.com/encodeous/weft/core"
	"github.com/encodeous/weft/perf"
	"github.com/encodeous/weft/state"
)

var ErrEventLimit = errors.New("event limit reached before the network settled")

type Options struct {
	Console io.Writer // defaults to os.Stderr
	LogFile io.Writer
	Level   slog.Level
	Trace   bool
}

type Stats struct {
	Sent       int
	Delivered  int
	Dropped    int
	Duplicated int
	LinkEvents int
}

// Network is a discrete event simulation of nodes joined by links. Virtual time advances
// only when the next event is processed, every engine call happens on the caller's goroutine.
type Network struct {
	Cfg   state.ScenarioCfg
	Log   *slog.Logger
	Nodes map[state.NodeId]core.Node
	Now   uint64
	Stats Stats

	links     map[state.Link]state.Latency
	queue     eventQueue
	seq       uint64
	processed int
	rng       *rand.Rand
	trace     *Trace
	closers   []io.Closer
}

func NewNetwork(cfg state.ScenarioCfg, opt Options) (*Network, error) {
	cfg.Links = slices.Clone(cfg.Links)
	if err := state.ExpandScenario(&cfg); err != nil {
		return nil, err
	}
	if err := state.ScenarioValidator(&cfg); err != nil {
		return nil, err
	}
	if opt.Console == nil {
		opt.Console = os.Stderr
	}

	n := &Network{
		Cfg:   cfg,
		Log:   NewLogger(opt.Console, opt.LogFile, opt.Level, "sim"),
		Nodes: make(map[state.NodeId]core.Node, len(cfg.Nodes)),
		links: make(map[state.Link]state.Latency),
		rng:   rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)^0x9e3779b97f4a7c15)),
	}
	if opt.Trace {
		n.trace = NewTrace()
	}
	for _, id := range cfg.Nodes {
		r := &nodeRouter{
			net: n,
			id:  id,
			log: NewLogger(opt.Console, opt.LogFile, opt.Level, id.String()),
		}
		node, err := core.NewNode(cfg.Algorithm, id, r)
		if err != nil {
			return nil, err
		}
		n.Nodes[id] = node
	}

	topo := cfg.InitialTopology()
	for _, l := range state.SortedLinks(topo) {
		n.schedule(&event{at: 0, kind: evLink, from: l.V1, to: l.V2, lat: topo[l]})
	}
	for _, e := range cfg.Events {
		lat, _ := state.ParseLatency(e.Latency)
		n.schedule(&event{at: e.At, kind: evLink, from: e.A, to: e.B, lat: lat})
	}
	n.Log.Debug("network created", "algorithm", cfg.Algorithm, "nodes", len(cfg.Nodes), "links", len(topo), "events", len(cfg.Events))
	return n, nil
}

// Trace returns the trace stream, or nil if tracing was not enabled
func (n *Network) Trace() *Trace {
	return n.trace
}

func (n *Network) emit(ev TraceEvent) {
	if n.trace != nil {
		ev.At = n.Now
		n.trace.Submit(ev)
	}
}

func (n *Network) schedule(ev *event) {
	ev.seq = n.seq
	n.seq++
	heap.Push(&n.queue, ev)
}

// SetLink changes the link between a and b at the current virtual time
func (n *Network) SetLink(a, b state.NodeId, lat state.Latency) {
	n.schedule(&event{at: n.Now, kind: evLink, from: a, to: b, lat: lat})
}

// Links returns the links that are currently up
func (n *Network) Links() map[state.Link]state.Latency {
	return maps.Clone(n.links)
}

func (n *Network) Settled() bool {
	return n.queue.Len() == 0
}

func (n *Network) Processed() int {
	return n.processed
}

func (n *Network) delay(lat state.Latency) uint64 {
	d := uint64(lat.Metric)
	if n.Cfg.Jitter > 0 {
		d += n.rng.Uint64N(n.Cfg.Jitter + 1)
	}
	return d
}

func (n *Network) send(from, to state.NodeId, msg string) {
	n.Stats.Sent++
	perf.SentPerSecond.Add(1)
	perf.MessageSize.Add(float64(len(msg)))
	lat, ok := n.links[state.MakeLink(from, to)]
	if !ok {
		n.Stats.Dropped++
		perf.DroppedPerSecond.Add(1)
		n.emit(TraceEvent{Kind: TraceDropped, From: from, To: to, Msg: msg})
		return
	}
	n.emit(TraceEvent{Kind: TraceSent, From: from, To: to, Msg: msg})
	n.schedule(&event{at: n.Now + n.delay(lat), kind: evDeliver, from: from, to: to, msg: msg})
	if n.Cfg.Duplicate > 0 && n.rng.Float64() < n.Cfg.Duplicate {
		n.Stats.Duplicated++
		perf.DuplicatedPerSecond.Add(1)
		n.emit(TraceEvent{Kind: TraceDuplicated, From: from, To: to, Msg: msg})
		n.schedule(&event{at: n.Now + n.delay(lat), kind: evDeliver, from: from, to: to, msg: msg})
	}
}

func (n *Network) deliver(ev *event) {
	if _, ok := n.links[state.MakeLink(ev.from, ev.to)]; !ok {
		// the link went down while the message was in flight
		n.Stats.Dropped++
		perf.DroppedPerSecond.Add(1)
		n.emit(TraceEvent{Kind: TraceDropped, From: ev.from, To: ev.to, Msg: ev.msg})
		return
	}
	n.Stats.Delivered++
	perf.DeliveredPerSecond.Add(1)
	n.emit(TraceEvent{Kind: TraceDelivered, From: ev.from, To: ev.to, Msg: ev.msg})
	n.Nodes[ev.to].ProcessIncomingRoutingMessage(ev.msg)
}

func (n *Network) applyLink(ev *event) {
	l := state.MakeLink(ev.from, ev.to)
	if ev.lat.Down {
		delete(n.links, l)
	} else {
		n.links[l] = ev.lat
	}
	n.Stats.LinkEvents++
	perf.LinkEventsPerSecond.Add(1)
	n.Log.Debug("link changed", "link", l, "latency", ev.lat, "t", n.Now)
	n.emit(TraceEvent{Kind: TraceLinkChanged, From: l.V1, To: l.V2, Latency: ev.lat})
	n.Nodes[ev.from].LinkHasBeenUpdated(ev.to, ev.lat)
	n.Nodes[ev.to].LinkHasBeenUpdated(ev.from, ev.lat)
}

func (n *Network) dispatch(ev *event) {
	switch ev.kind {
	case evLink:
		n.applyLink(ev)
	case evDeliver:
		n.deliver(ev)
	}
}

// Run processes events until the network is quiet
func (n *Network) Run(ctx context.Context) error {
	return n.RunUntil(ctx, math.MaxUint64)
}

// RunUntil processes every event scheduled at or before until
func (n *Network) RunUntil(ctx context.Context, until uint64) error {
	for n.queue.Len() > 0 && n.queue[0].at <= until {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		default:
		}
		if n.processed >= n.Cfg.MaxEvents {
			return fmt.Errorf("%w: processed %d events", ErrEventLimit, n.processed)
		}
		ev := heap.Pop(&n.queue).(*event)
		n.Now = ev.at

		start := time.Now()
		n.dispatch(ev)
		elapsed := time.Since(start)
		perf.DispatchLatency.Add(float64(elapsed.Microseconds()))
		if elapsed > state.SlowDispatch {
			n.Log.Warn("dispatch took a long time!", "kind", ev.kind, "to", ev.to, "elapsed", elapsed, "len", n.queue.Len())
		}
		n.processed++
	}
	if n.Settled() {
		n.Log.Info("network settled", "t", n.Now, "events", n.processed, "sent", n.Stats.Sent, "dropped", n.Stats.Dropped)
		n.emit(TraceEvent{Kind: TraceSettled})
	}
	return nil
}

// Close stops the trace stream and releases any log file
func (n *Network) Close() error {
	var errs []error
	if n.trace != nil {
		errs = append(errs, n.trace.Close())
		n.trace = nil
	}
	for _, c := range n.closers {
		errs = append(errs, c.Close())
	}
	n.closers = nil
	return errors.Join(errs...)
}
