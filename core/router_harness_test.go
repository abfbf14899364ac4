package core

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/encodeous/weft/protocol"
	"github.com/encodeous/weft/state"
	"github.com/google/go-cmp/cmp"
)

type HarnessEvent struct {
	Message string
	Args    []any
}

func MakeEvent(msg string, args ...any) HarnessEvent {
	return HarnessEvent{
		Message: msg,
		Args:    args,
	}
}

// RouterHarness records every effect an engine has on its environment
type RouterHarness struct {
	actions []HarnessEvent
}

func (h *RouterHarness) SendToNeighbour(neigh state.NodeId, msg string) {
	h.actions = append(h.actions, MakeEvent("SEND", neigh, msg))
}

func (h *RouterHarness) Log(event RouterEvent, desc string, args ...any) {
	x := make([]any, 0)
	x = append(x, event)
	x = append(x, desc)
	x = append(x, args...)
	h.actions = append(h.actions, MakeEvent("LOG", x...))
}

type HarnessEvents []HarnessEvent

func (h HarnessEvents) String() string {
	out := make([]string, 0)
	for _, action := range h {
		cur := action.Message
		for _, arg := range action.Args {
			cur += " " + fmt.Sprint(arg)
		}
		out = append(out, cur)
	}
	slices.Sort(out)
	return strings.Join(out, "\n")
}

// GetActions returns and clears the recorded sends
func (h *RouterHarness) GetActions() HarnessEvents {
	x := make([]HarnessEvent, 0)
	for _, action := range h.actions {
		if action.Message != "LOG" {
			x = append(x, action)
		}
	}
	h.actions = make([]HarnessEvent, 0)
	return x
}

// GetLogs returns and clears the recorded log events
func (h *RouterHarness) GetLogs() []RouterEvent {
	x := make([]RouterEvent, 0)
	rest := make([]HarnessEvent, 0)
	for _, action := range h.actions {
		if action.Message == "LOG" {
			x = append(x, action.Args[0].(RouterEvent))
		} else {
			rest = append(rest, action)
		}
	}
	h.actions = rest
	return x
}

func (e HarnessEvents) contains(msg string, args ...any) bool {
	for _, event := range e {
		if event.Message == msg {
			if len(event.Args) >= len(args) {
				match := true
				for i, arg := range args {
					if !cmp.Equal(event.Args[i], arg) {
						match = false
						break
					}
				}
				if match {
					return true
				}
			}
		}
	}
	return false
}

func (e HarnessEvents) AssertContains(t *testing.T, msg string, args ...any) {
	t.Helper()
	if e.contains(msg, args...) {
		return
	}
	t.Fatal("Expected event not found: ", msg, " with args: ", args, " in ", e)
}

func (e HarnessEvents) AssertNotContains(t *testing.T, msg string, args ...any) {
	t.Helper()
	if e.contains(msg, args...) {
		t.Fatal("Unexpected event found: ", msg, " with args: ", args, " in ", e)
	}
}

// SentTo returns the messages sent to neigh, in order
func (e HarnessEvents) SentTo(neigh state.NodeId) []string {
	out := make([]string, 0)
	for _, event := range e {
		if event.Message == "SEND" && event.Args[0] == neigh {
			out = append(out, event.Args[1].(string))
		}
	}
	return out
}

// Advert builds a path-vector advertisement from sender-relative routes written as
// dst -> (wire path, metric, learned from)
type DvWire = protocol.DvWireRoute

func Advert(sender state.NodeId, seq int64, routes map[state.NodeId]DvWire) string {
	return protocol.EncodeDv(protocol.DvAdvertisement{Sender: sender, Seqno: seq, Routes: routes})
}

func WireRoute(metric state.Metric, from state.NodeId, path ...state.NodeId) protocol.DvWireRoute {
	return protocol.DvWireRoute{Path: path, Metric: metric, LearnedFrom: from}
}

// harnessNet delivers messages between engines instantly, in FIFO order, until quiet
type harnessNet struct {
	nodes map[state.NodeId]Node
	links map[state.Link]state.Metric
	queue []pendingMsg
	sent  int
}

type pendingMsg struct {
	to  state.NodeId
	msg string
}

type netRouter struct {
	net  *harnessNet
	self state.NodeId
}

func (r netRouter) SendToNeighbour(neigh state.NodeId, msg string) {
	if _, ok := r.net.links[state.MakeLink(r.self, neigh)]; !ok {
		return
	}
	r.net.sent++
	r.net.queue = append(r.net.queue, pendingMsg{to: neigh, msg: msg})
}

func (r netRouter) Log(event RouterEvent, desc string, args ...any) {}

func newHarnessNet(t *testing.T, algo state.Algorithm, ids ...state.NodeId) *harnessNet {
	t.Helper()
	hn := &harnessNet{
		nodes: make(map[state.NodeId]Node),
		links: make(map[state.Link]state.Metric),
	}
	for _, id := range ids {
		n, err := NewNode(algo, id, netRouter{net: hn, self: id})
		if err != nil {
			t.Fatal(err)
		}
		hn.nodes[id] = n
	}
	return hn
}

func (hn *harnessNet) SetLink(a, b state.NodeId, lat state.Latency) {
	if lat.Down {
		delete(hn.links, state.MakeLink(a, b))
	} else {
		hn.links[state.MakeLink(a, b)] = lat.Metric
	}
	hn.nodes[a].LinkHasBeenUpdated(b, lat)
	hn.nodes[b].LinkHasBeenUpdated(a, lat)
}

func (hn *harnessNet) Settle(t *testing.T) {
	t.Helper()
	for steps := 0; len(hn.queue) > 0; steps++ {
		if steps > 100000 {
			t.Fatal("network did not settle")
		}
		m := hn.queue[0]
		hn.queue = hn.queue[1:]
		hn.nodes[m.to].ProcessIncomingRoutingMessage(m.msg)
	}
}
