package core

import (
	"fmt"

	"github.com/encodeous/weft/state"
)

type RouterEvent int

// trace events

const (
	LinkAdded RouterEvent = iota
	LinkChanged
	LinkRemoved
	RouteChanged
	TableFlooded
	AdvertisementAccepted
	DuplicateSeqno
	LsaAccepted
	StaleSender
	DatabaseSent
	DatabaseAccepted
)

// warn events

const (
	MalformedMessage RouterEvent = iota + 1000
	UnknownSender
	UnknownLink
	InconsistentState
)

func (e RouterEvent) String() string {
	switch e {
	case LinkAdded:
		return "LinkAdded"
	case LinkChanged:
		return "LinkChanged"
	case LinkRemoved:
		return "LinkRemoved"
	case RouteChanged:
		return "RouteChanged"
	case TableFlooded:
		return "TableFlooded"
	case AdvertisementAccepted:
		return "AdvertisementAccepted"
	case DuplicateSeqno:
		return "DuplicateSeqno"
	case LsaAccepted:
		return "LsaAccepted"
	case StaleSender:
		return "StaleSender"
	case DatabaseSent:
		return "DatabaseSent"
	case DatabaseAccepted:
		return "DatabaseAccepted"
	case MalformedMessage:
		return "MalformedMessage"
	case UnknownSender:
		return "UnknownSender"
	case UnknownLink:
		return "UnknownLink"
	case InconsistentState:
		return "InconsistentState"
	}
	return fmt.Sprintf("RouterEvent(%d)", int(e))
}

// IsWarning reports whether the event indicates something unexpected
func (e RouterEvent) IsWarning() bool {
	return e >= MalformedMessage
}

// Router is what an engine needs from the node it runs in
type Router interface {
	// SendToNeighbour delivers msg to a directly connected neighbour, without confirmation
	SendToNeighbour(neigh state.NodeId, msg string)
	Log(event RouterEvent, desc string, args ...any)
}

// Node is the contract a routing engine exposes to the simulator.
// All methods must be called from a single goroutine, one event at a time.
type Node interface {
	Id() state.NodeId
	LinkHasBeenUpdated(neigh state.NodeId, lat state.Latency)
	ProcessIncomingRoutingMessage(msg string)
	GetNextHop(dst state.NodeId) state.NextHop
	// Table returns the current view of every known destination, sorted by destination
	Table() []state.RouteView
}

func NewNode(algo state.Algorithm, id state.NodeId, r Router) (Node, error) {
	switch algo {
	case state.AlgoPathVector:
		return NewDvNode(id, r), nil
	case state.AlgoLinkState:
		return NewLsNode(id, r), nil
	}
	return nil, fmt.Errorf("unknown routing algorithm %q", algo)
}
