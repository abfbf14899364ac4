package protocol

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/encodeous/weft/state"
)

const (
	Separator = "|"
	TagLsa    = "LSA"
	TagDat    = "DAT"

	// wireNone is the value used on the wire for "no node" and for a withdrawn link cost
	wireNone = -1
)

type Kind int

const (
	KindUnknown Kind = iota
	KindDv
	KindLsa
	KindDat
)

func (k Kind) String() string {
	switch k {
	case KindDv:
		return "dv"
	case KindLsa:
		return "lsa"
	case KindDat:
		return "dat"
	default:
		return "unknown"
	}
}

// Classify returns the kind of a routing message without fully decoding it
func Classify(msg string) Kind {
	switch {
	case strings.HasPrefix(msg, TagLsa+Separator):
		return KindLsa
	case strings.HasPrefix(msg, TagDat+Separator):
		return KindDat
	case strings.Contains(msg, Separator):
		return KindDv
	default:
		return KindUnknown
	}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

func parseNode(field, name string) (state.NodeId, error) {
	v, err := strconv.Atoi(field)
	if err != nil {
		return 0, malformed("%s %q is not a node id", name, field)
	}
	return state.NodeId(v), nil
}

func parseSeqno(field string) (int64, error) {
	v, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, malformed("seqno %q is not an integer", field)
	}
	return v, nil
}

// parseMetric accepts any JSON number. Non-integral latencies are rounded, null is infinity.
func parseMetric(raw json.RawMessage) (state.Metric, error) {
	var f *float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, malformed("metric %s: %v", raw, err)
	}
	if f == nil {
		return state.INF, nil
	}
	if *f < 0 || math.IsNaN(*f) {
		return 0, malformed("metric %v is negative", *f)
	}
	if *f >= float64(state.INFM) {
		return state.INF, nil
	}
	return state.Metric(math.Round(*f)), nil
}

func writeNodeList(sb *strings.Builder, nodes []state.NodeId) {
	sb.WriteByte('[')
	for i, n := range nodes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(n)))
	}
	sb.WriteByte(']')
}
