package protocol

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/encodeous/weft/state"
)

// DvWireRoute is one entry of a path-vector advertisement. Path is relative to the sender,
// see ToWirePath.
type DvWireRoute struct {
	Path        []state.NodeId
	Metric      state.Metric
	LearnedFrom state.NodeId
}

// DvAdvertisement is the path-vector message "SENDER|SEQ|PAYLOAD"
type DvAdvertisement struct {
	Sender state.NodeId
	Seqno  int64
	Routes map[state.NodeId]DvWireRoute
}

const wireInfinity = "Infinity"

// EncodeDv renders the advertisement with ", " and ": " separators, string keys and
// destinations in ascending order.
func EncodeDv(adv DvAdvertisement) string {
	sb := strings.Builder{}
	sb.WriteString(strconv.Itoa(int(adv.Sender)))
	sb.WriteString(Separator)
	sb.WriteString(strconv.FormatInt(adv.Seqno, 10))
	sb.WriteString(Separator)
	sb.WriteByte('{')
	for i, dst := range state.SortedNodes(adv.Routes) {
		route := adv.Routes[dst]
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(`"` + strconv.Itoa(int(dst)) + `": [`)
		writeNodeList(&sb, route.Path)
		sb.WriteString(", ")
		if route.Metric == state.INF {
			sb.WriteString(wireInfinity)
		} else {
			sb.WriteString(strconv.FormatUint(uint64(route.Metric), 10))
		}
		sb.WriteString(", ")
		if route.LearnedFrom == state.Local {
			sb.WriteString(strconv.Itoa(wireNone))
		} else {
			sb.WriteString(strconv.Itoa(int(route.LearnedFrom)))
		}
		sb.WriteByte(']')
	}
	sb.WriteByte('}')
	return sb.String()
}

func DecodeDv(msg string) (DvAdvertisement, error) {
	parts := strings.SplitN(msg, Separator, 3)
	if len(parts) != 3 {
		return DvAdvertisement{}, malformed("expected 3 fields, got %d", len(parts))
	}
	sender, err := parseNode(parts[0], "sender")
	if err != nil {
		return DvAdvertisement{}, err
	}
	seq, err := parseSeqno(parts[1])
	if err != nil {
		return DvAdvertisement{}, err
	}
	routes, err := decodeDvPayload(parts[2])
	if err != nil {
		return DvAdvertisement{}, err
	}
	return DvAdvertisement{
		Sender: sender,
		Seqno:  seq,
		Routes: routes,
	}, nil
}

func decodeDvPayload(payload string) (map[state.NodeId]DvWireRoute, error) {
	// Infinity is not valid JSON; it only ever appears in the metric position
	payload = strings.ReplaceAll(payload, wireInfinity, "null")
	var raw map[string][3]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, malformed("payload: %v", err)
	}
	routes := make(map[state.NodeId]DvWireRoute, len(raw))
	for key, entry := range raw {
		dst, err := parseNode(key, "destination")
		if err != nil {
			return nil, err
		}
		var path []state.NodeId
		if err := json.Unmarshal(entry[0], &path); err != nil {
			return nil, malformed("path for %v: %v", dst, err)
		}
		if len(path) == 0 {
			return nil, malformed("empty path for %v", dst)
		}
		metric, err := parseMetric(entry[1])
		if err != nil {
			return nil, err
		}
		var from int
		if err := json.Unmarshal(entry[2], &from); err != nil {
			return nil, malformed("learned_from for %v: %v", dst, err)
		}
		learnedFrom := state.NodeId(from)
		if from == wireNone {
			learnedFrom = state.Local
		}
		routes[dst] = DvWireRoute{
			Path:        path,
			Metric:      metric,
			LearnedFrom: learnedFrom,
		}
	}
	return routes, nil
}

// ToWirePath converts a path starting at owner into its wire form: [owner] for the owner
// itself, otherwise the hops after owner.
func ToWirePath(owner, dst state.NodeId, path []state.NodeId) []state.NodeId {
	if dst == owner || len(path) < 2 {
		return []state.NodeId{owner}
	}
	return path[1:]
}

// FromWirePath is the inverse of ToWirePath
func FromWirePath(owner, dst state.NodeId, wire []state.NodeId) []state.NodeId {
	if dst == owner {
		return []state.NodeId{owner}
	}
	path := make([]state.NodeId, 0, len(wire)+1)
	path = append(path, owner)
	return append(path, wire...)
}
