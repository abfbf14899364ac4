package protocol

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/encodeous/weft/state"
)

// Lsa advertises one undirected link: "LSA|NODE1|NODE2|SENDER|SEQ|COST".
// Sender is the node relaying this copy, not necessarily an endpoint.
type Lsa struct {
	Node1     state.NodeId
	Node2     state.NodeId
	Sender    state.NodeId
	Seqno     int64
	Cost      state.Metric
	Withdrawn bool
}

func (l Lsa) Link() state.Link {
	return state.MakeLink(l.Node1, l.Node2)
}

func EncodeLsa(l Lsa) string {
	cost := strconv.FormatUint(uint64(l.Cost), 10)
	if l.Withdrawn {
		cost = strconv.Itoa(wireNone)
	}
	return strings.Join([]string{
		TagLsa,
		strconv.Itoa(int(l.Node1)),
		strconv.Itoa(int(l.Node2)),
		strconv.Itoa(int(l.Sender)),
		strconv.FormatInt(l.Seqno, 10),
		cost,
	}, Separator)
}

func DecodeLsa(msg string) (Lsa, error) {
	parts := strings.Split(msg, Separator)
	if len(parts) != 6 {
		return Lsa{}, malformed("lsa: expected 6 fields, got %d", len(parts))
	}
	if parts[0] != TagLsa {
		return Lsa{}, ErrWrongKind
	}
	var (
		lsa Lsa
		err error
	)
	if lsa.Node1, err = parseNode(parts[1], "node1"); err != nil {
		return Lsa{}, err
	}
	if lsa.Node2, err = parseNode(parts[2], "node2"); err != nil {
		return Lsa{}, err
	}
	if lsa.Sender, err = parseNode(parts[3], "sender"); err != nil {
		return Lsa{}, err
	}
	if lsa.Seqno, err = parseSeqno(parts[4]); err != nil {
		return Lsa{}, err
	}
	cost, err := strconv.ParseInt(parts[5], 10, 64)
	if err != nil || cost < wireNone {
		return Lsa{}, malformed("lsa: bad cost %q", parts[5])
	}
	if cost == wireNone {
		lsa.Withdrawn = true
	} else if cost >= int64(state.INFM) {
		lsa.Cost = state.INF
	} else {
		lsa.Cost = state.Metric(cost)
	}
	return lsa, nil
}

// Dat is a full database snapshot: "DAT|OWNER|SENDER|SEQ|SEQ_MAP|COST_MAP".
// Seqnos may contain links that are absent from Costs (withdrawn links).
type Dat struct {
	Owner  state.NodeId
	Sender state.NodeId
	Seqno  int64
	Seqnos map[state.Link]int64
	Costs  map[state.Link]state.Metric
}

func EncodeDat(d Dat) string {
	return strings.Join([]string{
		TagDat,
		strconv.Itoa(int(d.Owner)),
		strconv.Itoa(int(d.Sender)),
		strconv.FormatInt(d.Seqno, 10),
		EncodeLinkMap(d.Seqnos, func(v int64) string { return strconv.FormatInt(v, 10) }),
		EncodeLinkMap(d.Costs, func(v state.Metric) string { return strconv.FormatUint(uint64(v), 10) }),
	}, Separator)
}

func DecodeDat(msg string) (Dat, error) {
	parts := strings.SplitN(msg, Separator, 6)
	if len(parts) != 6 {
		return Dat{}, malformed("dat: expected 6 fields, got %d", len(parts))
	}
	if parts[0] != TagDat {
		return Dat{}, ErrWrongKind
	}
	var (
		d   Dat
		err error
	)
	if d.Owner, err = parseNode(parts[1], "owner"); err != nil {
		return Dat{}, err
	}
	if d.Sender, err = parseNode(parts[2], "sender"); err != nil {
		return Dat{}, err
	}
	if d.Seqno, err = parseSeqno(parts[3]); err != nil {
		return Dat{}, err
	}
	d.Seqnos, err = DecodeLinkMap(parts[4], func(raw json.RawMessage) (int64, error) {
		var v int64
		if err := json.Unmarshal(raw, &v); err != nil {
			return 0, malformed("dat: seqno %s", raw)
		}
		return v, nil
	})
	if err != nil {
		return Dat{}, err
	}
	d.Costs, err = DecodeLinkMap(parts[5], parseMetric)
	if err != nil {
		return Dat{}, err
	}
	return d, nil
}

// EncodeLinkMap renders m as [[[n1, n2], v], ...] sorted by link
func EncodeLinkMap[V any](m map[state.Link]V, format func(V) string) string {
	sb := strings.Builder{}
	sb.WriteByte('[')
	for i, l := range state.SortedLinks(m) {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('[')
		writeNodeList(&sb, []state.NodeId{l.V1, l.V2})
		sb.WriteString(", ")
		sb.WriteString(format(m[l]))
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}

func DecodeLinkMap[V any](s string, parse func(json.RawMessage) (V, error)) (map[state.Link]V, error) {
	var raw [][2]json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, malformed("link map: %v", err)
	}
	out := make(map[state.Link]V, len(raw))
	for _, entry := range raw {
		var ends []state.NodeId
		if err := json.Unmarshal(entry[0], &ends); err != nil || len(ends) != 2 {
			return nil, malformed("link map: bad link %s", entry[0])
		}
		v, err := parse(entry[1])
		if err != nil {
			return nil, err
		}
		out[state.MakeLink(ends[0], ends[1])] = v
	}
	return out, nil
}
