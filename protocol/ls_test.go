package protocol

import (
	"testing"

	"github.com/encodeous/weft/state"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestLsaEncoding(t *testing.T) {
	lsa := Lsa{Node1: 3, Node2: 1, Sender: 5, Seqno: 2, Cost: 10}
	assert.Equal(t, "LSA|3|1|5|2|10", EncodeLsa(lsa))
	dec, err := DecodeLsa("LSA|3|1|5|2|10")
	assert.NoError(t, err)
	assert.Equal(t, lsa, dec)
	assert.Equal(t, state.MakeLink(1, 3), dec.Link())

	dead := Lsa{Node1: 1, Node2: 2, Sender: 1, Seqno: 4, Withdrawn: true}
	assert.Equal(t, "LSA|1|2|1|4|-1", EncodeLsa(dead))
	dec, err = DecodeLsa("LSA|1|2|1|4|-1")
	assert.NoError(t, err)
	assert.Equal(t, dead, dec)
}

func TestLsaMalformed(t *testing.T) {
	for _, msg := range []string{
		"LSA|1|2|3|4",
		"LSA|1|2|3|4|5|6",
		"LSA|a|2|3|4|5",
		"LSA|1|2|3|x|5",
		"LSA|1|2|3|4|-7",
	} {
		_, err := DecodeLsa(msg)
		assert.ErrorIs(t, err, ErrMalformed, "message %q", msg)
	}
	_, err := DecodeLsa("DAT|1|2|3|4|5")
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestDatEncoding(t *testing.T) {
	d := Dat{
		Owner:  2,
		Sender: 2,
		Seqno:  0,
		Seqnos: map[state.Link]int64{
			state.MakeLink(2, 1): 0,
			state.MakeLink(3, 2): 4,
			state.MakeLink(1, 3): 1,
		},
		Costs: map[state.Link]state.Metric{
			state.MakeLink(2, 1): 1,
			state.MakeLink(3, 2): 1,
		},
	}
	msg := EncodeDat(d)
	assert.Equal(t, "DAT|2|2|0|[[[1, 2], 0], [[1, 3], 1], [[2, 3], 4]]|[[[1, 2], 1], [[2, 3], 1]]", msg)
	dec, err := DecodeDat(msg)
	assert.NoError(t, err)
	if diff := cmp.Diff(d, dec); diff != "" {
		t.Fatalf("snapshot changed after decoding (-want +got):\n%s", diff)
	}
}

func TestLinkMapIdempotent(t *testing.T) {
	// endpoint order inside a link is not significant
	in := "[[[5, 2], 3], [[1, 9], 0]]"
	m, err := DecodeLinkMap(in, parseMetric)
	assert.NoError(t, err)
	out := EncodeLinkMap(m, func(v state.Metric) string { return v.String() })
	again, err := DecodeLinkMap(out, parseMetric)
	assert.NoError(t, err)
	assert.Equal(t, m, again)
	assert.Equal(t, map[state.Link]state.Metric{
		state.MakeLink(2, 5): 3,
		state.MakeLink(1, 9): 0,
	}, again)
}

func TestDatMalformed(t *testing.T) {
	for _, msg := range []string{
		"DAT|",
		"DAT|1|1|0|[]",
		"DAT|1|1|0|[[[1]], 0]]|[]",
		"DAT|1|1|0|[]|{}",
		"DAT|1|1|z|[]|[]",
	} {
		_, err := DecodeDat(msg)
		assert.ErrorIs(t, err, ErrMalformed, "message %q", msg)
	}
}
