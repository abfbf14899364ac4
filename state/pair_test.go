package state

import (
	"reflect"
	"testing"
)

func TestSortPairsInt(t *testing.T) {
	pairs := []Pair[int, int]{
		{V1: 3, V2: 10},
		{V1: 1, V2: 20},
		{V1: 1, V2: 5},
		{V1: 2, V2: 15},
	}
	expected := []Pair[int, int]{
		{V1: 1, V2: 5},
		{V1: 1, V2: 20},
		{V1: 2, V2: 15},
		{V1: 3, V2: 10},
	}
	SortPairs(pairs)
	if !reflect.DeepEqual(pairs, expected) {
		t.Fatalf("expected %v, got %v", expected, pairs)
	}
}

func TestSortPairsString(t *testing.T) {
	pairs := []Pair[string, string]{
		{V1: "b", V2: "y"},
		{V1: "a", V2: "z"},
		{V1: "a", V2: "x"},
		{V1: "c", V2: "w"},
	}
	expected := []Pair[string, string]{
		{V1: "a", V2: "x"},
		{V1: "a", V2: "z"},
		{V1: "b", V2: "y"},
		{V1: "c", V2: "w"},
	}
	SortPairs(pairs)
	if !reflect.DeepEqual(pairs, expected) {
		t.Fatalf("expected %v, got %v", expected, pairs)
	}
}

func TestMakeLinkOrderIndependent(t *testing.T) {
	if MakeLink(4, 2) != MakeLink(2, 4) {
		t.Fatalf("links should be equal regardless of endpoint order")
	}
	l := MakeLink(7, 3)
	if l.V1 != 3 || l.V2 != 7 {
		t.Fatalf("expected normalised link, got %v", l)
	}
	if l.Other(3) != 7 || l.Other(7) != 3 {
		t.Fatalf("unexpected other endpoint for %v", l)
	}
	if !l.Has(3) || l.Has(5) {
		t.Fatalf("unexpected membership for %v", l)
	}
}
