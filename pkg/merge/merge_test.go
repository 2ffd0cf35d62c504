package merge

import (
	"sort"
	"testing"

	"github.com/basketwise/suggestengine/pkg/rule"
)

func sug(consequent uint32, lift float64) rule.Suggestion {
	return rule.Suggestion{ConsequentItem: consequent, Measure: rule.Measure{Lift: lift, Support: 0.1}}
}

func TestStreamsProducesDescendingOrder(t *testing.T) {
	a := []rule.Suggestion{sug(1, 5.0), sug(2, 3.0), sug(3, 1.0)}
	b := []rule.Suggestion{sug(4, 4.0), sug(5, 2.0)}
	c := []rule.Suggestion{sug(6, 6.0)}

	got := Streams([][]rule.Suggestion{a, b, c})
	if len(got) != 6 {
		t.Fatalf("len(got) = %d, want 6", len(got))
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Less(got[j]) }) {
		t.Fatalf("Streams() result is not sorted in descending Suggestion order: %v", got)
	}
	if got[0].ConsequentItem != 6 {
		t.Fatalf("got[0].ConsequentItem = %d, want 6 (highest lift)", got[0].ConsequentItem)
	}
}

func TestStreamsSkipsEmptyStreams(t *testing.T) {
	a := []rule.Suggestion{sug(1, 2.0)}
	got := Streams([][]rule.Suggestion{nil, a, {}})
	if len(got) != 1 || got[0].ConsequentItem != 1 {
		t.Fatalf("Streams() = %v, want [suggestion for item 1]", got)
	}
}

func TestStreamsEmptyInput(t *testing.T) {
	got := Streams(nil)
	if len(got) != 0 {
		t.Fatalf("Streams(nil) = %v, want empty", got)
	}
}

func TestStreamsIsDeterministic(t *testing.T) {
	a := []rule.Suggestion{sug(1, 5.0), sug(2, 5.0)}
	b := []rule.Suggestion{sug(3, 5.0)}

	first := Streams([][]rule.Suggestion{a, b})
	second := Streams([][]rule.Suggestion{a, b})
	if len(first) != len(second) {
		t.Fatalf("non-deterministic lengths: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ConsequentItem != second[i].ConsequentItem {
			t.Fatalf("non-deterministic order at index %d: %v vs %v", i, first[i], second[i])
		}
	}
}
