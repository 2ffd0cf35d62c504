// Package merge implements the k-way merge of pre-sorted Suggestion
// streams used by the engine to combine the per-antecedent value vectors
// returned by C4.iter_subsets, using container/heap the way the language's
// own sort/merge idioms expect — no merge-heap library appears anywhere
// in the retrieval pack, so this is a deliberate standard-library choice.
package merge

import (
	"container/heap"

	"github.com/basketwise/suggestengine/pkg/rule"
)

// Streams merges any number of already-descending-sorted Suggestion
// slices into one descending-sorted slice, preserving the relative order
// of equal elements that originate from the same stream and favoring
// earlier streams on a tie across streams.
func Streams(streams [][]rule.Suggestion) []rule.Suggestion {
	h := make(suggestionHeap, 0, len(streams))
	for i, s := range streams {
		if len(s) == 0 {
			continue
		}
		h = append(h, cursor{stream: s, pos: 0, streamIndex: i})
	}
	heap.Init(&h)

	var out []rule.Suggestion
	for h.Len() > 0 {
		top := h[0]
		out = append(out, top.stream[top.pos])
		if top.pos+1 < len(top.stream) {
			h[0] = cursor{stream: top.stream, pos: top.pos + 1, streamIndex: top.streamIndex}
			heap.Fix(&h, 0)
		} else {
			heap.Pop(&h)
		}
	}
	return out
}

type cursor struct {
	stream      []rule.Suggestion
	pos         int
	streamIndex int
}

type suggestionHeap []cursor

func (h suggestionHeap) Len() int { return len(h) }

func (h suggestionHeap) Less(i, j int) bool {
	a, b := h[i].stream[h[i].pos], h[j].stream[h[j].pos]
	if a.Less(b) {
		return true
	}
	if b.Less(a) {
		return false
	}
	return h[i].streamIndex < h[j].streamIndex
}

func (h suggestionHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *suggestionHeap) Push(x any) { *h = append(*h, x.(cursor)) }

func (h *suggestionHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
