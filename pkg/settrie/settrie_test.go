package settrie

import (
	"reflect"
	"sort"
	"testing"
)

func isSubset(a, b []int) bool {
	set := make(map[int]bool, len(b))
	for _, v := range b {
		set[v] = true
	}
	for _, v := range a {
		if !set[v] {
			return false
		}
	}
	return true
}

func isSuperset(a, b []int) bool {
	return isSubset(b, a)
}

// TestSubsetSupersetDuality checks spec.md §8 property 7: for any stored
// key K and query S, K is returned by IterSubsets(S) iff K ⊆ S, and K is
// returned by IterSupersets(S) iff K ⊇ S.
func TestSubsetSupersetDuality(t *testing.T) {
	keys := [][]int{
		{},
		{1},
		{2},
		{1, 2},
		{1, 3},
		{1, 2, 3},
		{2, 3, 5},
		{4},
	}

	trie := New[int, []int]()
	for _, k := range keys {
		trie.Insert(k, append([]int{}, k...))
	}

	queries := [][]int{
		{},
		{1},
		{1, 2},
		{1, 2, 3},
		{1, 2, 3, 4},
		{2, 3, 5},
		{9},
	}

	for _, q := range queries {
		gotSubsets := trie.CollectSubsets(q)
		var wantSubsets [][]int
		for _, k := range keys {
			if isSubset(k, q) {
				wantSubsets = append(wantSubsets, k)
			}
		}
		assertSameSets(t, "IterSubsets", q, gotSubsets, wantSubsets)

		gotSupersets := trie.CollectSupersets(q)
		var wantSupersets [][]int
		for _, k := range keys {
			if isSuperset(k, q) {
				wantSupersets = append(wantSupersets, k)
			}
		}
		assertSameSets(t, "IterSupersets", q, gotSupersets, wantSupersets)
	}
}

func assertSameSets(t *testing.T, op string, query []int, got, want [][]int) {
	t.Helper()
	sortKeys := func(ks [][]int) {
		sort.Slice(ks, func(i, j int) bool {
			a, b := ks[i], ks[j]
			for k := 0; k < len(a) && k < len(b); k++ {
				if a[k] != b[k] {
					return a[k] < b[k]
				}
			}
			return len(a) < len(b)
		})
	}
	sortKeys(got)
	sortKeys(want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s(%v): got %v, want %v", op, query, got, want)
	}
}

func TestHasSubsetReportsWhetherAnyKeyIsSubset(t *testing.T) {
	trie := New[int, string]()
	trie.Insert([]int{1, 2}, "a")

	if trie.HasSubset([]int{9}) {
		t.Fatal("expected no subset for a disjoint query")
	}
	if !trie.HasSubset([]int{1, 2, 3}) {
		t.Fatal("expected a subset for a superset query")
	}
}

func TestRootHoldsEmptyPathValue(t *testing.T) {
	trie := New[int, string]()
	if _, ok := trie.Root(); ok {
		t.Fatal("expected no root value before insert")
	}
	trie.Insert(nil, "baseline")
	v, ok := trie.Root()
	if !ok || v != "baseline" {
		t.Fatalf("Root() = (%q, %v), want (\"baseline\", true)", v, ok)
	}
}
