// Package settrie implements a generic trie indexed by sorted,
// duplicate-free key sequences, supporting subset and superset queries
// (spec component C4, reused for C5). It plays the same role the Python
// source's settrie.SetTrieMap played in original_source/api/services.py
// (hassubset/itersubsets/itersupersets), built with the teacher's own
// trie idiom: ascending-ordered children and visitor-driven DFS that can
// stop early (see pkg/suggest/trie.go's VisitSubtree usage in the teacher).
package settrie

import (
	"cmp"
	"slices"
)

type node[K cmp.Ordered, V any] struct {
	key      K
	value    V
	hasValue bool
	children []*node[K, V]
}

// SetTrie maps sorted key sequences to values of type V, indexed for
// efficient subset and superset lookups.
type SetTrie[K cmp.Ordered, V any] struct {
	root *node[K, V]
}

// New creates an empty SetTrie.
func New[K cmp.Ordered, V any]() *SetTrie[K, V] {
	return &SetTrie[K, V]{root: &node[K, V]{}}
}

// Insert stores value at the path given by key. key must already be sorted
// ascending with no duplicates — antecedent itemsets and lemma sets both
// satisfy this by construction upstream.
func (t *SetTrie[K, V]) Insert(key []K, value V) {
	n := t.root
	for _, k := range key {
		n = n.child(k)
	}
	n.value = value
	n.hasValue = true
}

// Root returns the value stored at the empty path, if any. The engine's C4
// trie never stores a value there: baseline (empty-antecedent) suggestions
// are kept outside the trie.
func (t *SetTrie[K, V]) Root() (V, bool) {
	return t.root.value, t.root.hasValue
}

func (n *node[K, V]) child(k K) *node[K, V] {
	i, found := slices.BinarySearchFunc(n.children, k, func(c *node[K, V], k K) int {
		return cmp.Compare(c.key, k)
	})
	if found {
		return n.children[i]
	}
	child := &node[K, V]{key: k}
	n.children = slices.Insert(n.children, i, child)
	return child
}

// HasSubset reports whether any stored key is a subset of set. set must be
// sorted ascending. It stops at the first hit.
func (t *SetTrie[K, V]) HasSubset(set []K) bool {
	found := false
	t.root.walkSubsets(set, func(V) bool {
		found = true
		return false
	})
	return found
}

// IterSubsets calls visit once for every stored value whose key is a subset
// of set (sorted ascending). visit returns false to stop the traversal
// early.
func (t *SetTrie[K, V]) IterSubsets(set []K, visit func(V) bool) {
	t.root.walkSubsets(set, visit)
}

// CollectSubsets returns every stored value whose key is a subset of set.
func (t *SetTrie[K, V]) CollectSubsets(set []K) []V {
	var out []V
	t.IterSubsets(set, func(v V) bool {
		out = append(out, v)
		return true
	})
	return out
}

// walkSubsets descends only into children whose key is present in the
// (sorted) remainder of set, using a linear merge of the ascending child
// list against the ascending set — the technique spec.md §4.4 calls for.
// It returns false once visit has asked to stop.
func (n *node[K, V]) walkSubsets(set []K, visit func(V) bool) bool {
	if n.hasValue {
		if !visit(n.value) {
			return false
		}
	}
	si := 0
	for _, c := range n.children {
		for si < len(set) && set[si] < c.key {
			si++
		}
		if si < len(set) && set[si] == c.key {
			if !c.walkSubsets(set[si:], visit) {
				return false
			}
		}
	}
	return true
}

// IterSupersets calls visit once for every stored value whose key is a
// superset of set (sorted ascending). visit returns false to stop the
// traversal early.
func (t *SetTrie[K, V]) IterSupersets(set []K, visit func(V) bool) {
	t.root.walkSupersets(0, set, visit)
}

// CollectSupersets returns every stored value whose key is a superset of
// set.
func (t *SetTrie[K, V]) CollectSupersets(set []K) []V {
	var out []V
	t.IterSupersets(set, func(v V) bool {
		out = append(out, v)
		return true
	})
	return out
}

// walkSupersets guarantees every element of target appears on the path, in
// order: idx counts how many of target's elements have been matched so
// far. Once idx reaches len(target), every node below (including this one,
// if it carries a value) is a superset, since paths only grow. Before
// that, a child whose key exceeds the next unmatched target element can
// never match it (paths are strictly ascending), so that branch — and
// every later sibling, which is even larger — is pruned.
func (n *node[K, V]) walkSupersets(idx int, target []K, visit func(V) bool) bool {
	if idx == len(target) {
		if n.hasValue {
			if !visit(n.value) {
				return false
			}
		}
		for _, c := range n.children {
			if !c.walkSupersets(idx, target, visit) {
				return false
			}
		}
		return true
	}
	for _, c := range n.children {
		switch {
		case c.key < target[idx]:
			if !c.walkSupersets(idx, target, visit) {
				return false
			}
		case c.key == target[idx]:
			if !c.walkSupersets(idx+1, target, visit) {
				return false
			}
		default: // c.key > target[idx]: this and every later sibling are unreachable for target[idx]
			return true
		}
	}
	return true
}
