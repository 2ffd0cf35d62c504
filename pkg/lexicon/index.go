// Package lexicon implements the lemma inverted index (spec component C5)
// and the autocompleter that maps raw query tokens onto indexed lemmas
// (spec component C6).
package lexicon

import (
	"github.com/basketwise/suggestengine/pkg/catalog"
	"github.com/basketwise/suggestengine/pkg/rule"
	"github.com/basketwise/suggestengine/pkg/settrie"
)

// Index is a second subset-trie, keyed by a product's lemma-set, holding
// the baseline suggestions for products that carry a given lemma. It
// reuses the C4 trie algorithm (settrie.SetTrie) against string keys
// rather than item ids.
type Index struct {
	trie *settrie.SetTrie[string, []rule.Suggestion]
}

// BuildIndex groups baseline (antecedent = ∅) suggestions by the consequent
// product's lemma-set and attaches each group, sorted in Suggestion order,
// to the matching trie path.
func BuildIndex(cat *catalog.Catalog, baseline []rule.Suggestion) *Index {
	byLemmaSet := make(map[string][]rule.Suggestion)
	keyToLemmas := make(map[string][]string)

	for _, s := range baseline {
		p, ok := cat.Get(s.ConsequentItem)
		if !ok {
			continue
		}
		lemmas := p.LemmaSet()
		if len(lemmas) == 0 {
			continue
		}
		key := joinLemmas(lemmas)
		byLemmaSet[key] = append(byLemmaSet[key], s)
		keyToLemmas[key] = lemmas
	}

	trie := settrie.New[string, []rule.Suggestion]()
	for key, group := range byLemmaSet {
		rule.SortDescending(group)
		trie.Insert(keyToLemmas[key], group)
	}
	return &Index{trie: trie}
}

// Lookup returns every baseline suggestion for a product whose lemma-set
// contains lemma — the C5 `iter_supersets({lemma})` operation.
func (idx *Index) Lookup(lemma string) []rule.Suggestion {
	var out []rule.Suggestion
	idx.trie.IterSupersets([]string{lemma}, func(group []rule.Suggestion) bool {
		out = append(out, group...)
		return true
	})
	return out
}

func joinLemmas(lemmas []string) string {
	// Distinct keys only need to be distinguishable, not human-readable;
	// NUL can't appear in a lemma so it's a safe join separator.
	out := lemmas[0]
	for _, l := range lemmas[1:] {
		out += "\x00" + l
	}
	return out
}
