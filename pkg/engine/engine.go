// Package engine assembles the suggestion engine (spec component C7): the
// immutable, concurrency-safe orchestration that fuses query expansion,
// basket expansion, and the fixed four-case fusion table into a ranked,
// deduplicated top-10 result.
//
// Construction mirrors the shape of original_source/api/services.py's
// ProductLookupService.__init__ (build the antecedent index, the lemma
// index, and the baseline suggestion vector once, up front) translated
// into the teacher's build-once-immutable-after-that idiom.
package engine

import (
	"slices"
	"strconv"
	"strings"

	"github.com/basketwise/suggestengine/internal/utils"
	"github.com/basketwise/suggestengine/pkg/catalog"
	"github.com/basketwise/suggestengine/pkg/lexicon"
	"github.com/basketwise/suggestengine/pkg/merge"
	"github.com/basketwise/suggestengine/pkg/rule"
	"github.com/basketwise/suggestengine/pkg/settrie"
	"github.com/basketwise/suggestengine/pkg/tokenizer"
)

// defaultTopK is the maximum number of suggestions returned by
// GetSuggestions when Build is called without WithTopK.
const defaultTopK = 10

// Result is the public-API response record (spec.md §6): a suggested
// product together with the evidence behind it, with antecedent items
// resolved to product names rather than raw ids.
type Result struct {
	Identifier      uint32
	Name            string
	Lift            float64
	Support         float64
	AntecedentItems []string
}

// Engine holds every structure built once at startup and never mutated
// afterward: the product catalog, the antecedent subset-trie (C4), the
// lemma inverted index (C5), the autocompleter (C6), and the baseline
// suggestion vector. GetSuggestions is safe for concurrent use without
// synchronization (spec.md §5).
type Engine struct {
	catalog          *catalog.Catalog
	antecedents      *settrie.SetTrie[uint32, []rule.Suggestion]
	lemmaIndex       *lexicon.Index
	autocomplete     *lexicon.Autocompleter
	baseline         []rule.Suggestion
	topK             int
	autocompleteOpts []lexicon.Option
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithTopK overrides the default 10-result cap (config.Engine.TopK).
func WithTopK(k int) Option {
	return func(e *Engine) { e.topK = k }
}

// WithAutocompleteOptions forwards lexicon.Options (fuzzy edit distance,
// minimum fuzzy term length) to the autocompleter built during Build.
func WithAutocompleteOptions(opts ...lexicon.Option) Option {
	return func(e *Engine) { e.autocompleteOpts = append(e.autocompleteOpts, opts...) }
}

// Build constructs an Engine from a loaded catalog and decoded suggestion
// set. It is the only place the engine's own state is allocated; after it
// returns, the engine never writes to its own state again, and
// GetSuggestions allocates only per-call buffers.
func Build(cat *catalog.Catalog, suggestions []rule.Suggestion, opts ...Option) *Engine {
	e := &Engine{catalog: cat, topK: defaultTopK}
	for _, opt := range opts {
		opt(e)
	}

	baseline, withAntecedent := splitBaseline(suggestions)
	e.baseline = keepHighestSupportPerConsequent(baseline)
	rule.SortDescending(e.baseline)
	e.antecedents = buildAntecedentTrie(withAntecedent)
	e.lemmaIndex = lexicon.BuildIndex(cat, e.baseline)
	e.autocomplete = lexicon.BuildAutocompleter(cat, e.autocompleteOpts...)
	return e
}

// splitBaseline separates suggestions with an empty antecedent (baseline
// rules) from those with a non-empty one. Baseline rules are kept out of
// the antecedent trie entirely, matching
// original_source/api/services.py's construction of its antecedent index,
// which only admits rules with len(antecedent_items) > 0. Storing baseline
// at the trie root instead would make HasSubset trivially true for every
// non-empty basket (the empty set is a subset of anything), silently
// folding baseline into every basket match regardless of whether a real
// antecedent rule fired.
func splitBaseline(suggestions []rule.Suggestion) (baseline, withAntecedent []rule.Suggestion) {
	for _, s := range suggestions {
		if len(s.AntecedentItems) == 0 {
			baseline = append(baseline, s)
		} else {
			withAntecedent = append(withAntecedent, s)
		}
	}
	return baseline, withAntecedent
}

// buildAntecedentTrie implements C4's construction rule: group rules by
// antecedent itemset, flatten each group to its per-consequent-item
// Suggestions, sort in Suggestion order, and attach to the node reached by
// the sorted antecedent path. suggestions here never includes a
// zero-length antecedent; see splitBaseline.
func buildAntecedentTrie(suggestions []rule.Suggestion) *settrie.SetTrie[uint32, []rule.Suggestion] {
	groups := make(map[string][]rule.Suggestion)
	keyToPath := make(map[string][]uint32)

	for _, s := range suggestions {
		key := antecedentKey(s.AntecedentItems)
		groups[key] = append(groups[key], s)
		keyToPath[key] = s.AntecedentItems
	}

	trie := settrie.New[uint32, []rule.Suggestion]()
	for key, group := range groups {
		group = keepHighestSupportPerConsequent(group)
		rule.SortDescending(group)
		trie.Insert(keyToPath[key], group)
	}
	return trie
}

// keepHighestSupportPerConsequent collapses a group down to one Suggestion
// per consequent item, keeping the highest-support measure — the training
// pipeline this engine's artifact comes from can emit more than one
// baseline-eligible rule for the same product, and the highest-support one
// is the one that should sit at the antecedent node.
func keepHighestSupportPerConsequent(group []rule.Suggestion) []rule.Suggestion {
	best := make(map[uint32]rule.Suggestion, len(group))
	order := make([]uint32, 0, len(group))
	for _, s := range group {
		prev, exists := best[s.ConsequentItem]
		if !exists {
			order = append(order, s.ConsequentItem)
		}
		if !exists || s.Measure.Support > prev.Measure.Support {
			best[s.ConsequentItem] = s
		}
	}
	out := make([]rule.Suggestion, len(order))
	for i, id := range order {
		out[i] = best[id]
	}
	return out
}

func antecedentKey(items []uint32) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(item), 10))
	}
	return b.String()
}

// GetSuggestions implements C7's get_suggestions operation exactly per
// spec.md §4.7's six steps, returning at most TopK results.
func (e *Engine) GetSuggestions(basket []uint32, query string) []Result {
	q := e.expandQuery(query)
	b, basketSet := e.expandBasket(basket)

	stream := e.fuse(q, b)
	stream = uniquifyByConsequent(stream)
	if basketSet != nil {
		stream = excludeBasketItems(stream, basketSet)
	}
	if len(stream) > e.topK {
		stream = stream[:e.topK]
	}

	return e.toResults(stream)
}

// expandQuery implements Step 1. A nil slice means "no query constraint"
// (Q = null); a non-nil, possibly empty, slice is the constrained
// consequent-item set Q.
func (e *Engine) expandQuery(query string) []rule.Suggestion {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil
	}

	tokens := tokenizer.Tokenize(trimmed)
	if len(tokens) == 0 {
		return nil
	}

	var intersected map[uint32]rule.Suggestion
	for i, token := range tokens {
		termHits := make(map[uint32]rule.Suggestion)
		for _, lemma := range e.autocomplete.Search(token) {
			for _, s := range e.lemmaIndex.Lookup(lemma) {
				if _, exists := termHits[s.ConsequentItem]; !exists {
					termHits[s.ConsequentItem] = s
				}
			}
		}
		if i == 0 {
			intersected = termHits
			continue
		}
		for id := range intersected {
			if _, ok := termHits[id]; !ok {
				delete(intersected, id)
			}
		}
	}

	q := make([]rule.Suggestion, 0, len(intersected))
	for _, s := range intersected {
		q = append(q, s)
	}
	return q
}

// expandBasket implements Step 2. basketSet is returned alongside B so
// Step 5 can exclude basket items even when the has_subset check misses
// (an empty basket still yields a nil set, matching "if basket is empty").
func (e *Engine) expandBasket(basket []uint32) (stream []rule.Suggestion, basketSet map[uint32]struct{}) {
	if len(basket) == 0 {
		return nil, nil
	}

	basketSet = make(map[uint32]struct{}, len(basket))
	sortedBasket := make([]uint32, 0, len(basket))
	for _, id := range basket {
		if _, dup := basketSet[id]; dup {
			continue
		}
		basketSet[id] = struct{}{}
		sortedBasket = append(sortedBasket, id)
	}
	slices.Sort(sortedBasket)

	if !e.antecedents.HasSubset(sortedBasket) {
		return nil, basketSet
	}

	var streams [][]rule.Suggestion
	e.antecedents.IterSubsets(sortedBasket, func(group []rule.Suggestion) bool {
		streams = append(streams, group)
		return true
	})
	return merge.Streams(streams), basketSet
}

// fuse implements Step 3's four-case table. q == nil means Q = null; b ==
// nil means B = null (the empty, non-nil case for Q is distinguished by
// the caller never producing a nil intersected map when tokens matched
// something, so an empty-but-non-nil q still filters down to "some").
func (e *Engine) fuse(q, b []rule.Suggestion) []rule.Suggestion {
	switch {
	case q == nil && b == nil:
		return e.baseline
	case q == nil && b != nil:
		return chain(b, e.baseline)
	case q != nil && b == nil:
		sorted := append([]rule.Suggestion(nil), q...)
		rule.SortDescending(sorted)
		return sorted
	default: // q != nil && b != nil
		allowed := make(map[uint32]struct{}, len(q))
		for _, s := range q {
			allowed[s.ConsequentItem] = struct{}{}
		}
		var out []rule.Suggestion
		for _, s := range chain(b, e.baseline) {
			if _, ok := allowed[s.ConsequentItem]; ok {
				out = append(out, s)
			}
		}
		return out
	}
}

func chain(a, b []rule.Suggestion) []rule.Suggestion {
	out := make([]rule.Suggestion, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// uniquifyByConsequent implements Step 4: keep the first occurrence per
// consequent item, preserving stream order.
func uniquifyByConsequent(stream []rule.Suggestion) []rule.Suggestion {
	filter := utils.NewConsequentFilter()
	out := make([]rule.Suggestion, 0, len(stream))
	for _, s := range stream {
		if filter.ShouldInclude(s.ConsequentItem) {
			out = append(out, s)
		}
	}
	return out
}

// excludeBasketItems implements Step 5.
func excludeBasketItems(stream []rule.Suggestion, basket map[uint32]struct{}) []rule.Suggestion {
	out := make([]rule.Suggestion, 0, len(stream))
	for _, s := range stream {
		if _, inBasket := basket[s.ConsequentItem]; inBasket {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (e *Engine) toResults(stream []rule.Suggestion) []Result {
	results := make([]Result, 0, len(stream))
	for _, s := range stream {
		p, ok := e.catalog.Get(s.ConsequentItem)
		if !ok {
			continue
		}
		antecedentNames := make([]string, 0, len(s.AntecedentItems))
		for _, id := range s.AntecedentItems {
			if ap, ok := e.catalog.Get(id); ok {
				antecedentNames = append(antecedentNames, ap.Name)
			}
		}
		results = append(results, Result{
			Identifier:      p.ID,
			Name:            p.Name,
			Lift:            s.Measure.Lift,
			Support:         s.Measure.Support,
			AntecedentItems: antecedentNames,
		})
	}
	return results
}
