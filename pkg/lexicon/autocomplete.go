package lexicon

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/basketwise/suggestengine/pkg/catalog"
)

// Autocompleter implements C6: mapping a raw query token onto zero or more
// lemmas from the indexed vocabulary. It layers three tiers, same shape as
// the teacher's own Completer.Complete (trie subtree visit, then dedup,
// then a ranked cutoff) but retargeted from word-frequency completion to
// lemma resolution: an exact synonym-table hit, then prefix matching over
// a patricia trie of lemmas, then edit-distance-tolerant fuzzy matching
// over the full surface-form vocabulary.
type Autocompleter struct {
	prefixTrie        *patricia.Trie
	surfaceToLemma    map[string]string
	surfaceForms      []string
	fuzzyEditDistance int
	minFuzzyTermLen   int
	maxCandidates     int
}

// Option configures an Autocompleter at construction time.
type Option func(*Autocompleter)

// WithFuzzyEditDistance sets the maximum Levenshtein distance accepted by
// fuzzy matching. The default is 1.
func WithFuzzyEditDistance(d int) Option {
	return func(a *Autocompleter) { a.fuzzyEditDistance = d }
}

// WithMinFuzzyTermLength sets the minimum query term length eligible for
// fuzzy matching, guarding against short terms matching everything. The
// default is 4.
func WithMinFuzzyTermLength(n int) Option {
	return func(a *Autocompleter) { a.minFuzzyTermLen = n }
}

// WithMaxCandidates caps how many lemmas a single prefix or fuzzy search
// returns, bounding how many candidate Suggestion lookups a query term can
// fan out into downstream. The default is 32.
func WithMaxCandidates(n int) Option {
	return func(a *Autocompleter) { a.maxCandidates = n }
}

// BuildAutocompleter collects (lemma, original_word) pairs across the
// catalog, grouped by lemma, per spec.md §4.6: the synonym table maps each
// surface form (a lemma itself, or an original word it absorbed) back to
// its lemma, the prefix trie holds the lemmas only, and the surface-form
// vocabulary (lemma plus every synonym) feeds fuzzy matching.
func BuildAutocompleter(cat *catalog.Catalog, opts ...Option) *Autocompleter {
	a := &Autocompleter{
		prefixTrie:        patricia.NewTrie(),
		surfaceToLemma:    make(map[string]string),
		fuzzyEditDistance: 1,
		minFuzzyTermLen:   4,
		maxCandidates:     32,
	}

	for _, p := range cat.All() {
		for _, pair := range p.LemmaPairs {
			a.addSurfaceForm(pair.Lemma, pair.Lemma)
			if pair.OriginalWord != nil && *pair.OriginalWord != pair.Lemma {
				a.addSurfaceForm(pair.Lemma, *pair.OriginalWord)
			}
		}
	}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Autocompleter) addSurfaceForm(lemma, surface string) {
	if _, exists := a.surfaceToLemma[surface]; !exists {
		a.surfaceToLemma[surface] = lemma
		a.surfaceForms = append(a.surfaceForms, surface)
	}
	a.prefixTrie.Insert(patricia.Prefix(lemma), lemma)
}

// Search returns zero or more lemmas matching term from the first tier
// that matches: an exact synonym/lemma hit alone; otherwise the prefix
// matches; otherwise (for terms at least minFuzzyTermLen long) the
// edit-distance matches, nearest first. Tiers are not combined.
func (a *Autocompleter) Search(term string) []string {
	term = strings.ToLower(term)

	if lemma, ok := a.surfaceToLemma[term]; ok {
		return []string{lemma}
	}

	if prefixMatches := a.searchPrefix(term); len(prefixMatches) > 0 {
		return a.capCandidates(prefixMatches)
	}

	if len(term) >= a.minFuzzyTermLen {
		return a.capCandidates(a.searchFuzzy(term))
	}
	return nil
}

func (a *Autocompleter) capCandidates(lemmas []string) []string {
	if a.maxCandidates > 0 && len(lemmas) > a.maxCandidates {
		return lemmas[:a.maxCandidates]
	}
	return lemmas
}

func (a *Autocompleter) searchPrefix(term string) []string {
	seen := make(map[string]bool)
	var lemmas []string
	_ = a.prefixTrie.VisitSubtree(patricia.Prefix(term), func(p patricia.Prefix, item patricia.Item) error {
		lemma, _ := item.(string)
		if lemma != "" && !seen[lemma] {
			seen[lemma] = true
			lemmas = append(lemmas, lemma)
		}
		return nil
	})
	sort.Strings(lemmas)
	return lemmas
}

func (a *Autocompleter) searchFuzzy(term string) []string {
	type candidate struct {
		lemma    string
		distance int
	}
	var candidates []candidate
	for _, surface := range a.surfaceForms {
		d := levenshtein.ComputeDistance(term, surface)
		if d > a.fuzzyEditDistance {
			continue
		}
		candidates = append(candidates, candidate{lemma: a.surfaceToLemma[surface], distance: d})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].lemma < candidates[j].lemma
	})

	seenLemma := make(map[string]bool)
	var out []string
	for _, c := range candidates {
		if seenLemma[c.lemma] {
			continue
		}
		seenLemma[c.lemma] = true
		out = append(out, c.lemma)
	}
	return out
}
