// Package tokenizer implements the domain-tuned token grammar (spec
// component C1): a single compiled alternation matched left to right over
// the lower-cased input, with no stemming or contraction handling — those
// belong to the catalog-build step, not the query path.
//
// The grammar needs lookbehind and lookahead to bound numeric and
// quantity tokens without consuming their delimiters, which the standard
// library's RE2-based regexp cannot express, so the match engine is
// github.com/dlclark/regexp2, used the same way the retrieval pack's own
// tokenizer packages reach for a backtracking engine when RE2 falls short.
package tokenizer

import (
	"strings"

	"github.com/dlclark/regexp2"
)

const numericLiteral = `(?:\d+|\d{1,3}(?:,\d{3})+)(?:(?:\.|,)\d+)?`

const numberedItemPattern = `(?:(?<=^)|(?<=[\s(]))(?:#|no\.?\s*)` + numericLiteral + `\+?(?=,?\s|\)|$)`

const quantityUnitPattern = `(?:(?<=^)|(?<=[\s(]))` + numericLiteral +
	`(?:(?:'s|["'+])|\s*(?:%|c(?:oun)t\.?|cups?|(?:fl\.?\s)?oz\.?|in(?:\.|ch(?:es)?)?|lbs?\.?|mgs?\.?|only|ounces?|p(?:ac)?k|pcs?\.?|pieces?|pounds?|size|x))?(?=,?\s|\)|$)`

const genericWordPattern = `[^\s!"&'()+,\-./:;?\[\]{}®™][^\s!"()+\-/:;?\[\]{}®™]*[^\s!"'()+,\-./:;?\[\]{}®™]`

var tokenPattern = regexp2.MustCompile(
	strings.Join([]string{numberedItemPattern, quantityUnitPattern, genericWordPattern}, "|"),
	regexp2.None,
)

// Tokenize lower-cases s and splits it into the substrings matched by the
// three alternation branches of the token grammar, in source order, with
// no deduplication. Empty input yields an empty sequence.
func Tokenize(s string) []string {
	lowered := strings.ToLower(s)

	var tokens []string
	m, err := tokenPattern.FindStringMatch(lowered)
	for err == nil && m != nil {
		tokens = append(tokens, m.String())
		m, err = tokenPattern.FindNextMatch(m)
	}
	return tokens
}
