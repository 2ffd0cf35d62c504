// Package catalog implements the immutable product catalog (spec component
// C3): a dense, id-indexed array of product names together with their
// precomputed lemma/word pairs, loaded from the tab-separated product
// artifact described in spec.md §6.
//
// Loading follows the shape of the teacher's own artifact loaders
// (pkg/suggest/completion.go's LoadBinaryDictionary: open, bufio-scan,
// validate) even though the wire format here is text, not the teacher's
// binary n-gram format. A bad line is logged and rejects the whole
// artifact; it is not skipped.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/basketwise/suggestengine/internal/logger"
	"github.com/basketwise/suggestengine/pkg/engineerr"
)

var log = logger.New("catalog")

// LemmaPair is a (lemma, original surface word) pair. OriginalWord is
// non-nil only when lemmatization changed the surface form, meaning the
// lemma absorbed a synonym.
type LemmaPair struct {
	Lemma        string
	OriginalWord *string
}

// Product is a single catalog entry. ID equals its position in the
// catalog array.
type Product struct {
	ID         uint32
	Name       string
	LemmaPairs []LemmaPair // sorted ascending by Lemma, deduplicated
}

// LemmaSet returns the product's distinct lemmas, ascending — the key C5
// indexes products by.
func (p Product) LemmaSet() []string {
	lemmas := make([]string, len(p.LemmaPairs))
	for i, pair := range p.LemmaPairs {
		lemmas[i] = pair.Lemma
	}
	return lemmas
}

// Catalog is the immutable, dense product array. Ids form the contiguous
// range [0, Count()).
type Catalog struct {
	products []Product
}

// Get returns the product at id, or false if id is out of range — the
// engine treats an out-of-range basket id as NotFound and silently ignores
// it (spec.md §7).
func (c *Catalog) Get(id uint32) (Product, bool) {
	if int(id) >= len(c.products) {
		return Product{}, false
	}
	return c.products[id], true
}

// Count returns the number of products in the catalog.
func (c *Catalog) Count() int {
	return len(c.products)
}

// All returns every product, in id order. Callers must not mutate the
// returned slice.
func (c *Catalog) All() []Product {
	return c.products
}

// Load parses the no-header, tab-delimited product artifact: each line is
// `<product_name>\t<lemma_pairs_literal>`, where the literal is a
// parenthesized Python-style tuple sequence such as
// `[('light', None), ('cream', None)]`. The zero-indexed line number
// becomes the product id.
func Load(r io.Reader) (*Catalog, error) {
	scanner := bufio.NewScanner(r)
	// Product names and lemma-pair literals can run long; grow the buffer
	// past bufio's 64KiB default line cap.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 8*1024*1024)

	var products []Product
	lineNo := 0
	for scanner.Scan() {
		line := scanner.Text()
		// A blank line has no tab and falls straight into the
		// missing-delimiter error below: every scanned line must become
		// exactly one product, so id (line number) and slice position
		// never drift apart.
		name, literal, ok := strings.Cut(line, "\t")
		if !ok {
			err := engineerr.Malformed("product artifact", fmt.Errorf("line %d: missing tab delimiter", lineNo))
			log.Warnf("rejecting product artifact: %v", err)
			return nil, err
		}
		pairs, err := parseLemmaPairs(literal)
		if err != nil {
			wrapped := engineerr.Malformed("product artifact", fmt.Errorf("line %d: %w", lineNo, err))
			log.Warnf("rejecting product artifact: %v", wrapped)
			return nil, wrapped
		}
		products = append(products, Product{
			ID:         uint32(lineNo),
			Name:       name,
			LemmaPairs: normalizeLemmaPairs(pairs),
		})
		lineNo++
	}
	if err := scanner.Err(); err != nil {
		wrapped := engineerr.Malformed("product artifact", err)
		log.Warnf("rejecting product artifact: %v", wrapped)
		return nil, wrapped
	}
	log.Debugf("loaded %d products", len(products))
	return &Catalog{products: products}, nil
}

// normalizeLemmaPairs sorts by lemma and drops duplicate lemmas, keeping
// the first occurrence's original word — the artifact is expected to
// already be sorted and deduplicated (spec.md §3), but the engine doesn't
// trust that blindly.
func normalizeLemmaPairs(pairs []LemmaPair) []LemmaPair {
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Lemma < pairs[j].Lemma })
	out := pairs[:0:0]
	var last string
	seenAny := false
	for _, p := range pairs {
		if seenAny && p.Lemma == last {
			continue
		}
		out = append(out, p)
		last = p.Lemma
		seenAny = true
	}
	return out
}
