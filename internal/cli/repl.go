// Package cli implements an interactive shell for exercising the
// suggestion engine from the terminal, the same role the teacher's CLI
// mode plays for debugging prefix completion.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/basketwise/suggestengine/internal/utils"
	"github.com/basketwise/suggestengine/pkg/catalog"
	"github.com/basketwise/suggestengine/pkg/engine"
)

// Repl reads basket+query lines from stdin and prints ranked suggestions.
// Each line has the form `<basket items>|<query>`, where basket items are
// a comma-separated list of either numeric product ids or a case-insensitive
// name prefix, and either side of the `|` may be empty.
type Repl struct {
	engine       *engine.Engine
	catalog      *catalog.Catalog
	prompt       string
	basketLimit  int
	requestCount int
}

// NewRepl builds a Repl bound to an already-constructed engine and catalog.
func NewRepl(eng *engine.Engine, cat *catalog.Catalog, prompt string, basketLimit int) *Repl {
	return &Repl{engine: eng, catalog: cat, prompt: prompt, basketLimit: basketLimit}
}

// Start begins the interactive loop. It continuously prompts for input,
// reads a line from stdin, and passes it to handleLine. The loop
// terminates when reading from stdin returns an error (io.EOF on Ctrl+D),
// and returns that error.
func (r *Repl) Start() error {
	log.Print("basket suggestion shell")
	log.Print("enter `items|query`, e.g. `1,2|organic tea` (Ctrl+C to exit):")
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print(r.prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.handleLine(line)
	}
}

// handleLine parses one `items|query` line and prints the resulting
// suggestions.
func (r *Repl) handleLine(line string) {
	r.requestCount++

	basketText, queryText := splitLine(line)
	basket := r.resolveBasket(basketText)
	if len(basket) > r.basketLimit {
		log.Errorf("basket has %d items, limit is %d", len(basket), r.basketLimit)
		return
	}

	results := r.engine.GetSuggestions(basket, queryText)
	if len(results) == 0 {
		log.Warn("no suggestions found")
		return
	}

	log.Printf("found %d suggestions:", len(results))
	for i, res := range results {
		log.Printf("%2d. %-30s (lift: %5.2f, support: %s)", i+1, res.Name, res.Lift, formatSupport(res.Support))
	}
}

// splitLine separates a `items|query` line into its two halves. A line
// with no `|` is treated as a query-only line.
func splitLine(line string) (basketText, queryText string) {
	idx := strings.IndexByte(line, '|')
	if idx < 0 {
		return "", line
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:])
}

// resolveBasket turns a comma-separated list of ids or name prefixes into
// product ids, skipping tokens that resolve to nothing (and logging why).
func (r *Repl) resolveBasket(text string) []uint32 {
	if text == "" {
		return nil
	}
	var ids []uint32
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, ok := r.resolveItem(tok)
		if !ok {
			log.Errorf("no product matches %q", tok)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// resolveItem resolves a single basket token: a bare integer is taken as a
// product id directly; anything else is matched against the catalog by
// case-insensitive name prefix, first match wins.
func (r *Repl) resolveItem(tok string) (uint32, bool) {
	if n, err := strconv.ParseUint(tok, 10, 32); err == nil {
		id := uint32(n)
		if _, ok := r.catalog.Get(id); ok {
			return id, true
		}
		return 0, false
	}
	for _, p := range r.catalog.All() {
		if utils.HasPrefixIgnoreCase(p.Name, tok) {
			return p.ID, true
		}
	}
	return 0, false
}

func formatSupport(support float64) string {
	return strconv.FormatFloat(support, 'f', 3, 64)
}
