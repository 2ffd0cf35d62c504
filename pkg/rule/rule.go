// Package rule implements the Suggestion value object (spec component C2)
// and decoding of the ragged association-rule artifact into Suggestions.
//
// A Suggestion is a compact, ordered record of (consequent item, statistical
// measure, antecedent itemset). Its comparison is deliberately the reverse
// of the natural tuple order on (lift, support, consequent, antecedent): a
// min-sorted container of Suggestions then presents the best suggestion
// first, the way a market-basket ranking wants.
package rule

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/basketwise/suggestengine/internal/logger"
	"github.com/basketwise/suggestengine/pkg/engineerr"
)

var log = logger.New("rule")

// Measure is the statistical strength of an association rule.
type Measure struct {
	Lift    float64
	Support float64
}

// compare returns -1, 0, or 1 for the natural (ascending) order of Measures:
// lexicographic by (Lift, Support).
func (m Measure) compare(other Measure) int {
	if m.Lift != other.Lift {
		if m.Lift < other.Lift {
			return -1
		}
		return 1
	}
	if m.Support != other.Support {
		if m.Support < other.Support {
			return -1
		}
		return 1
	}
	return 0
}

// Suggestion is a single recommended product together with the evidence
// behind it: which rule produced it (antecedent items) and how strong that
// rule is (measure).
type Suggestion struct {
	ConsequentItem  uint32
	Measure         Measure
	AntecedentItems []uint32 // strictly ascending, never containing ConsequentItem
}

// compareNatural orders two Suggestions ascending by
// (lift, support, consequent, antecedent) — the tuple spec.md calls the
// "pointwise" order before it is reversed for presentation.
func (s Suggestion) compareNatural(other Suggestion) int {
	if c := s.Measure.compare(other.Measure); c != 0 {
		return c
	}
	if s.ConsequentItem != other.ConsequentItem {
		if s.ConsequentItem < other.ConsequentItem {
			return -1
		}
		return 1
	}
	return compareUint32Slices(s.AntecedentItems, other.AntecedentItems)
}

func compareUint32Slices(a, b []uint32) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Less implements the engine's descending total order: the best Suggestion
// (highest lift, then support, then consequent/antecedent as a tiebreak)
// sorts first. Suitable as the Less func for sort.Slice and as the
// ordering for a min-heap k-way merge.
func (s Suggestion) Less(other Suggestion) bool {
	return s.compareNatural(other) > 0
}

// Validate checks the §3 Suggestion invariants: the antecedent is strictly
// ascending and does not contain the consequent item, and the measure's
// components are non-negative.
func (s Suggestion) Validate() error {
	if s.Measure.Lift < 0 {
		return engineerr.Invariant(fmt.Sprintf("suggestion for item %d has negative lift %f", s.ConsequentItem, s.Measure.Lift))
	}
	if s.Measure.Support < 0 || s.Measure.Support > 1 {
		return engineerr.Invariant(fmt.Sprintf("suggestion for item %d has support %f outside [0,1]", s.ConsequentItem, s.Measure.Support))
	}
	for i, item := range s.AntecedentItems {
		if item == s.ConsequentItem {
			return engineerr.Invariant(fmt.Sprintf("antecedent of suggestion for item %d contains the consequent item", s.ConsequentItem))
		}
		if i > 0 && s.AntecedentItems[i-1] >= item {
			return engineerr.Invariant(fmt.Sprintf("antecedent of suggestion for item %d is not strictly ascending", s.ConsequentItem))
		}
	}
	return nil
}

// recordMinLength is the minimum length of a ragged artifact record:
// consequent_item, transaction_count, item_set_count, antecedent_count,
// consequent_count.
const recordMinLength = 5

// DecodeSuggestions reconstructs Suggestions from the ragged uint32 array
// format described in spec.md §6: array is the concatenation of
// fixed-prefix, variable-tail records, and indices holds the cumulative
// offsets (excluding the implicit leading zero) at which to split array
// into individual records.
func DecodeSuggestions(array []uint32, indices []uint32) ([]Suggestion, error) {
	boundaries := make([]uint32, 0, len(indices)+2)
	boundaries = append(boundaries, 0)
	boundaries = append(boundaries, indices...)
	boundaries = append(boundaries, uint32(len(array)))

	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] < boundaries[i-1] {
			err := engineerr.Malformed("suggestion artifact", fmt.Errorf("indices are not ascending at position %d", i))
			log.Warnf("rejecting suggestion artifact: %v", err)
			return nil, err
		}
	}

	suggestions := make([]Suggestion, 0, len(boundaries)-1)
	for i := 1; i < len(boundaries); i++ {
		record := array[boundaries[i-1]:boundaries[i]]
		s, err := decodeRecord(record)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	log.Debugf("decoded %d suggestions", len(suggestions))
	return suggestions, nil
}

func decodeRecord(record []uint32) (Suggestion, error) {
	if len(record) < recordMinLength {
		err := engineerr.Malformed("suggestion record", fmt.Errorf("record has length %d, want >= %d", len(record), recordMinLength))
		log.Warnf("rejecting suggestion record: %v", err)
		return Suggestion{}, err
	}

	consequentItem := record[0]
	transactionCount := record[1]
	itemSetCount := record[2]
	antecedentCount := record[3]
	consequentCount := record[4]
	antecedentItems := append([]uint32(nil), record[recordMinLength:]...)

	if transactionCount == 0 || antecedentCount == 0 || consequentCount == 0 {
		err := engineerr.Malformed("suggestion record", fmt.Errorf("record for item %d has a zero denominator", consequentItem))
		log.Warnf("rejecting suggestion record: %v", err)
		return Suggestion{}, err
	}

	support := float64(itemSetCount) / float64(transactionCount)
	lift := (float64(transactionCount) * float64(itemSetCount)) / (float64(antecedentCount) * float64(consequentCount))

	s := Suggestion{
		ConsequentItem:  consequentItem,
		Measure:         Measure{Lift: lift, Support: support},
		AntecedentItems: antecedentItems,
	}
	if err := s.Validate(); err != nil {
		log.Warnf("rejecting suggestion record: %v", err)
		return Suggestion{}, err
	}
	return s, nil
}

// SortDescending sorts suggestions in place using the engine's descending
// total order (best suggestion first).
func SortDescending(suggestions []Suggestion) {
	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Less(suggestions[j])
	})
}

// LoadArtifact reads the suggestion artifact's wire form: a little-endian
// uint32 length prefix followed by that many little-endian uint32 elements,
// for array and then for indices, in that order. The artifact this engine
// is handed has already been decompressed by whatever produced it (offline
// rule mining stays out of scope per spec.md §1), so this reads the raw
// uint32 arrays directly.
func LoadArtifact(r io.Reader) ([]Suggestion, error) {
	array, err := readUint32Section(r)
	if err != nil {
		wrapped := engineerr.Malformed("suggestion artifact array", err)
		log.Warnf("rejecting suggestion artifact: %v", wrapped)
		return nil, wrapped
	}
	indices, err := readUint32Section(r)
	if err != nil {
		wrapped := engineerr.Malformed("suggestion artifact indices", err)
		log.Warnf("rejecting suggestion artifact: %v", wrapped)
		return nil, wrapped
	}
	return DecodeSuggestions(array, indices)
}

func readUint32Section(r io.Reader) ([]uint32, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	section := make([]uint32, count)
	if count > 0 {
		if err := binary.Read(r, binary.LittleEndian, &section); err != nil {
			return nil, err
		}
	}
	return section, nil
}
