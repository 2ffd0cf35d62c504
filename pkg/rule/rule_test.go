package rule

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestSuggestionLessDescendingByLift(t *testing.T) {
	high := Suggestion{ConsequentItem: 1, Measure: Measure{Lift: 3.0, Support: 0.1}}
	low := Suggestion{ConsequentItem: 2, Measure: Measure{Lift: 1.0, Support: 0.9}}

	if !high.Less(low) {
		t.Fatalf("expected higher-lift suggestion to sort first")
	}
	if low.Less(high) {
		t.Fatalf("expected lower-lift suggestion not to sort before higher-lift one")
	}
}

func TestSuggestionLessTieOnMeasureAndConsequentBreaksOnAntecedent(t *testing.T) {
	a := Suggestion{ConsequentItem: 5, Measure: Measure{Lift: 2.0, Support: 0.5}, AntecedentItems: []uint32{1, 2}}
	b := Suggestion{ConsequentItem: 5, Measure: Measure{Lift: 2.0, Support: 0.5}, AntecedentItems: []uint32{1, 3}}

	if !b.Less(a) {
		t.Fatalf("expected lexicographically larger antecedent to sort first on a tie (the order is descending over the whole tuple)")
	}
}

func TestSuggestionValidateRejectsConsequentInAntecedent(t *testing.T) {
	s := Suggestion{ConsequentItem: 7, Measure: Measure{Lift: 1.0, Support: 0.1}, AntecedentItems: []uint32{3, 7}}
	if err := s.Validate(); err == nil {
		t.Fatal("expected invariant violation when antecedent contains the consequent item")
	}
}

func TestSuggestionValidateRejectsUnsortedAntecedent(t *testing.T) {
	s := Suggestion{ConsequentItem: 7, Measure: Measure{Lift: 1.0, Support: 0.1}, AntecedentItems: []uint32{5, 3}}
	if err := s.Validate(); err == nil {
		t.Fatal("expected invariant violation for a non-ascending antecedent")
	}
}

func TestDecodeSuggestionsBaselineRule(t *testing.T) {
	// Single record, empty antecedent: consequent=10, transactions=1000,
	// item_set_count=50, antecedent_count=1000 (= transaction_count for a
	// baseline rule), consequent_count=50.
	array := []uint32{10, 1000, 50, 1000, 50}
	suggestions, err := DecodeSuggestions(array, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	got := suggestions[0]
	if got.ConsequentItem != 10 {
		t.Errorf("ConsequentItem = %d, want 10", got.ConsequentItem)
	}
	if got.Measure.Lift != 1.0 {
		t.Errorf("baseline rule lift = %f, want 1.0 exactly", got.Measure.Lift)
	}
	if got.Measure.Support != 0.05 {
		t.Errorf("support = %f, want 0.05", got.Measure.Support)
	}
	if len(got.AntecedentItems) != 0 {
		t.Errorf("expected empty antecedent, got %v", got.AntecedentItems)
	}
}

func TestDecodeSuggestionsMultipleRecords(t *testing.T) {
	rec1 := []uint32{1, 100, 10, 100, 10} // baseline-ish
	rec2 := []uint32{2, 100, 20, 50, 25, 3, 4}
	array := append(append([]uint32{}, rec1...), rec2...)
	indices := []uint32{uint32(len(rec1))}

	suggestions, err := DecodeSuggestions(array, indices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(suggestions))
	}
	if suggestions[1].ConsequentItem != 2 {
		t.Errorf("second record consequent = %d, want 2", suggestions[1].ConsequentItem)
	}
	wantAntecedent := []uint32{3, 4}
	if len(suggestions[1].AntecedentItems) != 2 ||
		suggestions[1].AntecedentItems[0] != wantAntecedent[0] ||
		suggestions[1].AntecedentItems[1] != wantAntecedent[1] {
		t.Errorf("antecedent = %v, want %v", suggestions[1].AntecedentItems, wantAntecedent)
	}
}

func TestDecodeSuggestionsRejectsShortRecord(t *testing.T) {
	_, err := DecodeSuggestions([]uint32{1, 2, 3}, nil)
	if err == nil {
		t.Fatal("expected ArtifactMalformed for a too-short record")
	}
}

func writeUint32Section(buf *bytes.Buffer, section []uint32) {
	binary.Write(buf, binary.LittleEndian, uint32(len(section)))
	for _, v := range section {
		binary.Write(buf, binary.LittleEndian, v)
	}
}

func TestLoadArtifactRoundTrips(t *testing.T) {
	rec1 := []uint32{1, 100, 10, 100, 10}
	rec2 := []uint32{2, 100, 20, 50, 25, 3, 4}
	array := append(append([]uint32{}, rec1...), rec2...)
	indices := []uint32{uint32(len(rec1))}

	var buf bytes.Buffer
	writeUint32Section(&buf, array)
	writeUint32Section(&buf, indices)

	suggestions, err := LoadArtifact(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(suggestions))
	}
	if suggestions[0].ConsequentItem != 1 || suggestions[1].ConsequentItem != 2 {
		t.Errorf("unexpected consequents: %+v", suggestions)
	}
}

func TestLoadArtifactRejectsTruncatedStream(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(5))
	binary.Write(&buf, binary.LittleEndian, uint32(1))

	if _, err := LoadArtifact(&buf); err == nil {
		t.Fatal("expected error for a truncated artifact stream")
	}
}
