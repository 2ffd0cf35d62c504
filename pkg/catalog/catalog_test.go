package catalog

import (
	"strings"
	"testing"
)

func TestLoadParsesProductsAndLemmaPairs(t *testing.T) {
	data := "Light Cream\t[('light', None), ('cream', None)]\n" +
		"Mushroom Cream Sauce\t[('mushroom', None), ('cream', None), ('sauce', 'sauces')]\n"

	cat, err := Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", cat.Count())
	}

	p0, ok := cat.Get(0)
	if !ok || p0.Name != "Light Cream" {
		t.Fatalf("Get(0) = %+v, %v", p0, ok)
	}
	if len(p0.LemmaPairs) != 2 || p0.LemmaPairs[0].Lemma != "cream" || p0.LemmaPairs[1].Lemma != "light" {
		t.Fatalf("unexpected lemma pairs for product 0: %+v", p0.LemmaPairs)
	}
	if p0.LemmaPairs[0].OriginalWord != nil {
		t.Fatalf("expected nil original word, got %v", *p0.LemmaPairs[0].OriginalWord)
	}

	p1, ok := cat.Get(1)
	if !ok {
		t.Fatal("expected product 1 to exist")
	}
	var found bool
	for _, pair := range p1.LemmaPairs {
		if pair.Lemma == "sauce" {
			found = true
			if pair.OriginalWord == nil || *pair.OriginalWord != "sauces" {
				t.Fatalf("expected synonym 'sauces' for lemma 'sauce', got %v", pair.OriginalWord)
			}
		}
	}
	if !found {
		t.Fatal("expected to find lemma 'sauce' in product 1")
	}
}

func TestGetOutOfRangeIsNotFound(t *testing.T) {
	cat, err := Load(strings.NewReader("Chicken\t[('chicken', None)]\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cat.Get(99); ok {
		t.Fatal("expected out-of-range id to report not found")
	}
}

func TestLoadRejectsMissingTab(t *testing.T) {
	_, err := Load(strings.NewReader("Chicken no tab here\n"))
	if err == nil {
		t.Fatal("expected ArtifactMalformed for a line without a tab delimiter")
	}
}

func TestLemmaSetIsSortedAndDeduplicated(t *testing.T) {
	cat, err := Load(strings.NewReader("Tomato Sauce\t[('sauce', None), ('sauce', None), ('tomato', None)]\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := cat.Get(0)
	lemmas := p.LemmaSet()
	want := []string{"sauce", "tomato"}
	if len(lemmas) != len(want) {
		t.Fatalf("LemmaSet() = %v, want %v", lemmas, want)
	}
	for i := range want {
		if lemmas[i] != want[i] {
			t.Fatalf("LemmaSet() = %v, want %v", lemmas, want)
		}
	}
}
