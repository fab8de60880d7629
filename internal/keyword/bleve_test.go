package keyword

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/niteru/internal/catalog"
	"github.com/hyperjump/niteru/internal/corpus"
)

func newBuiltinIndex(t *testing.T) (*BleveIndex, *corpus.Corpus) {
	t.Helper()
	c, err := corpus.Load(catalog.Builtin())
	if err != nil {
		t.Fatal(err)
	}
	idx, err := NewBleveIndex(c.All())
	if err != nil {
		t.Fatalf("NewBleveIndex: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx, c
}

func hitTitles(t *testing.T, c *corpus.Corpus, results []Result) []string {
	t.Helper()
	out := make([]string, len(results))
	for i, r := range results {
		m, err := c.Get(r.ID)
		if err != nil {
			t.Fatalf("hit %d: %v", r.ID, err)
		}
		out[i] = m.Title
	}
	return out
}

func TestBleveIndex_SearchFindsDescription(t *testing.T) {
	idx, c := newBuiltinIndex(t)
	results, err := idx.Search(context.Background(), "heist", 10, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	got := hitTitles(t, c, results)
	if len(got) != 1 || got[0] != "Inception" {
		t.Errorf("heist hits = %v, want [Inception]", got)
	}
}

func TestBleveIndex_SearchHighlight(t *testing.T) {
	idx, _ := newBuiltinIndex(t)
	ctx := context.Background()

	results, err := idx.Search(ctx, "heist", 10, &SearchOptions{Highlight: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d hits", len(results))
	}
	frags := results[0].Fragments["description"]
	if len(frags) == 0 || !strings.Contains(frags[0], "<mark>heist</mark>") {
		t.Errorf("description fragments = %v", frags)
	}

	results, err = idx.Search(ctx, "heist", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Fragments != nil {
		t.Error("fragments should be empty unless requested")
	}
}

func TestBleveIndex_SearchFindsTitleAndGenre(t *testing.T) {
	idx, c := newBuiltinIndex(t)
	ctx := context.Background()

	results, err := idx.Search(ctx, "Matrix", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := hitTitles(t, c, results); len(got) == 0 || got[0] != "The Matrix" {
		t.Errorf("title hits = %v", got)
	}

	results, err = idx.Search(ctx, "romance", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := hitTitles(t, c, results)
	if len(got) != 2 {
		t.Fatalf("romance hits = %v, want The Notebook and Titanic", got)
	}
	for _, title := range got {
		if title != "The Notebook" && title != "Titanic" {
			t.Errorf("unexpected hit %s", title)
		}
	}
}

func TestBleveIndex_SearchSplitsHyphenatedDescriptions(t *testing.T) {
	idx, c := newBuiltinIndex(t)
	results, err := idx.Search(context.Background(), "bending", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := hitTitles(t, c, results); len(got) != 2 {
		t.Errorf("bending hits = %v, want Inception and Tenet", got)
	}
}

func TestBleveIndex_SearchFuzzy(t *testing.T) {
	idx, c := newBuiltinIndex(t)
	ctx := context.Background()

	exact, err := idx.Search(ctx, "gotam", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(exact) != 0 {
		t.Errorf("exact search for a typo returned %v", hitTitles(t, c, exact))
	}

	fuzzy, err := idx.Search(ctx, "gotam", 10, &SearchOptions{FuzzyEnabled: true, Fuzziness: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got := hitTitles(t, c, fuzzy); len(got) == 0 || got[0] != "The Dark Knight" {
		t.Errorf("fuzzy hits = %v, want The Dark Knight first", got)
	}
}

func TestBleveIndex_SearchLimitAndEmpty(t *testing.T) {
	idx, _ := newBuiltinIndex(t)
	ctx := context.Background()

	results, err := idx.Search(ctx, "drama", 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("limit 2 returned %d hits", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Score < results[i].Score {
			t.Errorf("results not sorted by score")
		}
	}

	for _, q := range []string{"", "   "} {
		results, err := idx.Search(ctx, q, 10, nil)
		if err != nil || len(results) != 0 {
			t.Errorf("Search(%q) = %v, %v", q, results, err)
		}
	}
	if results, _ := idx.Search(ctx, "drama", 0, nil); len(results) != 0 {
		t.Errorf("limit 0 returned %d hits", len(results))
	}
}

func TestBleveIndex_TermDictionary(t *testing.T) {
	idx, _ := newBuiltinIndex(t)

	count, err := idx.DocCount()
	if err != nil || count != 12 {
		t.Errorf("DocCount = %d, %v", count, err)
	}

	terms, err := idx.GetAllTerms()
	if err != nil {
		t.Fatal(err)
	}
	set := make(map[string]bool, len(terms))
	for _, term := range terms {
		set[term] = true
	}
	for _, want := range []string{"heist", "gotham", "matrix", "thriller"} {
		if !set[want] {
			t.Errorf("term %q missing from dictionary", want)
		}
	}
	if set["the"] {
		t.Error("stop word indexed")
	}

	freq, err := idx.GetTermFrequency("drama")
	if err != nil {
		t.Fatal(err)
	}
	if freq != 6 {
		t.Errorf("drama frequency = %d, want 6", freq)
	}
}

func TestAppendTerms(t *testing.T) {
	iter := func(terms []string, failAt int) func() (string, bool, error) {
		i := 0
		return func() (string, bool, error) {
			if i == failAt {
				return "", false, errors.New("segment read failed")
			}
			if i >= len(terms) {
				return "", false, nil
			}
			i++
			return terms[i-1], true, nil
		}
	}

	seen := map[string]struct{}{"heist": {}}
	got, err := appendTerms([]string{"heist"}, seen, iter([]string{"dream", "heist", "thief"}, -1))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, ",") != "heist,dream,thief" {
		t.Errorf("terms = %v", got)
	}

	if _, err := appendTerms(nil, map[string]struct{}{}, iter([]string{"dream", "thief"}, 1)); err == nil {
		t.Error("expected iterator error to be returned")
	}
}
