package indexer

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperjump/niteru/internal/catalog"
	"github.com/hyperjump/niteru/internal/corpus"
	"github.com/hyperjump/niteru/internal/models"
)

func builtinSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	snap, _, err := NewIndexer(catalog.BuiltinSource).Rebuild(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

func TestSnapshot_WithSuggestions(t *testing.T) {
	snap := builtinSnapshot(t)
	_, err := snap.Engine.SimilarByTitle("inception", 5)
	err = snap.WithSuggestions(err)
	var nf *corpus.ItemNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v", err)
	}
	if len(nf.Suggestions) == 0 || nf.Suggestions[0] != "Inception" {
		t.Errorf("suggestions = %v", nf.Suggestions)
	}

	other := errors.New("boom")
	if snap.WithSuggestions(other) != other {
		t.Error("other errors must pass through")
	}
	if snap.WithSuggestions(nil) != nil {
		t.Error("nil must stay nil")
	}
}

func TestSnapshot_Search(t *testing.T) {
	snap := builtinSnapshot(t)
	ctx := context.Background()

	resp, err := snap.Search(ctx, models.SearchRequest{Query: "heist", Limit: 5}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Hits[0].Movie.Title != "Inception" || resp.Hits[0].Rank != 1 {
		t.Errorf("response = %+v", resp)
	}
	if resp.Fuzzy || resp.DidYouMean != "" {
		t.Errorf("exact hit should not be fuzzy: %+v", resp)
	}
}

func TestSnapshot_SearchFallsBackToFuzzy(t *testing.T) {
	snap := builtinSnapshot(t)
	resp, err := snap.Search(context.Background(), models.SearchRequest{Query: "gotam", Limit: 5}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Fuzzy || resp.Total == 0 || resp.Hits[0].Movie.Title != "The Dark Knight" {
		t.Errorf("response = %+v", resp)
	}
	if resp.DidYouMean != "gotham" {
		t.Errorf("did you mean = %q", resp.DidYouMean)
	}
}

func TestSnapshot_SearchNoHits(t *testing.T) {
	snap := builtinSnapshot(t)
	resp, err := snap.Search(context.Background(), models.SearchRequest{Query: "xylophone", Limit: 5}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 0 || resp.Hits == nil || resp.Fuzzy {
		t.Errorf("response = %+v", resp)
	}
}
