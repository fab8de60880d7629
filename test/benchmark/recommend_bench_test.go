package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/hyperjump/niteru/internal/keyword"
	"github.com/hyperjump/niteru/internal/models"
	"github.com/hyperjump/niteru/internal/recommend"
	"github.com/hyperjump/niteru/internal/tfidf"
	"github.com/hyperjump/niteru/internal/vector"
)

var words = []string{
	"space", "time", "heist", "dream", "romance", "war", "crime", "family", "robot", "ocean",
	"detective", "survival", "revenge", "comedy", "musical", "alien", "prison", "royal", "zombie", "magic",
}

// syntheticCatalog returns n movies whose descriptions mix words deterministically.
func syntheticCatalog(n int) []models.Movie {
	movies := make([]models.Movie, n)
	for i := range movies {
		desc := ""
		for j := 0; j < 6; j++ {
			desc += words[(i*7+j*3)%len(words)] + " "
		}
		movies[i] = models.Movie{
			Title:       fmt.Sprintf("Movie %d", i),
			Description: desc,
			Genres:      []string{words[i%len(words)]},
			Year:        1950 + i%70,
			Rating:      float64(i%90) / 10,
		}
	}
	return movies
}

func descriptions(movies []models.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Description
	}
	return out
}

func BenchmarkTFIDFFit(b *testing.B) {
	docs := descriptions(syntheticCatalog(1000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tfidf.Fit(docs, tfidf.DefaultOptions())
	}
}

func BenchmarkBuildSimilarity(b *testing.B) {
	model, err := tfidf.Fit(descriptions(syntheticCatalog(1000)), tfidf.DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = vector.BuildSimilarity(model.Rows())
	}
}

func BenchmarkSimilarByTitle(b *testing.B) {
	e, err := recommend.New(syntheticCatalog(1000))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.SimilarByTitle("Movie 500", 10)
	}
}

func BenchmarkSimilarToText(b *testing.B) {
	e, err := recommend.New(syntheticCatalog(1000))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.SimilarToText("a dream heist in space", 10)
	}
}

func BenchmarkKeywordSearch(b *testing.B) {
	movies := syntheticCatalog(1000)
	for i := range movies {
		movies[i].ID = i
	}
	idx, err := keyword.NewBleveIndex(movies)
	if err != nil {
		b.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = idx.Search(ctx, "robot revenge", 10, nil)
	}
}
