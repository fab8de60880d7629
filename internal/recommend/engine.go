// Package recommend provides the content-based similarity engine and its read-only queries.
package recommend

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/hyperjump/niteru/internal/corpus"
	"github.com/hyperjump/niteru/internal/models"
	"github.com/hyperjump/niteru/internal/tfidf"
	"github.com/hyperjump/niteru/internal/vector"
	"github.com/hyperjump/niteru/pkg/utils"
)

const defaultScorePrecision = 3

// Engine answers similarity and attribute queries over one corpus.
// It is fully built by New and never mutated, so it is safe for concurrent use.
// A changed catalog requires a new Engine.
type Engine struct {
	corpus    *corpus.Corpus
	model     *tfidf.Model
	matrix    *vector.SimilarityMatrix
	precision int
}

type settings struct {
	tfidf      tfidf.Options
	precision  int
	allowEmpty bool
}

// Option configures New.
type Option func(*settings)

// WithTFIDFOptions sets tokenization and weighting options.
func WithTFIDFOptions(o tfidf.Options) Option {
	return func(s *settings) { s.tfidf = o }
}

// WithScorePrecision sets the number of decimals similarity scores are rounded to.
func WithScorePrecision(decimals int) Option {
	return func(s *settings) {
		if decimals >= 0 {
			s.precision = decimals
		}
	}
}

// AllowEmptyVocabulary builds an attribute-only engine instead of failing when the
// descriptions yield no terms. Similarity queries then return ErrSimilarityUnavailable.
func AllowEmptyVocabulary() Option {
	return func(s *settings) { s.allowEmpty = true }
}

// New loads items, fits the TF-IDF model on their descriptions, and computes the
// similarity matrix. It returns a fully built engine or an error, never a partial one.
func New(items []models.Movie, opts ...Option) (*Engine, error) {
	s := settings{tfidf: tfidf.DefaultOptions(), precision: defaultScorePrecision}
	for _, opt := range opts {
		opt(&s)
	}
	c, err := corpus.Load(items)
	if err != nil {
		return nil, err
	}
	e := &Engine{corpus: c, precision: s.precision}
	model, err := tfidf.Fit(c.Descriptions(), s.tfidf)
	if err != nil {
		if s.allowEmpty && errors.Is(err, tfidf.ErrEmptyVocabulary) {
			return e, nil
		}
		return nil, err
	}
	e.model = model
	e.matrix = vector.BuildSimilarity(model.Rows())
	return e, nil
}

// Len returns the number of movies.
func (e *Engine) Len() int {
	return e.corpus.Len()
}

// VocabularySize returns the number of terms, or 0 for an attribute-only engine.
func (e *Engine) VocabularySize() int {
	if e.model == nil {
		return 0
	}
	return e.model.VocabularySize()
}

// SimilarityEnabled reports whether similarity queries are available.
func (e *Engine) SimilarityEnabled() bool {
	return e.matrix != nil
}

// TFIDFOptions returns the options the model was fitted with.
func (e *Engine) TFIDFOptions() tfidf.Options {
	if e.model == nil {
		return tfidf.Options{}
	}
	return e.model.Options()
}

// Titles returns every title in corpus order.
func (e *Engine) Titles() []string {
	return e.corpus.Titles()
}

// SimilarByTitle returns the topN movies most similar to title, excluding title itself.
// Results are ordered by score, highest first, with ties broken by corpus order.
// A topN larger than the number of other movies returns all of them; topN <= 0 returns none.
func (e *Engine) SimilarByTitle(title string, topN int) ([]models.Recommendation, error) {
	id, ok := e.corpus.IndexOf(title)
	if !ok {
		return nil, &corpus.ItemNotFoundError{Title: title}
	}
	if e.matrix == nil {
		return nil, ErrSimilarityUnavailable
	}
	return e.rank(e.matrix.Row(id), id, topN), nil
}

// GenreSeed returns the first movie in corpus order with a genre tag containing genre,
// compared case-insensitively.
func (e *Engine) GenreSeed(genre string) (models.Movie, error) {
	q := strings.ToLower(strings.TrimSpace(genre))
	if q != "" {
		for _, m := range e.corpus.All() {
			if hasGenre(m, q) {
				return m, nil
			}
		}
	}
	return models.Movie{}, &GenreNotFoundError{Genre: genre}
}

// SimilarByGenre returns the neighbours of the genre's seed movie (see GenreSeed).
func (e *Engine) SimilarByGenre(genre string, topN int) ([]models.Recommendation, error) {
	seed, err := e.GenreSeed(genre)
	if err != nil {
		return nil, err
	}
	return e.SimilarByTitle(seed.Title, topN)
}

// SimilarToText ranks every movie by similarity to free text projected into the vocabulary.
func (e *Engine) SimilarToText(text string, topN int) ([]models.Recommendation, error) {
	if e.model == nil {
		return nil, ErrSimilarityUnavailable
	}
	q := e.model.Transform(text)
	if q.IsZero() {
		return nil, &NoSignalError{Text: text}
	}
	rows := e.model.Rows()
	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = math.Min(math.Max(vector.InnerProduct(q, row), 0), 1)
	}
	return e.rank(scores, -1, topN), nil
}

// Similarity returns the rounded similarity score between two titles.
func (e *Engine) Similarity(a, b string) (float64, error) {
	i, ok := e.corpus.IndexOf(a)
	if !ok {
		return 0, &corpus.ItemNotFoundError{Title: a}
	}
	j, ok := e.corpus.IndexOf(b)
	if !ok {
		return 0, &corpus.ItemNotFoundError{Title: b}
	}
	if e.matrix == nil {
		return 0, ErrSimilarityUnavailable
	}
	return e.round(e.matrix.At(i, j)), nil
}

// Explain returns up to k terms two titles share, ordered by contribution to their similarity.
func (e *Engine) Explain(a, b string, k int) ([]tfidf.TermWeight, error) {
	i, ok := e.corpus.IndexOf(a)
	if !ok {
		return nil, &corpus.ItemNotFoundError{Title: a}
	}
	j, ok := e.corpus.IndexOf(b)
	if !ok {
		return nil, &corpus.ItemNotFoundError{Title: b}
	}
	if e.model == nil {
		return nil, ErrSimilarityUnavailable
	}
	return e.model.SharedTerms(i, j, k), nil
}

// MostSimilarPairs returns the k highest-scoring pairs of distinct movies, each pair
// once with the lower corpus index first. Ties break by (i, j) ascending.
func (e *Engine) MostSimilarPairs(k int) ([]models.SimilarPair, error) {
	if e.matrix == nil {
		return nil, ErrSimilarityUnavailable
	}
	if k <= 0 {
		return []models.SimilarPair{}, nil
	}
	type pair struct {
		i, j  int
		score float64
	}
	n := e.matrix.Size()
	pairs := make([]pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, pair{i, j, e.matrix.At(i, j)})
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].score != pairs[b].score {
			return pairs[a].score > pairs[b].score
		}
		if pairs[a].i != pairs[b].i {
			return pairs[a].i < pairs[b].i
		}
		return pairs[a].j < pairs[b].j
	})
	if len(pairs) > k {
		pairs = pairs[:k]
	}
	out := make([]models.SimilarPair, len(pairs))
	for r, p := range pairs {
		a, _ := e.corpus.Get(p.i)
		b, _ := e.corpus.Get(p.j)
		out[r] = models.SimilarPair{Rank: r + 1, A: a.Title, B: b.Title, Similarity: e.round(p.score)}
	}
	return out, nil
}

// rank orders candidate indices by score (ties by index), skipping exclude, and
// converts the first topN into recommendations.
func (e *Engine) rank(scores []float64, exclude, topN int) []models.Recommendation {
	if topN <= 0 {
		return []models.Recommendation{}
	}
	idx := make([]int, 0, len(scores))
	for i := range scores {
		if i != exclude {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool {
		if scores[idx[a]] != scores[idx[b]] {
			return scores[idx[a]] > scores[idx[b]]
		}
		return idx[a] < idx[b]
	})
	if len(idx) > topN {
		idx = idx[:topN]
	}
	out := make([]models.Recommendation, len(idx))
	for rank, i := range idx {
		m, _ := e.corpus.Get(i)
		out[rank] = models.Recommendation{
			Rank:        rank + 1,
			Title:       m.Title,
			Genres:      m.Genres,
			Year:        m.Year,
			Rating:      m.Rating,
			Description: m.Description,
			Similarity:  e.round(scores[i]),
		}
	}
	return out
}

func (e *Engine) round(x float64) float64 {
	return utils.Round(x, e.precision)
}

// Details returns the movie with the exact title.
func (e *Engine) Details(title string) (models.Movie, error) {
	return e.corpus.FindByTitle(title)
}

// Movie returns the movie at corpus index id.
func (e *Engine) Movie(id int) (models.Movie, error) {
	return e.corpus.Get(id)
}

// Movies returns every movie in corpus order.
func (e *Engine) Movies() []models.Movie {
	return e.corpus.All()
}

// RandomSeed picks a movie uniformly at random. A nil r uses the shared source.
func (e *Engine) RandomSeed(r *rand.Rand) (models.Movie, error) {
	var i int
	if r != nil {
		i = r.Intn(e.corpus.Len())
	} else {
		i = rand.Intn(e.corpus.Len())
	}
	return e.corpus.Get(i)
}

// TopRated returns the topN highest-rated movies, ties broken by corpus order.
func (e *Engine) TopRated(topN int) []models.Movie {
	if topN <= 0 {
		return []models.Movie{}
	}
	all := e.corpus.All()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Rating > all[j].Rating })
	if len(all) > topN {
		all = all[:topN]
	}
	return all
}

// Filter returns every movie matching pred, in corpus order.
func (e *Engine) Filter(pred Predicate) []models.Movie {
	out := []models.Movie{}
	for _, m := range e.corpus.All() {
		if pred == nil || pred(m) {
			out = append(out, m)
		}
	}
	return out
}
