package cli

import (
	"context"
	"time"

	"github.com/hyperjump/niteru/internal/config"
	"github.com/hyperjump/niteru/internal/indexer"
	"github.com/hyperjump/niteru/internal/models"
	"github.com/hyperjump/niteru/internal/recommend"
	"github.com/hyperjump/niteru/internal/validation"
)

// MovieFilter narrows a catalog listing. Zero fields do not filter.
type MovieFilter struct {
	Genre     string
	From      int
	To        int
	MinRating float64
}

// Backend answers catalog queries, either in-process or through a running server.
type Backend interface {
	Recommend(ctx context.Context, title string, topN int) (*models.RecommendResponse, error)
	RecommendGenre(ctx context.Context, genre string, topN int) (*models.RecommendResponse, error)
	RecommendRandom(ctx context.Context, topN int) (*models.RecommendResponse, error)
	SimilarText(ctx context.Context, text string, topN int) (*models.RecommendResponse, error)
	Explain(ctx context.Context, a, b string, k int) (*models.ExplainResponse, error)
	SimilarPairs(ctx context.Context, k int) (*models.PairList, error)
	Movie(ctx context.Context, title string) (*models.Movie, error)
	Movies(ctx context.Context, f MovieFilter) (*models.MovieList, error)
	TopRated(ctx context.Context, topN int) (*models.MovieList, error)
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error)
	Stats(ctx context.Context) (*models.CatalogStats, error)
	Status(ctx context.Context) (*models.IndexStatus, error)
}

var (
	_ Backend = (*Local)(nil)
	_ Backend = (*Client)(nil)
)

// Local answers queries from an in-process indexer.
type Local struct {
	idx *indexer.Indexer
	cfg config.QueryConfig
}

// NewLocal returns a backend over idx. The indexer must have been rebuilt at least once.
func NewLocal(idx *indexer.Indexer, cfg config.QueryConfig) *Local {
	return &Local{idx: idx, cfg: cfg}
}

func (l *Local) topN(n int) int {
	req := models.RecommendRequest{TopN: n}
	req.Normalize(l.cfg.DefaultTopN, l.cfg.MaxTopN)
	return req.TopN
}

func (l *Local) recommend(snap *indexer.Snapshot, title string, topN int) (*models.RecommendResponse, error) {
	start := time.Now()
	recs, err := snap.Engine.SimilarByTitle(title, l.topN(topN))
	if err != nil {
		return nil, snap.WithSuggestions(err)
	}
	return &models.RecommendResponse{
		InputMovie:      title,
		Recommendations: recs,
		QueryTime:       time.Since(start).Milliseconds(),
	}, nil
}

// Recommend returns the movies most similar to title.
func (l *Local) Recommend(_ context.Context, title string, topN int) (*models.RecommendResponse, error) {
	req := models.RecommendRequest{Title: title, TopN: topN}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}
	req.Normalize(l.cfg.DefaultTopN, l.cfg.MaxTopN)
	snap, err := l.idx.Current()
	if err != nil {
		return nil, err
	}
	return l.recommend(snap, req.Title, req.TopN)
}

// RecommendGenre seeds a recommendation with the first movie of genre.
func (l *Local) RecommendGenre(_ context.Context, genre string, topN int) (*models.RecommendResponse, error) {
	snap, err := l.idx.Current()
	if err != nil {
		return nil, err
	}
	seed, err := snap.Engine.GenreSeed(genre)
	if err != nil {
		return nil, err
	}
	return l.recommend(snap, seed.Title, topN)
}

// RecommendRandom seeds a recommendation with a random movie.
func (l *Local) RecommendRandom(_ context.Context, topN int) (*models.RecommendResponse, error) {
	snap, err := l.idx.Current()
	if err != nil {
		return nil, err
	}
	seed, err := snap.Engine.RandomSeed(nil)
	if err != nil {
		return nil, err
	}
	return l.recommend(snap, seed.Title, topN)
}

// SimilarText returns the movies closest to free text.
func (l *Local) SimilarText(_ context.Context, text string, topN int) (*models.RecommendResponse, error) {
	req := models.TextRequest{Text: text, TopN: topN}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}
	req.Normalize(l.cfg.DefaultTopN, l.cfg.MaxTopN)
	snap, err := l.idx.Current()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	recs, err := snap.Engine.SimilarToText(req.Text, req.TopN)
	if err != nil {
		return nil, err
	}
	return &models.RecommendResponse{
		InputMovie:      req.Text,
		Recommendations: recs,
		QueryTime:       time.Since(start).Milliseconds(),
	}, nil
}

// Explain returns the similarity of a and b with up to k shared terms.
func (l *Local) Explain(_ context.Context, a, b string, k int) (*models.ExplainResponse, error) {
	snap, err := l.idx.Current()
	if err != nil {
		return nil, err
	}
	score, err := snap.Engine.Similarity(a, b)
	if err != nil {
		return nil, snap.WithSuggestions(err)
	}
	terms, err := snap.Engine.Explain(a, b, k)
	if err != nil {
		return nil, err
	}
	resp := &models.ExplainResponse{A: a, B: b, Similarity: score, SharedTerms: make([]models.SharedTerm, len(terms))}
	for i, t := range terms {
		resp.SharedTerms[i] = models.SharedTerm{Term: t.Term, Weight: t.Weight}
	}
	return resp, nil
}

// SimilarPairs returns the k most similar pairs of distinct movies.
func (l *Local) SimilarPairs(_ context.Context, k int) (*models.PairList, error) {
	snap, err := l.idx.Current()
	if err != nil {
		return nil, err
	}
	pairs, err := snap.Engine.MostSimilarPairs(l.topN(k))
	if err != nil {
		return nil, err
	}
	return &models.PairList{Pairs: pairs, Total: len(pairs)}, nil
}

// Movie returns one catalog entry by exact title.
func (l *Local) Movie(_ context.Context, title string) (*models.Movie, error) {
	snap, err := l.idx.Current()
	if err != nil {
		return nil, err
	}
	m, err := snap.Engine.Details(title)
	if err != nil {
		return nil, snap.WithSuggestions(err)
	}
	return &m, nil
}

// Movies lists catalog entries matching f.
func (l *Local) Movies(_ context.Context, f MovieFilter) (*models.MovieList, error) {
	snap, err := l.idx.Current()
	if err != nil {
		return nil, err
	}
	movies := snap.Engine.Filter(f.predicate())
	return &models.MovieList{Movies: movies, Total: len(movies)}, nil
}

func (f MovieFilter) predicate() recommend.Predicate {
	var preds []recommend.Predicate
	if f.Genre != "" {
		preds = append(preds, recommend.HasGenre(f.Genre))
	}
	if f.From != 0 || f.To != 0 {
		from, to := f.From, f.To
		if from == 0 {
			from = 1800
		}
		if to == 0 {
			to = 3000
		}
		preds = append(preds, recommend.YearBetween(from, to))
	}
	if f.MinRating > 0 {
		preds = append(preds, recommend.MinRating(f.MinRating))
	}
	return recommend.And(preds...)
}

// TopRated returns the highest rated movies.
func (l *Local) TopRated(_ context.Context, topN int) (*models.MovieList, error) {
	snap, err := l.idx.Current()
	if err != nil {
		return nil, err
	}
	movies := snap.Engine.TopRated(l.topN(topN))
	return &models.MovieList{Movies: movies, Total: len(movies)}, nil
}

// Search runs a catalog full-text search.
func (l *Local) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}
	if req.Limit == 0 {
		req.Limit = l.cfg.SearchLimit
	}
	snap, err := l.idx.Current()
	if err != nil {
		return nil, err
	}
	return snap.Search(ctx, req, l.cfg.Fuzziness)
}

// Stats summarizes the catalog.
func (l *Local) Stats(context.Context) (*models.CatalogStats, error) {
	snap, err := l.idx.Current()
	if err != nil {
		return nil, err
	}
	st := snap.Engine.Stats()
	return &st, nil
}

// Status reports the active snapshot.
func (l *Local) Status(context.Context) (*models.IndexStatus, error) {
	st := l.idx.Status()
	return &st, nil
}
