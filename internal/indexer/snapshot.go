package indexer

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/niteru/internal/corpus"
	"github.com/hyperjump/niteru/internal/keyword"
	"github.com/hyperjump/niteru/internal/models"
	"github.com/hyperjump/niteru/internal/recommend"
)

const maxTitleSuggestions = 3

// Snapshot is one fully built, read-only view of the catalog.
type Snapshot struct {
	ID          string
	Source      string
	Fingerprint string
	BuiltAt     time.Time
	BuildTime   time.Duration
	Engine      *recommend.Engine

	keyword *keyword.BleveIndex
	spell   *keyword.SpellChecker
}

// WithSuggestions adds close titles to a not-found error; other errors pass through.
func (s *Snapshot) WithSuggestions(err error) error {
	var nf *corpus.ItemNotFoundError
	if errors.As(err, &nf) && len(nf.Suggestions) == 0 {
		nf.Suggestions = keyword.SuggestTitles(nf.Title, s.Engine.Titles(), maxTitleSuggestions)
	}
	return err
}

// Search runs a catalog full-text search. When an exact search finds nothing it retries
// with fuzzy matching at the given fuzziness. Misspelled queries carry a DidYouMean hint.
func (s *Snapshot) Search(ctx context.Context, req models.SearchRequest, fuzziness int) (*models.SearchResponse, error) {
	start := time.Now()
	opts := &keyword.SearchOptions{FuzzyEnabled: req.Fuzzy, Fuzziness: fuzziness, Highlight: req.Highlight}
	results, err := s.keyword.Search(ctx, req.Query, req.Limit, opts)
	if err != nil {
		return nil, err
	}
	fuzzy := req.Fuzzy
	if len(results) == 0 && !req.Fuzzy {
		opts.FuzzyEnabled = true
		if results, err = s.keyword.Search(ctx, req.Query, req.Limit, opts); err != nil {
			return nil, err
		}
		fuzzy = len(results) > 0
	}
	hits := make([]models.SearchHit, 0, len(results))
	for _, r := range results {
		m, err := s.Engine.Movie(r.ID)
		if err != nil {
			continue
		}
		hits = append(hits, models.SearchHit{Rank: len(hits) + 1, Score: r.Score, Movie: m, Highlights: r.Fragments})
	}
	return &models.SearchResponse{
		Query:      req.Query,
		Hits:       hits,
		Total:      len(hits),
		QueryTime:  time.Since(start).Milliseconds(),
		Fuzzy:      fuzzy,
		DidYouMean: s.spell.DidYouMean(req.Query),
	}, nil
}
