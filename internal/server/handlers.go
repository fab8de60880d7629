package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/hyperjump/niteru/internal/indexer"
	"github.com/hyperjump/niteru/internal/metrics"
	"github.com/hyperjump/niteru/internal/models"
	"github.com/hyperjump/niteru/internal/recommend"
	"github.com/hyperjump/niteru/internal/validation"
	"go.uber.org/zap"
)

const (
	maxBodyBytes        = 1 << 20
	defaultExplainTerms = 10
)

// snapshot returns the active snapshot or writes 503.
func (s *Server) snapshot(w http.ResponseWriter) (*indexer.Snapshot, bool) {
	snap, err := s.indexer.Current()
	if err != nil {
		s.respondEngineError(w, err)
		return nil, false
	}
	return snap, true
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return false
	}
	return true
}

func intParam(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func pathParam(r *http.Request, name string) string {
	p := chi.URLParam(r, name)
	if v, err := url.PathUnescape(p); err == nil {
		p = v
	}
	return strings.TrimSpace(p)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, err := s.indexer.Current()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "ready": err == nil})
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	q := r.URL.Query()
	var preds []recommend.Predicate
	if genre := strings.TrimSpace(q.Get("genre")); genre != "" {
		preds = append(preds, recommend.HasGenre(genre))
	}
	if q.Get("from") != "" || q.Get("to") != "" {
		from, err := intParam(r, "from")
		if err != nil {
			s.respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}
		to, err := intParam(r, "to")
		if err != nil {
			s.respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}
		yr := models.YearRange{From: from, To: to}
		if q.Get("from") == "" {
			yr.From = 1800
		}
		if q.Get("to") == "" {
			yr.To = 3000
		}
		if verr := validation.ValidateStruct(&yr); verr != nil {
			s.respondValidation(w, verr)
			return
		}
		preds = append(preds, recommend.YearBetween(yr.From, yr.To))
	}
	if raw := strings.TrimSpace(q.Get("min_rating")); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, codeInvalidRequest, "min_rating must be a number")
			return
		}
		preds = append(preds, recommend.MinRating(minRating))
	}
	movies := snap.Engine.Filter(recommend.And(preds...))
	s.respondJSON(w, http.StatusOK, models.MovieList{Movies: movies, Total: len(movies)})
}

func (s *Server) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	movie, err := snap.Engine.Details(pathParam(r, "title"))
	if err != nil {
		s.respondEngineError(w, snap.WithSuggestions(err))
		return
	}
	s.respondJSON(w, http.StatusOK, movie)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		s.respondValidation(w, verr)
		return
	}
	req.Normalize(s.config.Query.DefaultTopN, s.config.Query.MaxTopN)
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	s.logger.Debug("recommend request", zap.String("title", req.Title), zap.Int("top_n", req.TopN))
	s.recommendFrom(w, snap, "title", req.Title, req.TopN)
}

func (s *Server) handleRecommendGenre(w http.ResponseWriter, r *http.Request) {
	topN, err := intParam(r, "top_n")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	seed, err := snap.Engine.GenreSeed(pathParam(r, "genre"))
	metrics.RecordQuery("genre", err)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	s.recommendFrom(w, snap, "genre", seed.Title, s.topN(topN))
}

func (s *Server) handleRecommendRandom(w http.ResponseWriter, r *http.Request) {
	topN, err := intParam(r, "top_n")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	seed, err := snap.Engine.RandomSeed(nil)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	s.recommendFrom(w, snap, "random", seed.Title, s.topN(topN))
}

func (s *Server) recommendFrom(w http.ResponseWriter, snap *indexer.Snapshot, kind, title string, topN int) {
	start := time.Now()
	recs, err := snap.Engine.SimilarByTitle(title, topN)
	metrics.RecordQuery(kind, err)
	if err != nil {
		s.respondEngineError(w, snap.WithSuggestions(err))
		return
	}
	s.respondJSON(w, http.StatusOK, models.RecommendResponse{
		InputMovie:      title,
		Recommendations: recs,
		QueryTime:       time.Since(start).Milliseconds(),
	})
}

func (s *Server) topN(n int) int {
	req := models.RecommendRequest{TopN: n}
	req.Normalize(s.config.Query.DefaultTopN, s.config.Query.MaxTopN)
	return req.TopN
}

func (s *Server) handleSimilarText(w http.ResponseWriter, r *http.Request) {
	var req models.TextRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		s.respondValidation(w, verr)
		return
	}
	req.Normalize(s.config.Query.DefaultTopN, s.config.Query.MaxTopN)
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	start := time.Now()
	recs, err := snap.Engine.SimilarToText(req.Text, req.TopN)
	metrics.RecordQuery("text", err)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, models.RecommendResponse{
		InputMovie:      req.Text,
		Recommendations: recs,
		QueryTime:       time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	a := strings.TrimSpace(r.URL.Query().Get("a"))
	b := strings.TrimSpace(r.URL.Query().Get("b"))
	if a == "" || b == "" {
		s.respondError(w, http.StatusBadRequest, codeInvalidRequest, "a and b are required")
		return
	}
	k, err := intParam(r, "k")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	if k <= 0 {
		k = defaultExplainTerms
	}
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	score, err := snap.Engine.Similarity(a, b)
	if err != nil {
		s.respondEngineError(w, snap.WithSuggestions(err))
		return
	}
	terms, err := snap.Engine.Explain(a, b, k)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	resp := models.ExplainResponse{A: a, B: b, Similarity: score, SharedTerms: make([]models.SharedTerm, len(terms))}
	for i, t := range terms {
		resp.SharedTerms[i] = models.SharedTerm{Term: t.Term, Weight: t.Weight}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSimilarPairs(w http.ResponseWriter, r *http.Request) {
	k, err := intParam(r, "k")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	pairs, err := snap.Engine.MostSimilarPairs(s.topN(k))
	metrics.RecordQuery("pairs", err)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, models.PairList{Pairs: pairs, Total: len(pairs)})
}

func (s *Server) handleTopRated(w http.ResponseWriter, r *http.Request) {
	topN, err := intParam(r, "top_n")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	movies := snap.Engine.TopRated(s.topN(topN))
	s.respondJSON(w, http.StatusOK, models.MovieList{Movies: movies, Total: len(movies)})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	fuzzy, _ := strconv.ParseBool(r.URL.Query().Get("fuzzy"))
	highlight, _ := strconv.ParseBool(r.URL.Query().Get("highlight"))
	req := models.SearchRequest{
		Query:     strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:     limit,
		Fuzzy:     fuzzy,
		Highlight: highlight,
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		s.respondValidation(w, verr)
		return
	}
	if req.Limit == 0 {
		req.Limit = s.config.Query.SearchLimit
	}
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	resp, err := snap.Search(r.Context(), req, s.config.Query.Fuzziness)
	metrics.RecordQuery("search", err)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, snap.Engine.Stats())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.indexer.Status())
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("rebuild request")
	_, changed, err := s.indexer.Rebuild(r.Context())
	if err != nil {
		s.logger.Error("rebuild failed", zap.Error(err))
		s.respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   err.Error(),
			Code:    codeRebuildFailed,
			Details: map[string]interface{}{"status": s.indexer.Status()},
		})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"changed": changed,
		"status":  s.indexer.Status(),
	})
}
