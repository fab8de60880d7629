package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperjump/niteru/internal/catalog"
	"github.com/hyperjump/niteru/internal/config"
	"github.com/hyperjump/niteru/internal/indexer"
	"github.com/hyperjump/niteru/internal/models"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, build bool) (*Server, http.Handler) {
	t.Helper()
	cfg := config.Default()
	cfg.Server.RateLimit = 0
	idx := indexer.NewIndexer(catalog.BuiltinSource, indexer.WithLogger(zap.NewNop()))
	if build {
		if _, _, err := idx.Rebuild(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	srv := NewServer(idx, cfg, zap.NewNop())
	return srv, srv.Router()
}

func do(t *testing.T, h http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		var raw []byte
		switch b := body.(type) {
		case string:
			raw = []byte(b)
		default:
			var err error
			if raw, err = json.Marshal(b); err != nil {
				t.Fatal(err)
			}
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	r := httptest.NewRequest(method, target, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t, false)
	w := do(t, h, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out map[string]interface{}
	decode(t, w, &out)
	if out["status"] != "ok" || out["ready"] != false {
		t.Errorf("health = %v", out)
	}
}

func TestNotReady(t *testing.T) {
	_, h := newTestServer(t, false)
	w := do(t, h, http.MethodPost, "/api/v1/recommend", models.RecommendRequest{Title: "Inception"})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d", w.Code)
	}
	var out errorResponse
	decode(t, w, &out)
	if out.Code != codeNotReady {
		t.Errorf("code = %s", out.Code)
	}
}

func TestRecommend(t *testing.T) {
	_, h := newTestServer(t, true)
	w := do(t, h, http.MethodPost, "/api/v1/recommend", models.RecommendRequest{Title: "Inception", TopN: 3})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body %s", w.Code, w.Body.String())
	}
	var out models.RecommendResponse
	decode(t, w, &out)
	if out.InputMovie != "Inception" || len(out.Recommendations) != 3 {
		t.Fatalf("response = %+v", out)
	}
	if out.Recommendations[0].Title != "Tenet" || out.Recommendations[0].Rank != 1 {
		t.Errorf("first = %+v, want Tenet", out.Recommendations[0])
	}
	for _, rec := range out.Recommendations {
		if rec.Title == "Inception" {
			t.Error("input movie must not be recommended")
		}
	}
}

func TestRecommend_defaultTopN(t *testing.T) {
	_, h := newTestServer(t, true)
	w := do(t, h, http.MethodPost, "/api/v1/recommend", map[string]string{"title": "  The Matrix "})
	var out models.RecommendResponse
	decode(t, w, &out)
	if len(out.Recommendations) != 5 {
		t.Errorf("got %d recommendations, want default 5", len(out.Recommendations))
	}
}

func TestRecommend_notFoundWithSuggestions(t *testing.T) {
	_, h := newTestServer(t, true)
	w := do(t, h, http.MethodPost, "/api/v1/recommend", models.RecommendRequest{Title: "Incepton"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", w.Code)
	}
	var out errorResponse
	decode(t, w, &out)
	if out.Code != codeNotFound || len(out.Suggestions) == 0 || out.Suggestions[0] != "Inception" {
		t.Errorf("error = %+v", out)
	}
}

func TestRecommend_validation(t *testing.T) {
	_, h := newTestServer(t, true)
	tests := []struct {
		name string
		body interface{}
	}{
		{"missing title", map[string]int{"top_n": 3}},
		{"blank title", models.RecommendRequest{Title: "   "}},
		{"negative top_n", models.RecommendRequest{Title: "Inception", TopN: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/v1/recommend", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d", w.Code)
			}
			var out errorResponse
			decode(t, w, &out)
			if out.Code != "VALIDATION_ERROR" {
				t.Errorf("code = %s", out.Code)
			}
		})
	}

	w := do(t, h, http.MethodPost, "/api/v1/recommend", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body: got %d", w.Code)
	}
}

func TestRecommendGenre(t *testing.T) {
	_, h := newTestServer(t, true)
	w := do(t, h, http.MethodGet, "/api/v1/recommend/genre/sci-fi?top_n=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out models.RecommendResponse
	decode(t, w, &out)
	if out.InputMovie != "The Matrix" || len(out.Recommendations) != 2 {
		t.Errorf("response = %+v", out)
	}

	w = do(t, h, http.MethodGet, "/api/v1/recommend/genre/western", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown genre: got %d", w.Code)
	}
	w = do(t, h, http.MethodGet, "/api/v1/recommend/genre/drama?top_n=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad top_n: got %d", w.Code)
	}
}

func TestRecommendRandom(t *testing.T) {
	_, h := newTestServer(t, true)
	w := do(t, h, http.MethodGet, "/api/v1/recommend/random?top_n=4", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out models.RecommendResponse
	decode(t, w, &out)
	if out.InputMovie == "" || len(out.Recommendations) != 4 {
		t.Errorf("response = %+v", out)
	}
}

func TestSimilarText(t *testing.T) {
	_, h := newTestServer(t, true)
	w := do(t, h, http.MethodPost, "/api/v1/similar-text", models.TextRequest{Text: "a heist inside a dream", TopN: 1})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out models.RecommendResponse
	decode(t, w, &out)
	if len(out.Recommendations) != 1 || out.Recommendations[0].Title != "Inception" {
		t.Errorf("response = %+v", out)
	}

	w = do(t, h, http.MethodPost, "/api/v1/similar-text", models.TextRequest{Text: "zzz qqq"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("no signal: got %d", w.Code)
	}
	var errOut errorResponse
	decode(t, w, &errOut)
	if errOut.Code != codeNoSignal {
		t.Errorf("code = %s", errOut.Code)
	}
}

func TestExplain(t *testing.T) {
	_, h := newTestServer(t, true)
	w := do(t, h, http.MethodGet, "/api/v1/explain?a=Inception&b=Tenet&k=3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out models.ExplainResponse
	decode(t, w, &out)
	if out.Similarity <= 0 || len(out.SharedTerms) == 0 || len(out.SharedTerms) > 3 {
		t.Errorf("response = %+v", out)
	}

	if w := do(t, h, http.MethodGet, "/api/v1/explain?a=Inception", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing b: got %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/api/v1/explain?a=Inception&b=Nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown b: got %d", w.Code)
	}
}

func TestSimilarPairs(t *testing.T) {
	_, h := newTestServer(t, true)
	w := do(t, h, http.MethodGet, "/api/v1/pairs?k=3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out models.PairList
	decode(t, w, &out)
	if out.Total != 3 || len(out.Pairs) != 3 {
		t.Fatalf("pairs = %+v", out)
	}
	for i, p := range out.Pairs {
		if p.Rank != i+1 || p.A == p.B {
			t.Errorf("pair %d = %+v", i, p)
		}
		if i > 0 && out.Pairs[i-1].Similarity < p.Similarity {
			t.Errorf("pairs not sorted: %+v", out.Pairs)
		}
	}

	w = do(t, h, http.MethodGet, "/api/v1/pairs", nil)
	decode(t, w, &out)
	if len(out.Pairs) != 5 {
		t.Errorf("default k: got %d pairs, want 5", len(out.Pairs))
	}
	if w := do(t, h, http.MethodGet, "/api/v1/pairs?k=abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad k: got %d", w.Code)
	}
}

func TestMovieDetails(t *testing.T) {
	_, h := newTestServer(t, true)
	w := do(t, h, http.MethodGet, "/api/v1/movies/The%20Dark%20Knight", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var m models.Movie
	decode(t, w, &m)
	if m.Title != "The Dark Knight" || m.Year != 2008 {
		t.Errorf("movie = %+v", m)
	}
	if w := do(t, h, http.MethodGet, "/api/v1/movies/the%20dark%20knight", nil); w.Code != http.StatusNotFound {
		t.Errorf("titles are case sensitive: got %d", w.Code)
	}
}

func TestListMovies(t *testing.T) {
	_, h := newTestServer(t, true)
	tests := []struct {
		target string
		want   int
	}{
		{"/api/v1/movies", 12},
		{"/api/v1/movies?genre=drama", 6},
		{"/api/v1/movies?from=2000&to=2010", 3},
		{"/api/v1/movies?from=2010", 5},
		{"/api/v1/movies?genre=drama&min_rating=9", 2},
	}
	for _, tt := range tests {
		w := do(t, h, http.MethodGet, tt.target, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tt.target, w.Code)
		}
		var out models.MovieList
		decode(t, w, &out)
		if out.Total != tt.want || len(out.Movies) != tt.want {
			t.Errorf("%s: got %d movies, want %d", tt.target, out.Total, tt.want)
		}
	}

	for _, target := range []string{"/api/v1/movies?from=abc", "/api/v1/movies?from=1200&to=1300", "/api/v1/movies?min_rating=x"} {
		if w := do(t, h, http.MethodGet, target, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d", target, w.Code)
		}
	}
}

func TestTopRated(t *testing.T) {
	_, h := newTestServer(t, true)
	w := do(t, h, http.MethodGet, "/api/v1/top?top_n=2", nil)
	var out models.MovieList
	decode(t, w, &out)
	if len(out.Movies) != 2 || out.Movies[0].Title != "The Shawshank Redemption" || out.Movies[1].Title != "The Dark Knight" {
		t.Errorf("top = %+v", out.Movies)
	}
}

func TestSearch(t *testing.T) {
	_, h := newTestServer(t, true)
	w := do(t, h, http.MethodGet, "/api/v1/search?q=heist", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out models.SearchResponse
	decode(t, w, &out)
	if out.Total != 1 || out.Hits[0].Movie.Title != "Inception" {
		t.Errorf("search = %+v", out)
	}

	w = do(t, h, http.MethodGet, "/api/v1/search?q=gotam", nil)
	out = models.SearchResponse{}
	decode(t, w, &out)
	if !out.Fuzzy || out.Total == 0 || out.Hits[0].Movie.Title != "The Dark Knight" {
		t.Errorf("fuzzy fallback = %+v", out)
	}
	if out.DidYouMean != "gotham" {
		t.Errorf("did_you_mean = %q", out.DidYouMean)
	}

	if w := do(t, h, http.MethodGet, "/api/v1/search", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing q: got %d", w.Code)
	}
}

func TestStatsAndStatus(t *testing.T) {
	_, h := newTestServer(t, true)
	w := do(t, h, http.MethodGet, "/api/v1/stats", nil)
	var stats models.CatalogStats
	decode(t, w, &stats)
	if stats.TotalMovies != 12 || stats.VocabularySize == 0 {
		t.Errorf("stats = %+v", stats)
	}

	w = do(t, h, http.MethodGet, "/api/v1/status", nil)
	var st models.IndexStatus
	decode(t, w, &st)
	if !st.Ready || st.Source != catalog.BuiltinSource || st.TotalMovies != 12 || !st.Similarity {
		t.Errorf("status = %+v", st)
	}
}

func TestRebuild(t *testing.T) {
	_, h := newTestServer(t, true)
	w := do(t, h, http.MethodPost, "/api/v1/admin/rebuild", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out struct {
		Changed bool               `json:"changed"`
		Status  models.IndexStatus `json:"status"`
	}
	decode(t, w, &out)
	if out.Changed {
		t.Error("rebuilding an unchanged catalog should report changed=false")
	}
	if out.Status.Rebuilds < 1 {
		t.Errorf("rebuilds = %d", out.Status.Rebuilds)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newTestServer(t, true)
	do(t, h, http.MethodGet, "/api/v1/stats", nil)
	w := do(t, h, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "niteru_api_requests_total") {
		t.Errorf("metrics output missing request counter")
	}
}

func TestRateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Server.RateLimit = 2
	idx := indexer.NewIndexer(catalog.BuiltinSource, indexer.WithLogger(zap.NewNop()))
	h := NewServer(idx, cfg, zap.NewNop()).Router()
	var last int
	for i := 0; i < 3; i++ {
		last = do(t, h, http.MethodGet, "/api/v1/status", nil).Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request: got %d, want 429", last)
	}
}
