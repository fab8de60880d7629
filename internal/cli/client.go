package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hyperjump/niteru/internal/models"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode  int
	Code        string   `json:"code"`
	Message     string   `json:"error"`
	Suggestions []string `json:"suggestions"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if len(e.Suggestions) > 0 {
		msg += " (did you mean: " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, msg)
}

// Client talks to a running niteru server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the server at baseURL. A nil httpClient uses a 30s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		b, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(b, apiErr) != nil {
			apiErr.Message = strings.TrimSpace(string(b))
		}
		return apiErr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body interface{}) (*T, error) {
	var out T
	if err := c.do(ctx, method, path, query, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func topNQuery(topN int) url.Values {
	q := url.Values{}
	if topN > 0 {
		q.Set("top_n", strconv.Itoa(topN))
	}
	return q
}

// Recommend returns the movies most similar to title.
func (c *Client) Recommend(ctx context.Context, title string, topN int) (*models.RecommendResponse, error) {
	return call[models.RecommendResponse](ctx, c, http.MethodPost, "/api/v1/recommend", nil, models.RecommendRequest{Title: title, TopN: topN})
}

// RecommendGenre seeds a recommendation with the first movie of genre.
func (c *Client) RecommendGenre(ctx context.Context, genre string, topN int) (*models.RecommendResponse, error) {
	return call[models.RecommendResponse](ctx, c, http.MethodGet, "/api/v1/recommend/genre/"+url.PathEscape(genre), topNQuery(topN), nil)
}

// RecommendRandom seeds a recommendation with a random movie.
func (c *Client) RecommendRandom(ctx context.Context, topN int) (*models.RecommendResponse, error) {
	return call[models.RecommendResponse](ctx, c, http.MethodGet, "/api/v1/recommend/random", topNQuery(topN), nil)
}

// SimilarText returns the movies closest to free text.
func (c *Client) SimilarText(ctx context.Context, text string, topN int) (*models.RecommendResponse, error) {
	return call[models.RecommendResponse](ctx, c, http.MethodPost, "/api/v1/similar-text", nil, models.TextRequest{Text: text, TopN: topN})
}

// Explain returns the similarity of a and b with up to k shared terms.
func (c *Client) Explain(ctx context.Context, a, b string, k int) (*models.ExplainResponse, error) {
	q := url.Values{"a": {a}, "b": {b}}
	if k > 0 {
		q.Set("k", strconv.Itoa(k))
	}
	return call[models.ExplainResponse](ctx, c, http.MethodGet, "/api/v1/explain", q, nil)
}

// SimilarPairs returns the k most similar pairs of distinct movies.
func (c *Client) SimilarPairs(ctx context.Context, k int) (*models.PairList, error) {
	var q url.Values
	if k > 0 {
		q = url.Values{"k": {strconv.Itoa(k)}}
	}
	return call[models.PairList](ctx, c, http.MethodGet, "/api/v1/pairs", q, nil)
}

// Movie returns one catalog entry by exact title.
func (c *Client) Movie(ctx context.Context, title string) (*models.Movie, error) {
	return call[models.Movie](ctx, c, http.MethodGet, "/api/v1/movies/"+url.PathEscape(title), nil, nil)
}

// Movies lists catalog entries matching f.
func (c *Client) Movies(ctx context.Context, f MovieFilter) (*models.MovieList, error) {
	q := url.Values{}
	if f.Genre != "" {
		q.Set("genre", f.Genre)
	}
	if f.From != 0 {
		q.Set("from", strconv.Itoa(f.From))
	}
	if f.To != 0 {
		q.Set("to", strconv.Itoa(f.To))
	}
	if f.MinRating > 0 {
		q.Set("min_rating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	return call[models.MovieList](ctx, c, http.MethodGet, "/api/v1/movies", q, nil)
}

// TopRated returns the highest rated movies.
func (c *Client) TopRated(ctx context.Context, topN int) (*models.MovieList, error) {
	return call[models.MovieList](ctx, c, http.MethodGet, "/api/v1/top", topNQuery(topN), nil)
}

// Search runs a catalog full-text search.
func (c *Client) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	q := url.Values{"q": {req.Query}}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Fuzzy {
		q.Set("fuzzy", "true")
	}
	if req.Highlight {
		q.Set("highlight", "true")
	}
	return call[models.SearchResponse](ctx, c, http.MethodGet, "/api/v1/search", q, nil)
}

// Stats summarizes the catalog.
func (c *Client) Stats(ctx context.Context) (*models.CatalogStats, error) {
	return call[models.CatalogStats](ctx, c, http.MethodGet, "/api/v1/stats", nil, nil)
}

// Status reports the server's active snapshot.
func (c *Client) Status(ctx context.Context) (*models.IndexStatus, error) {
	return call[models.IndexStatus](ctx, c, http.MethodGet, "/api/v1/status", nil, nil)
}

// RebuildResult is the server's answer to a rebuild request.
type RebuildResult struct {
	Changed bool               `json:"changed"`
	Status  models.IndexStatus `json:"status"`
}

// Rebuild asks the server to reload its catalog.
func (c *Client) Rebuild(ctx context.Context) (*RebuildResult, error) {
	return call[RebuildResult](ctx, c, http.MethodPost, "/api/v1/admin/rebuild", nil, nil)
}
