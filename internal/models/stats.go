package models

import "time"

// GenreCount is the number of movies tagged with one genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// DecadeCount is the number of movies released in one decade (1990 covers 1990-1999).
type DecadeCount struct {
	Decade int `json:"decade"`
	Count  int `json:"count"`
}

// CatalogStats summarizes the loaded catalog.
type CatalogStats struct {
	TotalMovies    int           `json:"total_movies"`
	YearMin        int           `json:"year_min"`
	YearMax        int           `json:"year_max"`
	AverageRating  float64       `json:"average_rating"`
	RatingMin      float64       `json:"rating_min"`
	RatingMax      float64       `json:"rating_max"`
	Genres         []GenreCount  `json:"genres"`
	Decades        []DecadeCount `json:"decades"`
	TopRated       []Movie       `json:"top_rated"`
	VocabularySize int           `json:"vocabulary_size"`
}

// SearchHit is a catalog full-text search match.
type SearchHit struct {
	Rank  int     `json:"rank"`
	Score float64 `json:"score"`
	Movie Movie   `json:"movie"`
	// Highlights maps field name to matched fragments, terms wrapped in <mark>.
	Highlights map[string][]string `json:"highlights,omitempty"`
}

// SearchResponse is the response for a catalog search request.
type SearchResponse struct {
	Query     string      `json:"query"`
	Hits      []SearchHit `json:"hits"`
	Total     int         `json:"total"`
	QueryTime int64       `json:"query_time_ms"`
	// Fuzzy is true when the hits came from fuzzy matching.
	Fuzzy bool `json:"fuzzy,omitempty"`
	// DidYouMean is a spelling-corrected query when some terms are not in the catalog.
	DidYouMean string `json:"did_you_mean,omitempty"`
}

// IndexStatus describes the active catalog snapshot and the last rebuild attempt.
type IndexStatus struct {
	Ready          bool      `json:"ready"`
	SnapshotID     string    `json:"snapshot_id,omitempty"`
	Source         string    `json:"source"`
	SourceBytes    int64     `json:"source_bytes,omitempty"`
	Fingerprint    string    `json:"fingerprint,omitempty"`
	BuiltAt        time.Time `json:"built_at,omitempty"`
	BuildTimeMS    int64     `json:"build_time_ms"`
	TotalMovies    int       `json:"total_movies"`
	VocabularySize int       `json:"vocabulary_size"`
	Similarity     bool      `json:"similarity_enabled"`
	NGramMax       int       `json:"ngram_max,omitempty"`
	SublinearTF    bool      `json:"sublinear_tf"`
	Rebuilds       int64     `json:"rebuilds"`
	LastAttempt    time.Time `json:"last_attempt,omitempty"`
	LastError      string    `json:"last_error,omitempty"`
}
