// Package models defines core data structures for movies, recommendations, and catalog statistics.
package models

import "strings"

// Movie is one catalog entry. ID is the dense 0-based position assigned when the corpus is loaded.
type Movie struct {
	ID          int      `json:"id" yaml:"-" db:"id"`
	Title       string   `json:"title" yaml:"title" db:"title"`
	Description string   `json:"description" yaml:"description" db:"description"`
	Genres      []string `json:"genres" yaml:"genres" db:"genres"`
	Year        int      `json:"year" yaml:"year" db:"year"`
	Rating      float64  `json:"rating" yaml:"rating" db:"rating"`
}

// GenreString joins the genre tags the way the catalog files write them ("Sci-Fi, Action").
func (m Movie) GenreString() string {
	return strings.Join(m.Genres, ", ")
}

// Recommendation is a single ranked neighbour of a seed movie.
type Recommendation struct {
	Rank        int      `json:"rank"`
	Title       string   `json:"title"`
	Genres      []string `json:"genres"`
	Year        int      `json:"year"`
	Rating      float64  `json:"rating"`
	Description string   `json:"description,omitempty"`
	Similarity  float64  `json:"similarity_score"`
}

// RecommendResponse is the response for a recommendation request.
type RecommendResponse struct {
	InputMovie      string           `json:"input_movie"`
	Recommendations []Recommendation `json:"recommendations"`
	QueryTime       int64            `json:"query_time_ms"`
}

// MovieList is a list response for listing, filtering, and top-rated queries.
type MovieList struct {
	Movies []Movie `json:"movies"`
	Total  int     `json:"total"`
}

// SharedTerm is a vocabulary term two movies both use, weighted by its contribution to their similarity.
type SharedTerm struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// ExplainResponse explains the similarity score between two movies.
type ExplainResponse struct {
	A           string       `json:"a"`
	B           string       `json:"b"`
	Similarity  float64      `json:"similarity_score"`
	SharedTerms []SharedTerm `json:"shared_terms"`
}

// SimilarPair is two distinct movies and their similarity score.
type SimilarPair struct {
	Rank       int     `json:"rank"`
	A          string  `json:"a"`
	B          string  `json:"b"`
	Similarity float64 `json:"similarity_score"`
}

// PairList is a ranked list of the most similar movie pairs in the catalog.
type PairList struct {
	Pairs []SimilarPair `json:"pairs"`
	Total int           `json:"total"`
}
