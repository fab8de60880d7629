package models

import "strings"

// RecommendRequest asks for the nearest neighbours of a title.
type RecommendRequest struct {
	Title string `json:"title" validate:"required,notblank,max=200"`
	TopN  int    `json:"top_n,omitempty" validate:"gte=0,lte=1000"`
}

// Normalize trims the title and clamps TopN to (0, maxTopN], using defaultTopN when unset.
func (q *RecommendRequest) Normalize(defaultTopN, maxTopN int) {
	q.Title = strings.TrimSpace(q.Title)
	q.TopN = clampTopN(q.TopN, defaultTopN, maxTopN)
}

// TextRequest asks for the catalog entries most similar to free text.
type TextRequest struct {
	Text string `json:"text" validate:"required,notblank,max=2000"`
	TopN int    `json:"top_n,omitempty" validate:"gte=0,lte=1000"`
}

// Normalize trims the text and clamps TopN like RecommendRequest.Normalize.
func (q *TextRequest) Normalize(defaultTopN, maxTopN int) {
	q.Text = strings.TrimSpace(q.Text)
	q.TopN = clampTopN(q.TopN, defaultTopN, maxTopN)
}

// SearchRequest is a catalog full-text search.
type SearchRequest struct {
	Query string `json:"query" validate:"required,notblank,max=500"`
	Limit int    `json:"limit,omitempty" validate:"gte=0,lte=1000"`
	Fuzzy bool   `json:"fuzzy,omitempty"`
	// Highlight asks for matched fragments on each hit.
	Highlight bool `json:"highlight,omitempty"`
}

// YearRange selects movies released between From and To inclusive.
type YearRange struct {
	From int `json:"from" validate:"gte=1800,lte=3000"`
	To   int `json:"to" validate:"gte=1800,lte=3000"`
}

func clampTopN(n, def, max int) int {
	if n <= 0 {
		n = def
	}
	if max > 0 && n > max {
		n = max
	}
	return n
}
