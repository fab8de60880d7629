// Package keyword provides full-text catalog search over titles, descriptions, and genres.
package keyword

// SearchOptions optional parameters for keyword search. Nil means use defaults.
type SearchOptions struct {
	// TitleBoost multiplies the score contribution from matches in the title field.
	// Values > 1 make title matches rank higher (e.g. 3.0). Use 1.0 for no boost.
	TitleBoost float64
	// FuzzyEnabled enables fuzzy matching for typo tolerance.
	FuzzyEnabled bool
	// Fuzziness is the maximum Levenshtein edit distance for fuzzy matching (1 or 2).
	// Default is 1 when FuzzyEnabled is true.
	Fuzziness int
	// Highlight returns matched title and description fragments with terms wrapped in <mark>.
	Highlight bool
}

// Result is a single keyword search hit. ID is the movie's corpus index.
type Result struct {
	ID    int
	Score float64
	// Fragments maps field name to highlighted snippets when highlighting was requested.
	Fragments map[string][]string
}

// TermDictionary provides access to the term dictionary for spell checking.
type TermDictionary interface {
	// GetAllTerms returns all unique terms in the index.
	GetAllTerms() ([]string, error)
	// GetTermFrequency returns the document frequency for a term.
	GetTermFrequency(term string) (int, error)
}
