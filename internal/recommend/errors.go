package recommend

import (
	"fmt"

	"github.com/hyperjump/niteru/internal/tfidf"
)

// ErrSimilarityUnavailable is returned by similarity queries on an engine built with
// AllowEmptyVocabulary from descriptions that produced no terms.
var ErrSimilarityUnavailable = fmt.Errorf("similarity unavailable: %w", tfidf.ErrEmptyVocabulary)

// GenreNotFoundError is returned when no movie carries a genre tag matching the query.
type GenreNotFoundError struct {
	Genre string
}

func (e *GenreNotFoundError) Error() string {
	return fmt.Sprintf("no movies found in genre: %s", e.Genre)
}

// NoSignalError is returned when free text shares no terms with the vocabulary.
type NoSignalError struct {
	Text string
}

func (e *NoSignalError) Error() string {
	return fmt.Sprintf("text has no terms in the vocabulary: %q", e.Text)
}
