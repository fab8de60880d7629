package corpus

import (
	"errors"
	"fmt"
)

// ErrEmptyCorpus is returned when a corpus is loaded from zero items.
var ErrEmptyCorpus = errors.New("corpus is empty")

// DuplicateTitleError is returned when two items share a title.
type DuplicateTitleError struct {
	Title     string
	First     int
	Duplicate int
}

func (e *DuplicateTitleError) Error() string {
	return fmt.Sprintf("duplicate title %q at index %d (first seen at %d)", e.Title, e.Duplicate, e.First)
}

// InvalidItemError is returned for an item that cannot be indexed, such as one with a blank title.
type InvalidItemError struct {
	Index  int
	Reason string
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("invalid item at index %d: %s", e.Index, e.Reason)
}

// ItemNotFoundError is returned when a title lookup has no exact match.
// Suggestions may be filled in by callers that can rank near matches.
type ItemNotFoundError struct {
	Title       string
	Suggestions []string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("movie not found: %s", e.Title)
}

// IndexOutOfRangeError is returned by Get for an id outside [0, Len).
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

// IsNotFound reports whether err is, or wraps, an *ItemNotFoundError.
func IsNotFound(err error) bool {
	var nf *ItemNotFoundError
	return errors.As(err, &nf)
}
