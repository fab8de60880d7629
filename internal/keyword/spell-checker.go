package keyword

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/niteru/internal/tfidf"
)

// Suggestion is a catalog term close to a query word.
type Suggestion struct {
	Term      string
	Distance  int
	Frequency int
}

// TermChange records one corrected query word.
type TermChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Correction is a query with unknown words replaced by their nearest catalog terms.
type Correction struct {
	Query     string
	Corrected string
	Changes   []TermChange
}

// Changed reports whether any word was replaced.
func (c Correction) Changed() bool {
	return len(c.Changes) > 0
}

// SpellChecker corrects query words against the terms of one catalog index.
// The dictionary is loaded once; a checker is read-only and safe for concurrent use.
type SpellChecker struct {
	maxDistance    int
	minFreq        int
	maxSuggestions int

	freq  map[string]int
	byLen map[int][]string
}

// SpellCheckerOption is a functional option for configuring SpellChecker.
type SpellCheckerOption func(*SpellChecker)

// WithMaxDistance sets the maximum edit distance for suggestions.
func WithMaxDistance(d int) SpellCheckerOption {
	return func(s *SpellChecker) {
		if d > 0 {
			s.maxDistance = d
		}
	}
}

// WithMinFrequency drops dictionary terms found in fewer movies.
func WithMinFrequency(f int) SpellCheckerOption {
	return func(s *SpellChecker) {
		if f >= 0 {
			s.minFreq = f
		}
	}
}

// WithMaxSuggestions sets the maximum number of suggestions returned per word.
func WithMaxSuggestions(n int) SpellCheckerOption {
	return func(s *SpellChecker) {
		if n > 0 {
			s.maxSuggestions = n
		}
	}
}

// NewSpellChecker loads every term of dict with its movie frequency.
func NewSpellChecker(dict TermDictionary, opts ...SpellCheckerOption) (*SpellChecker, error) {
	s := &SpellChecker{
		maxDistance:    2,
		minFreq:        1,
		maxSuggestions: 5,
		freq:           make(map[string]int),
		byLen:          make(map[int][]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	terms, err := dict.GetAllTerms()
	if err != nil {
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}
	// Terms differing only in case share one entry.
	for _, term := range terms {
		n, err := dict.GetTermFrequency(term)
		if err != nil {
			return nil, fmt.Errorf("failed to read frequency of %q: %w", term, err)
		}
		lower := strings.ToLower(term)
		if _, seen := s.freq[lower]; seen {
			s.freq[lower] += n
			continue
		}
		s.freq[lower] = n
		l := utf8.RuneCountInString(lower)
		s.byLen[l] = append(s.byLen[l], lower)
	}
	return s, nil
}

// Len returns the number of dictionary terms.
func (s *SpellChecker) Len() int {
	return len(s.freq)
}

// Suggest returns dictionary terms within the maximum edit distance of word, nearest
// first, then most frequent.
func (s *SpellChecker) Suggest(word string) []Suggestion {
	word = strings.ToLower(word)
	n := utf8.RuneCountInString(word)

	// A term whose length differs by more than maxDistance cannot be within reach.
	var out []Suggestion
	for l := n - s.maxDistance; l <= n+s.maxDistance; l++ {
		for _, term := range s.byLen[l] {
			// skip the word itself and rare terms
			if term == word || s.freq[term] < s.minFreq {
				continue
			}
			d := DamerauLevenshteinDistance(word, term)
			if d > s.maxDistance {
				continue
			}
			out = append(out, Suggestion{Term: term, Distance: d, Frequency: s.freq[term]})
		}
	}
	// nearest, then most frequent, then alphabetical
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Term < out[j].Term
	})
	if len(out) > s.maxSuggestions {
		out = out[:s.maxSuggestions]
	}
	return out
}

// Correct replaces each unknown query word with its best suggestion. Stop words and
// words shorter than three characters are left alone.
func (s *SpellChecker) Correct(query string) Correction {
	c := Correction{Query: query}
	words := tokenizeQuery(query)
	for i, w := range words {
		if !s.unknown(w) {
			continue
		}
		// Words with no suggestion are kept as typed.
		if best := s.Suggest(w); len(best) > 0 {
			c.Changes = append(c.Changes, TermChange{From: w, To: best[0].Term})
			words[i] = best[0].Term
		}
	}
	c.Corrected = strings.Join(words, " ")
	return c
}

// DidYouMean returns the corrected query, or "" when every word is known.
func (s *SpellChecker) DidYouMean(query string) string {
	if c := s.Correct(query); c.Changed() {
		return c.Corrected
	}
	return ""
}

func (s *SpellChecker) unknown(word string) bool {
	// Stop words and short words are never corrected.
	if utf8.RuneCountInString(word) < 3 || tfidf.IsStopWord(word) {
		return false
	}
	_, ok := s.freq[word]
	return !ok
}
