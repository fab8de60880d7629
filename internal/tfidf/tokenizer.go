package tfidf

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
)

// englishStopWords is bleve's Snowball English stop list, loaded once.
var englishStopWords = mustLoadStopWords(en.EnglishStopWords)

func mustLoadStopWords(data []byte) analysis.TokenMap {
	tm := analysis.NewTokenMap()
	if err := tm.LoadBytes(data); err != nil {
		panic(fmt.Sprintf("tfidf: load stop words: %v", err))
	}
	return tm
}

// IsStopWord reports whether word is on the English stop list. word must be lower-case.
func IsStopWord(word string) bool {
	return englishStopWords[word]
}

// Tokenizer turns text into the terms the model counts.
type Tokenizer struct {
	minLen   int
	ngramMax int
}

// NewTokenizer returns a tokenizer for opts. Zero fields fall back to DefaultOptions.
func NewTokenizer(opts Options) *Tokenizer {
	opts = opts.withDefaults()
	return &Tokenizer{minLen: opts.MinTokenLength, ngramMax: opts.NGramMax}
}

// Words lower-cases text, splits it on anything that is not a letter or digit,
// and drops short tokens and stop words.
func (t *Tokenizer) Words(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < t.minLen || IsStopWord(f) {
			continue
		}
		words = append(words, f)
	}
	return words
}

// Terms returns every n-gram of the filtered words for n in [1, NGramMax].
// N-grams span the words that remain after stop-word removal and are joined by one space.
func (t *Tokenizer) Terms(text string) []string {
	return ngrams(t.Words(text), t.ngramMax)
}

func ngrams(words []string, max int) []string {
	if len(words) == 0 {
		return nil
	}
	terms := make([]string, 0, len(words)*max)
	terms = append(terms, words...)
	for n := 2; n <= max; n++ {
		for i := 0; i+n <= len(words); i++ {
			terms = append(terms, strings.Join(words[i:i+n], " "))
		}
	}
	return terms
}
