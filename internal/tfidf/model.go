// Package tfidf provides the TF-IDF term weighting model used to vectorize movie descriptions.
package tfidf

import (
	"errors"
	"math"
	"sort"

	"github.com/hyperjump/niteru/internal/vector"
)

// ErrEmptyVocabulary is returned when fitting produces no terms, either because the
// corpus is empty or every token was filtered out.
var ErrEmptyVocabulary = errors.New("empty vocabulary: descriptions contain only stop words or no terms")

// Options configures tokenization and weighting.
type Options struct {
	// NGramMax is the largest n-gram length counted (1 = unigrams only). Zero means 2.
	NGramMax int `json:"ngram_max"`
	// MaxFeatures caps the vocabulary at the most frequent terms across the corpus. Zero means unlimited.
	MaxFeatures int `json:"max_features"`
	// MinTokenLength drops shorter tokens before n-grams are formed. Zero means 2.
	MinTokenLength int `json:"min_token_length"`
	// SublinearTF replaces a raw count tf with 1 + ln(tf).
	SublinearTF bool `json:"sublinear_tf"`
}

// DefaultOptions returns unigrams and bigrams, a 5000-term cap, two-character tokens, and raw counts.
func DefaultOptions() Options {
	return Options{NGramMax: 2, MaxFeatures: 5000, MinTokenLength: 2}
}

func (o Options) withDefaults() Options {
	if o.NGramMax <= 0 {
		o.NGramMax = 2
	}
	if o.MinTokenLength <= 0 {
		o.MinTokenLength = 2
	}
	if o.MaxFeatures < 0 {
		o.MaxFeatures = 0
	}
	return o
}

// Model is a fitted TF-IDF space: the vocabulary, its idf weights, and one
// L2-normalized row per fitted document. A Model is read-only after Fit.
type Model struct {
	opts    Options
	tok     *Tokenizer
	terms   []string
	columns map[string]int
	idf     []float64
	rows    []vector.SparseVector
}

// TermWeight is a term with its weight in some row or pair.
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Fit builds the vocabulary from docs and vectorizes every document.
func Fit(docs []string, opts Options) (*Model, error) {
	opts = opts.withDefaults()
	if len(docs) == 0 {
		return nil, ErrEmptyVocabulary
	}
	tok := NewTokenizer(opts)

	counts := make([]map[string]int, len(docs))
	total := make(map[string]int)
	df := make(map[string]int)
	for i, doc := range docs {
		c := make(map[string]int)
		for _, term := range tok.Terms(doc) {
			c[term]++
		}
		for term, n := range c {
			total[term] += n
			df[term]++
		}
		counts[i] = c
	}
	if len(total) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := selectFeatures(total, opts.MaxFeatures)
	m := &Model{
		opts:    opts,
		tok:     tok,
		terms:   terms,
		columns: make(map[string]int, len(terms)),
		idf:     make([]float64, len(terms)),
		rows:    make([]vector.SparseVector, len(docs)),
	}
	n := float64(len(docs))
	for col, term := range terms {
		m.columns[term] = col
		m.idf[col] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	for i, c := range counts {
		m.rows[i] = m.weigh(c)
	}
	return m, nil
}

// selectFeatures keeps the max most frequent terms (ties by ascending term) and
// returns them in ascending lexical order, which is also column order.
func selectFeatures(total map[string]int, max int) []string {
	terms := make([]string, 0, len(total))
	for term := range total {
		terms = append(terms, term)
	}
	if max > 0 && len(terms) > max {
		sort.Slice(terms, func(i, j int) bool {
			if total[terms[i]] != total[terms[j]] {
				return total[terms[i]] > total[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:max]
	}
	sort.Strings(terms)
	return terms
}

// weigh turns term counts into a normalized sparse row. Terms outside the vocabulary are ignored.
func (m *Model) weigh(counts map[string]int) vector.SparseVector {
	var row vector.SparseVector
	for term, tf := range counts {
		col, ok := m.columns[term]
		if !ok {
			continue
		}
		row.Indices = append(row.Indices, col)
		row.Values = append(row.Values, m.tf(tf)*m.idf[col])
	}
	sort.Sort(byColumn(row))
	vector.NormalizeL2(row)
	return row
}

func (m *Model) tf(count int) float64 {
	if m.opts.SublinearTF {
		return 1 + math.Log(float64(count))
	}
	return float64(count)
}

// Transform projects text into the fitted space. The result is all-zero when text shares no terms with the vocabulary.
func (m *Model) Transform(text string) vector.SparseVector {
	counts := make(map[string]int)
	for _, term := range m.tok.Terms(text) {
		counts[term]++
	}
	return m.weigh(counts)
}

// Options returns the options the model was fitted with, defaults applied.
func (m *Model) Options() Options {
	return m.opts
}

// Len returns the number of fitted documents.
func (m *Model) Len() int {
	return len(m.rows)
}

// VocabularySize returns the number of columns.
func (m *Model) VocabularySize() int {
	return len(m.terms)
}

// Vocabulary returns the terms in column order.
func (m *Model) Vocabulary() []string {
	return append([]string(nil), m.terms...)
}

// Column returns the column of term.
func (m *Model) Column(term string) (int, bool) {
	col, ok := m.columns[term]
	return col, ok
}

// IDF returns the inverse document frequency of column col.
func (m *Model) IDF(col int) float64 {
	return m.idf[col]
}

// Row returns the weighted row of document i. Callers must not modify it.
func (m *Model) Row(i int) vector.SparseVector {
	return m.rows[i]
}

// Rows returns every row in document order. Callers must not modify them.
func (m *Model) Rows() []vector.SparseVector {
	return m.rows
}

// TopTerms returns up to k of the heaviest terms of row i, heaviest first.
func (m *Model) TopTerms(i, k int) []TermWeight {
	row := m.rows[i]
	out := make([]TermWeight, 0, row.NNZ())
	for j, col := range row.Indices {
		out = append(out, TermWeight{Term: m.terms[col], Weight: row.Values[j]})
	}
	return topWeights(out, k)
}

// SharedTerms returns up to k terms present in both rows i and j, ordered by their
// contribution to the pair's similarity.
func (m *Model) SharedTerms(i, j, k int) []TermWeight {
	a, b := m.rows[i], m.rows[j]
	var out []TermWeight
	for x, col := range a.Indices {
		if w := b.Get(col); w != 0 {
			out = append(out, TermWeight{Term: m.terms[col], Weight: a.Values[x] * w})
		}
	}
	return topWeights(out, k)
}

func topWeights(ws []TermWeight, k int) []TermWeight {
	sort.Slice(ws, func(x, y int) bool {
		if ws[x].Weight != ws[y].Weight {
			return ws[x].Weight > ws[y].Weight
		}
		return ws[x].Term < ws[y].Term
	})
	if k >= 0 && len(ws) > k {
		ws = ws[:k]
	}
	return ws
}

type byColumn vector.SparseVector

func (r byColumn) Len() int           { return len(r.Indices) }
func (r byColumn) Less(i, j int) bool { return r.Indices[i] < r.Indices[j] }
func (r byColumn) Swap(i, j int) {
	r.Indices[i], r.Indices[j] = r.Indices[j], r.Indices[i]
	r.Values[i], r.Values[j] = r.Values[j], r.Values[i]
}
