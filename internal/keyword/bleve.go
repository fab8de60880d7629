package keyword

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/niteru/internal/models"
)

const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldGenres      = "genres"

	defaultFuzziness  = 1
	defaultTitleBoost = 2.0
)

var searchFields = []string{fieldTitle, fieldDescription, fieldGenres}

type movieDoc struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Genres      string `json:"genres"`
}

// BleveIndex is an in-memory Bleve index over one catalog. It is built once and only read afterwards.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex indexes movies in memory, keyed by movie ID.
func NewBleveIndex(movies []models.Movie) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer (lowercase, stop words, no stemming) so "heist" matches only "heist".
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	for _, f := range searchFields {
		docMapping.AddFieldMappingsAt(f, textFieldMapping)
	}
	im.AddDocumentMapping("movie", docMapping)
	im.DefaultType = "movie"
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	batch := index.NewBatch()
	for _, m := range movies {
		doc := movieDoc{
			Title:       m.Title,
			Description: strings.ReplaceAll(m.Description, "-", " "),
			Genres:      strings.Join(m.Genres, " "),
		}
		if err := batch.Index(strconv.Itoa(m.ID), doc); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index %q: %w", m.Title, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to index catalog: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Search matches query against title, description, and genres and returns up to limit hits,
// best first. Title matches are weighted by opts.TitleBoost.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]Result, error) {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return []Result{}, nil
	}
	titleBoost := defaultTitleBoost
	fuzzyEnabled := false
	highlight := false
	fuzziness := defaultFuzziness
	if opts != nil {
		highlight = opts.Highlight
		if opts.TitleBoost > 0 {
			titleBoost = opts.TitleBoost
		}
		fuzzyEnabled = opts.FuzzyEnabled
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
	}

	fieldQueries := make([]blevequery.Query, 0, len(searchFields))
	for _, field := range searchFields {
		boost := 1.0
		if field == fieldTitle {
			boost = titleBoost
		}
		if fuzzyEnabled {
			fieldQueries = append(fieldQueries, b.buildFuzzyQuery(query, fuzziness, field, boost))
			continue
		}
		mq := bleve.NewMatchQuery(query)
		mq.SetField(field)
		mq.SetBoost(boost)
		fieldQueries = append(fieldQueries, mq)
	}

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(fieldQueries...))
	req.Size = limit
	if highlight {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.Fields = []string{fieldTitle, fieldDescription}
	}
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]Result, 0, len(results.Hits))
	for _, hit := range results.Hits {
		id, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		r := Result{ID: id, Score: hit.Score}
		if highlight && len(hit.Fragments) > 0 {
			r.Fragments = hit.Fragments
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// tokenizeQuery splits query into lowercase terms, filtering out empty strings.
func tokenizeQuery(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '-' || r == ',' || r == '.'
	})
}

// buildFuzzyQuery creates a disjunction of FuzzyQueries, one per query term, on field.
func (b *BleveIndex) buildFuzzyQuery(queryStr string, fuzziness int, field string, boost float64) blevequery.Query {
	terms := tokenizeQuery(queryStr)
	if len(terms) == 0 {
		mq := bleve.NewMatchQuery(queryStr)
		mq.SetField(field)
		mq.SetBoost(boost)
		return mq
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField(field)
		fq.SetBoost(boost)
		queries = append(queries, fq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of documents in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// GetTermFrequency returns the number of movies containing term in any searched field.
func (b *BleveIndex) GetTermFrequency(term string) (int, error) {
	q := bleve.NewMatchQuery(term)
	req := bleve.NewSearchRequest(q)
	req.Size = 0
	results, err := b.index.Search(req)
	if err != nil {
		return 0, fmt.Errorf("failed to search for term frequency: %w", err)
	}
	return int(results.Total), nil
}

// GetAllTerms returns all unique terms from the title, description, and genre dictionaries.
func (b *BleveIndex) GetAllTerms() ([]string, error) {
	terms := make([]string, 0)
	seen := make(map[string]struct{})
	for _, field := range searchFields {
		dict, err := b.index.FieldDict(field)
		if err != nil {
			return nil, fmt.Errorf("field dictionary %s: %w", field, err)
		}
		terms, err = appendTerms(terms, seen, func() (string, bool, error) {
			entry, err := dict.Next()
			if err != nil || entry == nil {
				return "", false, err
			}
			return entry.Term, true, nil
		})
		_ = dict.Close()
		if err != nil {
			return nil, fmt.Errorf("read field dictionary %s: %w", field, err)
		}
	}
	sort.Strings(terms)
	return terms, nil
}

// appendTerms drains a dictionary iterator into terms, skipping terms already seen.
func appendTerms(terms []string, seen map[string]struct{}, next func() (string, bool, error)) ([]string, error) {
	for {
		term, ok, err := next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return terms, nil
		}
		if _, dup := seen[term]; !dup {
			terms = append(terms, term)
			seen[term] = struct{}{}
		}
	}
}
