// Package cli provides the query backends and output writers behind the niteru command.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hyperjump/niteru/internal/models"
	"github.com/hyperjump/niteru/pkg/utils"
)

// OutputFormat selects how results are printed.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact prints one result per line.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const descriptionWidth = 120

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	case "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

const rule = "─────────────────────────────────────────────────────────"

// WriteRecommendations writes a ranked recommendation list.
func WriteRecommendations(w io.Writer, resp *models.RecommendResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, resp)
	case OutputCompact:
		for _, r := range resp.Recommendations {
			fmt.Fprintf(w, "%d\t%.3f\t%s (%d)\n", r.Rank, r.Similarity, r.Title, r.Year)
		}
		return nil
	}
	fmt.Fprintf(w, "\nMovies similar to %q (%d results in %dms)\n\n", resp.InputMovie, len(resp.Recommendations), resp.QueryTime)
	for _, r := range resp.Recommendations {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "%d. %s (%d) | Similarity: %.3f | Rating: %.1f\n", r.Rank, r.Title, r.Year, r.Similarity, r.Rating)
		fmt.Fprintf(w, "Genres: %s\n", strings.Join(r.Genres, ", "))
		if r.Description != "" {
			fmt.Fprintf(w, "%s\n", utils.Truncate(r.Description, descriptionWidth))
		}
	}
	if len(resp.Recommendations) == 0 {
		fmt.Fprintln(w, "No recommendations.")
	}
	fmt.Fprintln(w)
	return nil
}

// WriteMovies writes a list of catalog entries.
func WriteMovies(w io.Writer, list *models.MovieList, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, list)
	case OutputCompact:
		for _, m := range list.Movies {
			fmt.Fprintf(w, "%s\t%d\t%.1f\t%s\n", m.Title, m.Year, m.Rating, strings.Join(m.Genres, ","))
		}
		return nil
	}
	fmt.Fprintf(w, "\n%d movie(s)\n\n", list.Total)
	for i, m := range list.Movies {
		fmt.Fprintf(w, "%2d. %-32s %d  %.1f  %s\n", i+1, m.Title, m.Year, m.Rating, strings.Join(m.Genres, ", "))
	}
	fmt.Fprintln(w)
	return nil
}

// WriteMovie writes one catalog entry in full.
func WriteMovie(w io.Writer, m *models.Movie, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, m)
	case OutputCompact:
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%s\t%s\n", m.Title, m.Year, m.Rating, strings.Join(m.Genres, ","), m.Description)
		return nil
	}
	fmt.Fprintf(w, "title:        %s\n", m.Title)
	fmt.Fprintf(w, "year:         %d\n", m.Year)
	fmt.Fprintf(w, "rating:       %.1f\n", m.Rating)
	fmt.Fprintf(w, "genres:       %s\n", strings.Join(m.Genres, ", "))
	fmt.Fprintf(w, "description:  %s\n", m.Description)
	return nil
}

// WriteStats writes catalog statistics.
func WriteStats(w io.Writer, st *models.CatalogStats, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, st)
	}
	fmt.Fprintf(w, "total_movies:     %d\n", st.TotalMovies)
	fmt.Fprintf(w, "years:            %d-%d\n", st.YearMin, st.YearMax)
	fmt.Fprintf(w, "average_rating:   %.2f (%.1f-%.1f)\n", st.AverageRating, st.RatingMin, st.RatingMax)
	fmt.Fprintf(w, "vocabulary_size:  %d\n", st.VocabularySize)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# genres")
	for _, g := range st.Genres {
		fmt.Fprintf(w, "%-16s %d\n", g.Genre, g.Count)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# decades")
	for _, d := range st.Decades {
		fmt.Fprintf(w, "%ds            %d\n", d.Decade, d.Count)
	}
	if len(st.TopRated) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# top rated")
		for i, m := range st.TopRated {
			fmt.Fprintf(w, "%d. %s (%.1f)\n", i+1, m.Title, m.Rating)
		}
	}
	return nil
}

// WriteSearchResults writes catalog search hits.
func WriteSearchResults(w io.Writer, resp *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, resp)
	case OutputCompact:
		for _, h := range resp.Hits {
			fmt.Fprintf(w, "%d\t%.4f\t%s (%d)\n", h.Rank, h.Score, h.Movie.Title, h.Movie.Year)
		}
		return nil
	}
	mode := ""
	if resp.Fuzzy {
		mode = ", fuzzy"
	}
	fmt.Fprintf(w, "\nFound %d results in %dms%s\n", resp.Total, resp.QueryTime, mode)
	if resp.DidYouMean != "" {
		fmt.Fprintf(w, "Did you mean: %s\n", resp.DidYouMean)
	}
	fmt.Fprintln(w)
	for _, h := range resp.Hits {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Rank: %d | Score: %.4f\n", h.Rank, h.Score)
		fmt.Fprintf(w, "%s (%d) | %s\n", h.Movie.Title, h.Movie.Year, strings.Join(h.Movie.Genres, ", "))
		if frags := h.Highlights["description"]; len(frags) > 0 {
			fmt.Fprintf(w, "%s\n", strings.Join(frags, " … "))
		} else {
			fmt.Fprintf(w, "%s\n", utils.Truncate(h.Movie.Description, descriptionWidth))
		}
	}
	fmt.Fprintln(w)
	return nil
}

// WriteExplain writes a pair's similarity and the terms behind it.
func WriteExplain(w io.Writer, resp *models.ExplainResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, resp)
	case OutputCompact:
		terms := make([]string, len(resp.SharedTerms))
		for i, t := range resp.SharedTerms {
			terms[i] = t.Term
		}
		fmt.Fprintf(w, "%.3f\t%s\n", resp.Similarity, strings.Join(terms, ","))
		return nil
	}
	fmt.Fprintf(w, "%s <-> %s: %.3f\n", resp.A, resp.B, resp.Similarity)
	if len(resp.SharedTerms) == 0 {
		fmt.Fprintln(w, "No shared terms.")
		return nil
	}
	for _, t := range resp.SharedTerms {
		fmt.Fprintf(w, "  %-24s %.4f\n", t.Term, t.Weight)
	}
	return nil
}

// WritePairs writes the most similar movie pairs.
func WritePairs(w io.Writer, list *models.PairList, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, list)
	case OutputCompact:
		for _, p := range list.Pairs {
			fmt.Fprintf(w, "%d\t%.3f\t%s\t%s\n", p.Rank, p.Similarity, p.A, p.B)
		}
		return nil
	}
	if len(list.Pairs) == 0 {
		fmt.Fprintln(w, "No pairs.")
		return nil
	}
	for _, p := range list.Pairs {
		fmt.Fprintf(w, "%d. %s <-> %s\n   Similarity: %.3f\n", p.Rank, p.A, p.B, p.Similarity)
	}
	return nil
}

// WriteStatus writes the active snapshot status.
func WriteStatus(w io.Writer, st *models.IndexStatus, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, st)
	}
	fmt.Fprintf(w, "ready:              %t\n", st.Ready)
	fmt.Fprintf(w, "source:             %s\n", st.Source)
	if st.SourceBytes > 0 {
		fmt.Fprintf(w, "source_bytes:       %d\n", st.SourceBytes)
	}
	if st.Ready {
		fmt.Fprintf(w, "snapshot_id:        %s\n", st.SnapshotID)
		fmt.Fprintf(w, "fingerprint:        %s\n", st.Fingerprint)
		fmt.Fprintf(w, "built_at:           %s\n", st.BuiltAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "build_time_ms:      %d\n", st.BuildTimeMS)
		fmt.Fprintf(w, "total_movies:       %d\n", st.TotalMovies)
		fmt.Fprintf(w, "vocabulary_size:    %d\n", st.VocabularySize)
		fmt.Fprintf(w, "similarity_enabled: %t\n", st.Similarity)
		fmt.Fprintf(w, "ngram_max:          %d\n", st.NGramMax)
		fmt.Fprintf(w, "sublinear_tf:       %t\n", st.SublinearTF)
	}
	fmt.Fprintf(w, "rebuilds:           %d\n", st.Rebuilds)
	if st.LastError != "" {
		fmt.Fprintf(w, "last_error:         %s\n", st.LastError)
	}
	return nil
}
