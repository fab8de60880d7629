package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/hyperjump/niteru/internal/models"
	"github.com/hyperjump/niteru/pkg/utils"
)

// Stats summarizes the catalog: year and rating ranges, average rating, genre and decade counts.
func (e *Engine) Stats() models.CatalogStats {
	all := e.corpus.All()
	st := models.CatalogStats{
		TotalMovies:    len(all),
		YearMin:        all[0].Year,
		YearMax:        all[0].Year,
		RatingMin:      all[0].Rating,
		RatingMax:      all[0].Rating,
		TopRated:       e.TopRated(5),
		VocabularySize: e.VocabularySize(),
	}
	genres := make(map[string]int)
	decades := make(map[int]int)
	var sum float64
	for _, m := range all {
		sum += m.Rating
		st.YearMin = min(st.YearMin, m.Year)
		st.YearMax = max(st.YearMax, m.Year)
		st.RatingMin = math.Min(st.RatingMin, m.Rating)
		st.RatingMax = math.Max(st.RatingMax, m.Rating)
		for _, g := range m.Genres {
			if g = strings.TrimSpace(g); g != "" {
				genres[g]++
			}
		}
		decades[m.Year/10*10]++
	}
	st.AverageRating = utils.Round(sum/float64(len(all)), 2)

	for g, n := range genres {
		st.Genres = append(st.Genres, models.GenreCount{Genre: g, Count: n})
	}
	sort.Slice(st.Genres, func(i, j int) bool {
		if st.Genres[i].Count != st.Genres[j].Count {
			return st.Genres[i].Count > st.Genres[j].Count
		}
		return st.Genres[i].Genre < st.Genres[j].Genre
	})
	for d, n := range decades {
		st.Decades = append(st.Decades, models.DecadeCount{Decade: d, Count: n})
	}
	sort.Slice(st.Decades, func(i, j int) bool { return st.Decades[i].Decade < st.Decades[j].Decade })
	return st
}
