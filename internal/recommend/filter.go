package recommend

import (
	"strings"

	"github.com/hyperjump/niteru/internal/models"
)

// Predicate selects movies for Filter.
type Predicate func(models.Movie) bool

// YearBetween matches release years in [from, to]. Reversed bounds are swapped.
func YearBetween(from, to int) Predicate {
	if from > to {
		from, to = to, from
	}
	return func(m models.Movie) bool {
		return m.Year >= from && m.Year <= to
	}
}

// HasGenre matches movies with a genre tag containing genre, compared case-insensitively.
func HasGenre(genre string) Predicate {
	q := strings.ToLower(strings.TrimSpace(genre))
	return func(m models.Movie) bool {
		return hasGenre(m, q)
	}
}

// MinRating matches movies rated at least r.
func MinRating(r float64) Predicate {
	return func(m models.Movie) bool {
		return m.Rating >= r
	}
}

// And matches movies that every predicate matches. It matches everything when preds is empty.
func And(preds ...Predicate) Predicate {
	return func(m models.Movie) bool {
		for _, p := range preds {
			if p != nil && !p(m) {
				return false
			}
		}
		return true
	}
}

func hasGenre(m models.Movie, lowerQuery string) bool {
	if lowerQuery == "" {
		return false
	}
	for _, g := range m.Genres {
		if strings.Contains(strings.ToLower(g), lowerQuery) {
			return true
		}
	}
	return false
}
