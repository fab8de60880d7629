package keyword

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// LevenshteinDistance calculates the minimum number of single-character edits
// (insertions, deletions, or substitutions) required to change one string into another.
func LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	runesA := []rune(a)
	runesB := []rune(b)
	if len(runesA) == 0 {
		return len(runesB)
	}
	if len(runesB) == 0 {
		return len(runesA)
	}

	// Two rolling rows of the edit matrix; prev[j] is the distance from a[:i-1] to b[:j].
	prev := make([]int, len(runesB)+1)
	curr := make([]int, len(runesB)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(runesA); i++ {
		curr[0] = i
		for j := 1; j <= len(runesB); j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}
			// deletion, insertion, substitution
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(runesB)]
}

// DamerauLevenshteinDistance is LevenshteinDistance that also counts swapping two
// adjacent characters as a single edit.
func DamerauLevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	runesA := []rune(a)
	runesB := []rune(b)
	lenA, lenB := len(runesA), len(runesB)
	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// Full matrix: the transposition case looks two rows back.
	d := make([][]int, lenA+1)
	for i := range d {
		d[i] = make([]int, lenB+1)
		d[i][0] = i
	}
	for j := 0; j <= lenB; j++ {
		d[0][j] = j
	}
	for i := 1; i <= lenA; i++ {
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}
			d[i][j] = min(d[i-1][j]+1, d[i][j-1]+1, d[i-1][j-1]+cost)
			// adjacent transposition, e.g. "ab" -> "ba"
			if i > 1 && j > 1 && runesA[i-1] == runesB[j-2] && runesA[i-2] == runesB[j-1] {
				d[i][j] = min(d[i][j], d[i-2][j-2]+cost)
			}
		}
	}
	return d[lenA][lenB]
}

// SuggestTitles returns up to max titles close to query, for "did you mean" hints on
// an unknown title. Titles are compared case-insensitively; a title containing the
// query (or contained in it) always qualifies. Closest titles come first.
func SuggestTitles(query string, titles []string, max int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || max <= 0 {
		return []string{}
	}
	// Allow roughly one edit per three characters, never fewer than two.
	budget := utf8.RuneCountInString(q) / 3
	if budget < 2 {
		budget = 2
	}
	type candidate struct {
		title    string
		distance int
		order    int
	}
	var found []candidate
	for i, title := range titles {
		t := strings.ToLower(title)
		d := DamerauLevenshteinDistance(q, t)
		if d > budget && !strings.Contains(t, q) && !strings.Contains(q, t) {
			continue
		}
		// order keeps catalog order among equally close titles
		found = append(found, candidate{title: title, distance: d, order: i})
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].distance != found[j].distance {
			return found[i].distance < found[j].distance
		}
		return found[i].order < found[j].order
	})
	out := make([]string, 0, max)
	for _, c := range found {
		if len(out) == max {
			break
		}
		out = append(out, c.title)
	}
	return out
}
