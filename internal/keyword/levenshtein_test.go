package keyword

import (
	"reflect"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"identical empty", "", "", 0},
		{"identical word", "tenet", "tenet", 0},
		{"identical unicode", "amélie", "amélie", 0},
		{"empty a", "", "heist", 5},
		{"empty b", "heist", "", 5},
		{"one substitution", "joker", "poker", 1},
		{"one insertion", "gotam", "gotham", 1},
		{"one deletion", "inceptionn", "inception", 1},
		{"kitten to sitting", "kitten", "sitting", 3},
		{"case difference", "Tenet", "tenet", 1},
		{"unicode substitution", "amélie", "amelie", 1},
		{"transposition counts twice", "ab", "ba", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevenshteinDistance(tt.a, tt.b); got != tt.expected {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
			if got := LevenshteinDistance(tt.b, tt.a); got != tt.expected {
				t.Errorf("LevenshteinDistance is not symmetric for (%q, %q)", tt.a, tt.b)
			}
		})
	}
}

func TestDamerauLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"identical", "matrix", "matrix", 0},
		{"empty a", "", "matrix", 6},
		{"one substitution", "joker", "poker", 1},
		{"transposition ab-ba", "ab", "ba", 1},
		{"transposition inceptoin", "inceptoin", "inception", 1},
		{"transposition teh-the", "teh", "the", 1},
		{"kitten to sitting", "kitten", "sitting", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DamerauLevenshteinDistance(tt.a, tt.b); got != tt.expected {
				t.Errorf("DamerauLevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
			if got := DamerauLevenshteinDistance(tt.b, tt.a); got != tt.expected {
				t.Errorf("DamerauLevenshteinDistance is not symmetric for (%q, %q)", tt.a, tt.b)
			}
		})
	}
}

func TestSuggestTitles(t *testing.T) {
	titles := []string{"The Matrix", "Inception", "Interstellar", "Tenet", "The Dark Knight"}
	tests := []struct {
		name  string
		query string
		max   int
		want  []string
	}{
		{"case only", "inception", 3, []string{"Inception"}},
		{"typo", "Incepton", 3, []string{"Inception"}},
		{"substring", "dark knight", 3, []string{"The Dark Knight"}},
		{"short query uses minimum budget", "Tenat", 3, []string{"Tenet"}},
		{"nothing close", "Jaws", 3, []string{}},
		{"empty query", "  ", 3, []string{}},
		{"zero max", "Tenet", 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestTitles(tt.query, titles, tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SuggestTitles(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSuggestTitles_ordersByDistance(t *testing.T) {
	titles := []string{"Tenet", "Tenets", "Tent"}
	got := SuggestTitles("tenet", titles, 2)
	want := []string{"Tenet", "Tenets"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func BenchmarkLevenshteinDistance(b *testing.B) {
	for i := 0; i < b.N; i++ {
		LevenshteinDistance("the shawshank redemption", "the shawshenk redemptoin")
	}
}

func BenchmarkDamerauLevenshteinDistance(b *testing.B) {
	for i := 0; i < b.N; i++ {
		DamerauLevenshteinDistance("interstellar", "intersteller")
	}
}
