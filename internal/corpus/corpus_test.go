package corpus

import (
	"errors"
	"testing"

	"github.com/hyperjump/niteru/internal/models"
)

func sample() []models.Movie {
	return []models.Movie{
		{Title: "The Matrix", Description: "sci-fi action", Genres: []string{"Sci-Fi", "Action"}, Year: 1999, Rating: 8.7},
		{Title: "Titanic", Description: "romantic tragedy", Genres: []string{"Romance", "Drama"}, Year: 1997, Rating: 7.9},
		{Title: "Tenet", Description: "inverted time", Genres: []string{"Sci-Fi", "Thriller"}, Year: 2020, Rating: 7.4},
	}
}

func TestLoad_assignsIDs(t *testing.T) {
	c, err := Load(sample())
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	for i, m := range c.All() {
		if m.ID != i {
			t.Errorf("item %q: ID = %d, want %d", m.Title, m.ID, i)
		}
	}
}

func TestLoad_errors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Load(nil)
		if !errors.Is(err, ErrEmptyCorpus) {
			t.Errorf("err = %v, want ErrEmptyCorpus", err)
		}
	})
	t.Run("duplicate title", func(t *testing.T) {
		items := append(sample(), models.Movie{Title: "Titanic"})
		_, err := Load(items)
		var dup *DuplicateTitleError
		if !errors.As(err, &dup) {
			t.Fatalf("err = %v, want *DuplicateTitleError", err)
		}
		if dup.Title != "Titanic" || dup.First != 1 || dup.Duplicate != 3 {
			t.Errorf("got %+v", dup)
		}
	})
	t.Run("blank title", func(t *testing.T) {
		_, err := Load([]models.Movie{{Title: "  "}})
		var inv *InvalidItemError
		if !errors.As(err, &inv) {
			t.Fatalf("err = %v, want *InvalidItemError", err)
		}
	})
}

func TestFindByTitle(t *testing.T) {
	c, err := Load(sample())
	if err != nil {
		t.Fatal(err)
	}
	m, err := c.FindByTitle("Tenet")
	if err != nil {
		t.Fatal(err)
	}
	if m.ID != 2 || m.Year != 2020 {
		t.Errorf("got %+v", m)
	}
	_, err = c.FindByTitle("tenet")
	if !IsNotFound(err) {
		t.Errorf("lookup is exact; err = %v, want not found", err)
	}
}

func TestGet(t *testing.T) {
	c, err := Load(sample())
	if err != nil {
		t.Fatal(err)
	}
	if m, err := c.Get(0); err != nil || m.Title != "The Matrix" {
		t.Errorf("Get(0) = %+v, %v", m, err)
	}
	for _, id := range []int{-1, 3} {
		var oor *IndexOutOfRangeError
		if _, err := c.Get(id); !errors.As(err, &oor) {
			t.Errorf("Get(%d) err = %v, want *IndexOutOfRangeError", id, err)
		}
	}
}

func TestCorpus_isolatedFromCallers(t *testing.T) {
	items := sample()
	c, err := Load(items)
	if err != nil {
		t.Fatal(err)
	}
	items[0].Genres[0] = "Changed"
	got, _ := c.Get(0)
	if got.Genres[0] != "Sci-Fi" {
		t.Error("corpus must not share genre slices with the input")
	}
	got.Genres[0] = "Changed again"
	again, _ := c.Get(0)
	if again.Genres[0] != "Sci-Fi" {
		t.Error("corpus must not share genre slices with results")
	}
}

func TestDescriptionsAndTitles(t *testing.T) {
	c, err := Load(sample())
	if err != nil {
		t.Fatal(err)
	}
	d := c.Descriptions()
	if len(d) != 3 || d[1] != "romantic tragedy" {
		t.Errorf("Descriptions() = %v", d)
	}
	ti := c.Titles()
	if len(ti) != 3 || ti[2] != "Tenet" {
		t.Errorf("Titles() = %v", ti)
	}
}
