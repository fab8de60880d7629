// Package corpus provides the immutable, index-addressed movie collection the engine is built from.
package corpus

import (
	"strings"

	"github.com/hyperjump/niteru/internal/models"
)

// Corpus holds the loaded movies in insertion order with a title index.
// A Corpus is never mutated after Load and is safe for concurrent reads.
type Corpus struct {
	items   []models.Movie
	byTitle map[string]int
}

// Load copies items into a new corpus and assigns each one its position as ID.
// Titles must be unique and non-blank.
func Load(items []models.Movie) (*Corpus, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCorpus
	}
	c := &Corpus{
		items:   make([]models.Movie, len(items)),
		byTitle: make(map[string]int, len(items)),
	}
	for i, m := range items {
		if strings.TrimSpace(m.Title) == "" {
			return nil, &InvalidItemError{Index: i, Reason: "title is empty"}
		}
		if first, ok := c.byTitle[m.Title]; ok {
			return nil, &DuplicateTitleError{Title: m.Title, First: first, Duplicate: i}
		}
		m.ID = i
		m.Genres = append([]string(nil), m.Genres...)
		c.items[i] = m
		c.byTitle[m.Title] = i
	}
	return c, nil
}

// Len returns the number of movies.
func (c *Corpus) Len() int {
	return len(c.items)
}

// Get returns the movie at id.
func (c *Corpus) Get(id int) (models.Movie, error) {
	if id < 0 || id >= len(c.items) {
		return models.Movie{}, &IndexOutOfRangeError{Index: id, Len: len(c.items)}
	}
	return clone(c.items[id]), nil
}

// FindByTitle returns the movie whose title matches exactly.
func (c *Corpus) FindByTitle(title string) (models.Movie, error) {
	id, ok := c.byTitle[title]
	if !ok {
		return models.Movie{}, &ItemNotFoundError{Title: title}
	}
	return clone(c.items[id]), nil
}

// IndexOf returns the id for title and whether it exists.
func (c *Corpus) IndexOf(title string) (int, bool) {
	id, ok := c.byTitle[title]
	return id, ok
}

// All returns a copy of every movie in insertion order.
func (c *Corpus) All() []models.Movie {
	out := make([]models.Movie, len(c.items))
	for i, m := range c.items {
		out[i] = clone(m)
	}
	return out
}

// Titles returns every title in insertion order.
func (c *Corpus) Titles() []string {
	out := make([]string, len(c.items))
	for i, m := range c.items {
		out[i] = m.Title
	}
	return out
}

// Descriptions returns the description of every movie in insertion order.
func (c *Corpus) Descriptions() []string {
	out := make([]string, len(c.items))
	for i, m := range c.items {
		out[i] = m.Description
	}
	return out
}

func clone(m models.Movie) models.Movie {
	m.Genres = append([]string(nil), m.Genres...)
	return m
}
