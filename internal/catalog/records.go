package catalog

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/niteru/internal/models"
)

// genreList accepts either a list of tags or a comma-separated string.
type genreList []string

func (g *genreList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*g = ParseGenres(value.Value)
		return nil
	case yaml.SequenceNode:
		var tags []string
		if err := value.Decode(&tags); err != nil {
			return err
		}
		*g = tags
		return nil
	default:
		return fmt.Errorf("line %d: genres must be a string or a list", value.Line)
	}
}

func (g *genreList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = ParseGenres(s)
		return nil
	}
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return fmt.Errorf("genres must be a string or a list: %w", err)
	}
	*g = tags
	return nil
}

// record is one movie as written in YAML and JSON catalogs. "genre" is accepted as an alias.
type record struct {
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Genres      genreList `json:"genres,omitempty" yaml:"genres,omitempty"`
	Genre       genreList `json:"genre,omitempty" yaml:"genre,omitempty"`
	Year        int       `json:"year" yaml:"year"`
	Rating      float64   `json:"rating" yaml:"rating"`
}

// document is the top-level catalog file. A bare list of records is also accepted.
type document struct {
	Movies []record `json:"movies" yaml:"movies"`
}

func (r record) movie() models.Movie {
	genres := r.Genres
	if len(genres) == 0 {
		genres = r.Genre
	}
	return models.Movie{
		Title:       r.Title,
		Description: r.Description,
		Genres:      []string(genres),
		Year:        r.Year,
		Rating:      r.Rating,
	}
}

func toMovies(records []record) []models.Movie {
	movies := make([]models.Movie, len(records))
	for i, r := range records {
		movies[i] = r.movie()
	}
	return movies
}

func toRecords(movies []models.Movie) document {
	doc := document{Movies: make([]record, len(movies))}
	for i, m := range movies {
		doc.Movies[i] = record{
			Title:       m.Title,
			Description: m.Description,
			Genres:      genreList(m.Genres),
			Year:        m.Year,
			Rating:      m.Rating,
		}
	}
	return doc
}

func decodeYAML(data []byte) ([]models.Movie, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	var records []record
	if root := node.Content[0]; root.Kind == yaml.SequenceNode {
		if err := root.Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	} else {
		var doc document
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		records = doc.Movies
	}
	return toMovies(records), nil
}

func decodeJSON(data []byte) ([]models.Movie, error) {
	trimmed := bytes.TrimSpace(data)
	var records []record
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	} else {
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		records = doc.Movies
	}
	return toMovies(records), nil
}

func encodeYAML(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toRecords(movies)); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSON(movies []models.Movie) ([]byte, error) {
	data, err := json.MarshalIndent(toRecords(movies), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// headerIndex maps spreadsheet header names to column positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := idx["genres"]; !ok {
		if i, ok := idx["genre"]; ok {
			idx["genres"] = i
		}
	}
	return idx
}
