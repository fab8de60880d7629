// Package catalog loads and saves movie catalogs from the bundled dataset, YAML, JSON,
// Excel spreadsheets, and SQLite databases.
package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/niteru/internal/models"
	"github.com/hyperjump/niteru/internal/storage"
	"github.com/hyperjump/niteru/pkg/utils"
)

// Format identifies a catalog file format.
type Format string

const (
	FormatBuiltin Format = "builtin"
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatXLSX    Format = "xlsx"
	FormatSQLite  Format = "sqlite"
)

// SupportedExtensions lists the file extensions Load and Save understand.
var SupportedExtensions = []string{".yaml", ".yml", ".json", ".xlsx", ".db", ".sqlite", ".sqlite3"}

// DetectFormat returns the format for source, by extension for files.
func DetectFormat(source string) (Format, error) {
	if IsBuiltin(source) {
		return FormatBuiltin, nil
	}
	switch ext := strings.ToLower(filepath.Ext(source)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unsupported catalog format %q (supported: %s)", ext, strings.Join(SupportedExtensions, ", "))
	}
}

// Load reads the catalog at source (a bundled catalog name or a file path) and normalizes its text.
func Load(ctx context.Context, source string) ([]models.Movie, error) {
	format, err := DetectFormat(source)
	if err != nil {
		return nil, err
	}
	var movies []models.Movie
	switch format {
	case FormatBuiltin:
		if source == EnhancedSource {
			return Enhanced(), nil
		}
		return Builtin(), nil
	case FormatSQLite:
		if _, err := os.Stat(source); err != nil {
			return nil, fmt.Errorf("failed to open catalog: %w", err)
		}
		movies, err = loadSQLite(ctx, source)
	default:
		var data []byte
		data, err = os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		movies, err = Decode(data, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", source, err)
	}
	return Normalize(movies), nil
}

// Decode parses catalog bytes in a file format.
func Decode(data []byte, format Format) ([]models.Movie, error) {
	switch format {
	case FormatYAML:
		return decodeYAML(data)
	case FormatJSON:
		return decodeJSON(data)
	case FormatXLSX:
		return decodeXLSX(data)
	default:
		return nil, fmt.Errorf("cannot decode %s catalog from bytes", format)
	}
}

// Save writes movies to path in the format given by its extension.
func Save(ctx context.Context, path string, movies []models.Movie) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	if format == FormatBuiltin {
		return fmt.Errorf("the builtin catalog is read-only")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}
	switch format {
	case FormatSQLite:
		return saveSQLite(ctx, path, movies)
	case FormatXLSX:
		return writeXLSX(path, movies)
	}
	var data []byte
	if format == FormatYAML {
		data, err = encodeYAML(movies)
	} else {
		data, err = encodeJSON(movies)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// Normalize trims titles and genre tags, collapses whitespace in descriptions,
// and drops empty genre tags.
func Normalize(movies []models.Movie) []models.Movie {
	out := make([]models.Movie, len(movies))
	for i, m := range movies {
		m.Title = strings.TrimSpace(m.Title)
		m.Description = utils.Preprocess(m.Description)
		genres := make([]string, 0, len(m.Genres))
		for _, g := range m.Genres {
			if g = strings.TrimSpace(g); g != "" {
				genres = append(genres, g)
			}
		}
		m.Genres = genres
		out[i] = m
	}
	return out
}

// ParseGenres splits a comma-separated genre string ("Sci-Fi, Action") into trimmed tags.
func ParseGenres(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadSQLite(ctx context.Context, path string) ([]models.Movie, error) {
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.ListMovies(ctx)
}

func saveSQLite(ctx context.Context, path string, movies []models.Movie) error {
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.ReplaceMovies(ctx, movies)
}
