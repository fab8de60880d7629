package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hyperjump/niteru/internal/models"
	"github.com/hyperjump/niteru/internal/storage"
)

// openEditable opens a SQLite catalog for in-place edits. Other formats are rewritten with Save.
func openEditable(path string, mustExist bool) (storage.Storage, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format != FormatSQLite {
		return nil, fmt.Errorf("only sqlite catalogs can be edited in place, got %s", format)
	}
	if mustExist {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to open catalog: %w", err)
		}
	}
	return storage.NewSQLiteStorage(path)
}

// Upsert adds m to the SQLite catalog at path, or replaces the entry with the same title.
// It reports whether the movie was new and the catalog size afterwards.
func Upsert(ctx context.Context, path string, m models.Movie) (bool, int64, error) {
	m = Normalize([]models.Movie{m})[0]
	if m.Title == "" {
		return false, 0, fmt.Errorf("title is required")
	}
	if strings.TrimSpace(m.Description) == "" {
		return false, 0, fmt.Errorf("description is required")
	}
	store, err := openEditable(path, false)
	if err != nil {
		return false, 0, err
	}
	defer store.Close()

	_, getErr := store.GetMovie(ctx, m.Title)
	if err := store.UpsertMovie(ctx, &m); err != nil {
		return false, 0, fmt.Errorf("failed to save %q: %w", m.Title, err)
	}
	n, err := store.CountMovies(ctx)
	if err != nil {
		return false, 0, err
	}
	return getErr != nil, n, nil
}

// Remove deletes the movie titled title from the SQLite catalog at path and returns the catalog size afterwards.
func Remove(ctx context.Context, path, title string) (int64, error) {
	store, err := openEditable(path, true)
	if err != nil {
		return 0, err
	}
	defer store.Close()
	if err := store.DeleteMovie(ctx, strings.TrimSpace(title)); err != nil {
		return 0, err
	}
	return store.CountMovies(ctx)
}
