// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/niteru/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS movies (
		position INTEGER NOT NULL,
		title TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		genres TEXT NOT NULL DEFAULT '[]',
		year INTEGER NOT NULL DEFAULT 0,
		rating REAL NOT NULL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_movies_position ON movies(position);
	`
	_, err := db.Exec(schema)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*models.Movie, error) {
	var m models.Movie
	var genresJSON string
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &genresJSON, &m.Year, &m.Rating); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(genresJSON), &m.Genres); err != nil {
		return nil, fmt.Errorf("failed to unmarshal genres for %q: %w", m.Title, err)
	}
	return &m, nil
}

// ListMovies returns every movie ordered by position. ID holds the stored position.
func (s *SQLiteStorage) ListMovies(ctx context.Context) ([]models.Movie, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, title, description, genres, year, rating
		 FROM movies ORDER BY position, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	return movies, rows.Err()
}

// GetMovie returns a movie by exact title.
func (s *SQLiteStorage) GetMovie(ctx context.Context, title string) (*models.Movie, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT position, title, description, genres, year, rating
		 FROM movies WHERE title = ?`, title)
	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("movie not found: %s", title)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ReplaceMovies atomically replaces the whole catalog; positions follow slice order.
func (s *SQLiteStorage) ReplaceMovies(ctx context.Context, movies []models.Movie) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM movies`); err != nil {
		return fmt.Errorf("failed to clear movies: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO movies (position, title, description, genres, year, rating, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i, m := range movies {
		genresJSON, err := marshalGenres(m.Genres)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, i, m.Title, m.Description, genresJSON, m.Year, m.Rating, now); err != nil {
			return fmt.Errorf("failed to insert %q: %w", m.Title, err)
		}
	}
	return tx.Commit()
}

// UpsertMovie inserts a movie at the end of the catalog, or updates it in place when the title exists.
func (s *SQLiteStorage) UpsertMovie(ctx context.Context, movie *models.Movie) error {
	genresJSON, err := marshalGenres(movie.Genres)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO movies (position, title, description, genres, year, rating, updated_at)
		 VALUES ((SELECT COALESCE(MAX(position), -1) + 1 FROM movies), ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(title) DO UPDATE SET
		   description = excluded.description,
		   genres = excluded.genres,
		   year = excluded.year,
		   rating = excluded.rating,
		   updated_at = excluded.updated_at`,
		movie.Title, movie.Description, genresJSON, movie.Year, movie.Rating, time.Now(),
	)
	return err
}

// DeleteMovie removes a movie by title.
func (s *SQLiteStorage) DeleteMovie(ctx context.Context, title string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM movies WHERE title = ?`, title)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("movie not found: %s", title)
	}
	return nil
}

// CountMovies returns the number of stored movies.
func (s *SQLiteStorage) CountMovies(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&count)
	return count, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func marshalGenres(genres []string) (string, error) {
	if genres == nil {
		genres = []string{}
	}
	b, err := json.Marshal(genres)
	if err != nil {
		return "", fmt.Errorf("failed to marshal genres: %w", err)
	}
	return string(b), nil
}
