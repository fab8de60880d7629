// Package storage defines the persistence interface for movie catalogs.
package storage

import (
	"context"

	"github.com/hyperjump/niteru/internal/models"
)

// Storage defines catalog persistence operations. Movies keep the order they were written in.
type Storage interface {
	ListMovies(ctx context.Context) ([]models.Movie, error)
	GetMovie(ctx context.Context, title string) (*models.Movie, error)
	ReplaceMovies(ctx context.Context, movies []models.Movie) error
	UpsertMovie(ctx context.Context, movie *models.Movie) error
	DeleteMovie(ctx context.Context, title string) error
	CountMovies(ctx context.Context) (int64, error)
	Close() error
}
