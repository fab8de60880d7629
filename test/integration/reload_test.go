// Package integration exercises the server, indexer, and catalog watcher together.
package integration

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/niteru/internal/catalog"
	"github.com/hyperjump/niteru/internal/cli"
	"github.com/hyperjump/niteru/internal/config"
	"github.com/hyperjump/niteru/internal/indexer"
	"github.com/hyperjump/niteru/internal/models"
	"github.com/hyperjump/niteru/internal/server"
	"github.com/hyperjump/niteru/internal/watcher"
	"go.uber.org/zap"
)

func TestIntegration_WatchedCatalogReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movies.json")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	movies := catalog.Builtin()[:6]
	if err := catalog.Save(ctx, path, movies); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Catalog.Source = path
	cfg.Server.RateLimit = 0
	logger := zap.NewNop()
	idx := indexer.NewIndexer(path, indexer.WithLogger(logger))
	if _, _, err := idx.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}

	w := watcher.NewWatcher(path, idx.OnCatalogChange(ctx), watcher.WithDebounce(50*time.Millisecond))
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ts := httptest.NewServer(server.NewServer(idx, cfg, logger).Router())
	defer ts.Close()
	client := cli.NewClient(ts.URL, ts.Client())

	st, err := client.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalMovies != 6 {
		t.Fatalf("movies = %d, want 6", st.TotalMovies)
	}
	if _, err := client.Recommend(ctx, "Tenet", 3); err == nil {
		t.Fatal("Tenet should not be in the initial catalog")
	}

	movies = append(movies, models.Movie{
		Title:       "Tenet",
		Description: "inverted time sci-fi mystery thriller mind-bending",
		Genres:      []string{"Sci-Fi", "Thriller"},
		Year:        2020,
		Rating:      7.4,
	})
	if err := catalog.Save(ctx, path, movies); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		status, err := client.Status(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if status.TotalMovies == 7 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("catalog was not reloaded: %+v", status)
		}
		time.Sleep(20 * time.Millisecond)
	}

	resp, err := client.Recommend(ctx, "Inception", 1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Recommendations[0].Title != "Tenet" {
		t.Errorf("top recommendation = %s, want Tenet", resp.Recommendations[0].Title)
	}
}

func TestIntegration_BrokenEditKeepsServing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movies.yaml")
	ctx := context.Background()
	if err := catalog.Save(ctx, path, catalog.Builtin()); err != nil {
		t.Fatal(err)
	}
	idx := indexer.NewIndexer(path, indexer.WithLogger(zap.NewNop()))
	first, _, err := idx.Rebuild(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("- title: [broken"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := idx.Rebuild(ctx); err == nil {
		t.Fatal("expected rebuild of a broken catalog to fail")
	}
	cur, err := idx.Current()
	if err != nil || cur != first {
		t.Fatalf("current snapshot changed after failed rebuild: %v", err)
	}
	if st := idx.Status(); st.LastError == "" || st.TotalMovies != 12 {
		t.Errorf("status = %+v", st)
	}
}
