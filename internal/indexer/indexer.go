// Package indexer builds immutable catalog snapshots (engine, keyword index, spell checker)
// and swaps them in atomically so readers never observe a half-built catalog.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/niteru/internal/catalog"
	"github.com/hyperjump/niteru/internal/fingerprint"
	"github.com/hyperjump/niteru/internal/keyword"
	"github.com/hyperjump/niteru/internal/metrics"
	"github.com/hyperjump/niteru/internal/models"
	"github.com/hyperjump/niteru/internal/recommend"
	"github.com/hyperjump/niteru/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrNotReady is returned while no snapshot has been built yet.
var ErrNotReady = errors.New("catalog not loaded yet")

// Loader returns the current catalog contents.
type Loader func(ctx context.Context) ([]models.Movie, error)

// Indexer owns the active snapshot and rebuilds it from its loader.
type Indexer struct {
	source     string
	load       Loader
	engineOpts []recommend.Option
	logger     *zap.Logger // optional; when set, logs debug events

	current  atomic.Pointer[Snapshot]
	group    singleflight.Group
	rebuilds atomic.Int64

	mu          sync.Mutex
	lastAttempt time.Time
	lastErr     error
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output (rebuild started, unchanged, swapped).
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// WithEngineOptions sets the options every snapshot's engine is built with.
func WithEngineOptions(opts ...recommend.Option) IndexerOption {
	return func(idx *Indexer) { idx.engineOpts = append(idx.engineOpts, opts...) }
}

// WithLoader replaces the catalog loader. By default source is read with catalog.Load.
func WithLoader(l Loader) IndexerOption {
	return func(idx *Indexer) { idx.load = l }
}

// NewIndexer creates an indexer for source ("builtin" or a catalog file path).
// No snapshot exists until the first Rebuild.
func NewIndexer(source string, opts ...IndexerOption) *Indexer {
	idx := &Indexer{source: source}
	idx.load = func(ctx context.Context) ([]models.Movie, error) {
		return catalog.Load(ctx, source)
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Source returns the catalog source the indexer reads.
func (idx *Indexer) Source() string {
	return idx.source
}

// Current returns the active snapshot or ErrNotReady.
func (idx *Indexer) Current() (*Snapshot, error) {
	snap := idx.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

type rebuildResult struct {
	snap    *Snapshot
	changed bool
}

// Rebuild reloads the catalog and, when its fingerprint changed, builds and activates a
// new snapshot. Concurrent calls share one build. On failure the previous snapshot stays
// active. It reports whether a new snapshot was activated.
//
// The shared build is detached from ctx so one caller giving up cannot fail the others;
// a cancelled caller stops waiting and gets ctx.Err() while the build completes.
func (idx *Indexer) Rebuild(ctx context.Context) (*Snapshot, bool, error) {
	ch := idx.group.DoChan("rebuild", func() (interface{}, error) {
		snap, changed, err := idx.rebuild(context.WithoutCancel(ctx))
		return rebuildResult{snap: snap, changed: changed}, err
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, false, r.Err
		}
		res := r.Val.(rebuildResult)
		return res.snap, res.changed, nil
	}
}

func (idx *Indexer) rebuild(ctx context.Context) (*Snapshot, bool, error) {
	start := time.Now()
	if idx.logger != nil {
		idx.logger.Debug("indexer rebuilding", zap.String("source", idx.source))
	}
	snap, changed, err := idx.build(ctx, start)
	idx.mu.Lock()
	idx.lastAttempt = start
	idx.lastErr = err
	idx.mu.Unlock()
	switch {
	case err != nil:
		metrics.RecordBuild(metrics.OutcomeFailed, time.Since(start), 0, 0)
		if idx.logger != nil {
			idx.logger.Debug("indexer rebuild failed, keeping previous snapshot", zap.Error(err))
		}
		return nil, false, err
	case !changed:
		metrics.RecordBuild(metrics.OutcomeUnchanged, 0, 0, 0)
		if idx.logger != nil {
			idx.logger.Debug("indexer catalog unchanged", zap.String("fingerprint", fingerprint.Short(snap.Fingerprint)))
		}
		return snap, false, nil
	}
	idx.current.Store(snap)
	idx.rebuilds.Add(1)
	metrics.RecordBuild(metrics.OutcomeBuilt, snap.BuildTime, snap.Engine.Len(), snap.Engine.VocabularySize())
	if idx.logger != nil {
		idx.logger.Debug("indexer snapshot activated",
			zap.String("snapshot_id", snap.ID),
			zap.String("fingerprint", fingerprint.Short(snap.Fingerprint)),
			zap.Int("movies", snap.Engine.Len()),
			zap.Int("vocabulary", snap.Engine.VocabularySize()),
			zap.Duration("build_time", snap.BuildTime))
	}
	return snap, true, nil
}

func (idx *Indexer) build(ctx context.Context, start time.Time) (*Snapshot, bool, error) {
	movies, err := idx.load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load catalog: %w", err)
	}
	fp := fingerprint.Catalog(movies)
	if cur := idx.current.Load(); cur != nil && cur.Fingerprint == fp {
		return cur, false, nil
	}
	engine, err := recommend.New(movies, idx.engineOpts...)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build engine: %w", err)
	}
	kw, err := keyword.NewBleveIndex(engine.Movies())
	if err != nil {
		return nil, false, err
	}
	spell, err := keyword.NewSpellChecker(kw)
	if err != nil {
		_ = kw.Close()
		return nil, false, fmt.Errorf("failed to load search terms: %w", err)
	}
	// Replaced snapshots are not closed: in-flight readers may still hold them.
	return &Snapshot{
		ID:          uuid.New().String(),
		Source:      idx.source,
		Fingerprint: fp,
		BuiltAt:     time.Now(),
		BuildTime:   time.Since(start),
		Engine:      engine,
		keyword:     kw,
		spell:       spell,
	}, true, nil
}

// Status describes the active snapshot and the last rebuild attempt.
func (idx *Indexer) Status() models.IndexStatus {
	idx.mu.Lock()
	st := models.IndexStatus{
		Source:      idx.source,
		LastAttempt: idx.lastAttempt,
		Rebuilds:    idx.rebuilds.Load(),
	}
	if idx.lastErr != nil {
		st.LastError = idx.lastErr.Error()
	}
	idx.mu.Unlock()
	if !catalog.IsBuiltin(idx.source) {
		if n, err := storage.SourceSizeBytes(idx.source); err == nil {
			st.SourceBytes = n
		}
	}
	if snap := idx.current.Load(); snap != nil {
		st.Ready = true
		st.SnapshotID = snap.ID
		st.Fingerprint = snap.Fingerprint
		st.BuiltAt = snap.BuiltAt
		st.BuildTimeMS = snap.BuildTime.Milliseconds()
		st.TotalMovies = snap.Engine.Len()
		st.VocabularySize = snap.Engine.VocabularySize()
		st.Similarity = snap.Engine.SimilarityEnabled()
		opts := snap.Engine.TFIDFOptions()
		st.NGramMax = opts.NGramMax
		st.SublinearTF = opts.SublinearTF
	}
	return st
}

// OnCatalogChange is a watcher callback that rebuilds and logs the outcome.
func (idx *Indexer) OnCatalogChange(ctx context.Context) func(path string) {
	return func(path string) {
		_, changed, err := idx.Rebuild(ctx)
		if idx.logger == nil {
			return
		}
		switch {
		case err != nil:
			idx.logger.Warn("catalog reload failed", zap.String("path", path), zap.Error(err))
		case changed:
			idx.logger.Info("catalog reloaded", zap.String("path", path))
		}
	}
}
