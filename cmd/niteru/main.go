// Package main is the niteru CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/niteru/internal/catalog"
	"github.com/hyperjump/niteru/internal/cli"
	"github.com/hyperjump/niteru/internal/config"
	"github.com/hyperjump/niteru/internal/corpus"
	"github.com/hyperjump/niteru/internal/indexer"
	"github.com/hyperjump/niteru/internal/models"
	"github.com/hyperjump/niteru/internal/recommend"
	"github.com/hyperjump/niteru/internal/server"
	"github.com/hyperjump/niteru/internal/watcher"
	"github.com/hyperjump/niteru/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/niteru/config.yaml"
	serverEnv         = "NITERU_SERVER"
)

// loadConfig loads config from path. When path is the default, config.yaml in the current
// directory wins if it exists. A missing default config yields built-in defaults so that
// query commands work without any setup. Returns the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	args := os.Args[2:]
	switch command {
	case "server":
		runServer(args)
	case "recommend", "genre", "random", "text", "explain", "pairs", "movies", "details", "top", "search", "stats", "status":
		runQuery(command, args)
	case "rebuild":
		runRebuild(args)
	case "convert":
		runConvert(args)
	case "add":
		runAdd(args)
	case "remove":
		runRemove(args)
	case "version", "--version", "-v":
		fmt.Printf("niteru version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// engineOptions maps engine config onto recommender options.
func engineOptions(cfg *config.Config) []recommend.Option {
	opts := []recommend.Option{
		recommend.WithTFIDFOptions(cfg.Engine.TFIDFOptions()),
		recommend.WithScorePrecision(cfg.Engine.ScorePrecisionOrDefault()),
	}
	if cfg.Engine.AllowEmptyVocabulary {
		opts = append(opts, recommend.AllowEmptyVocabulary())
	}
	return opts
}

func newIndexer(cfg *config.Config, logger *zap.Logger) *indexer.Indexer {
	return indexer.NewIndexer(cfg.Catalog.Source,
		indexer.WithLogger(logger),
		indexer.WithEngineOptions(engineOptions(cfg)...),
	)
}

func runServer(args []string) {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (requests, rebuilds, catalog changes)")
	source := fs.String("catalog", "", "catalog source, overrides catalog.source (builtin, builtin:enhanced, or a file path)")
	_ = fs.Parse(args)

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *source != "" {
		cfg.Catalog.Source = *source
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLoggerWithFormat(debugMode, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("catalog", cfg.Catalog.Source),
		zap.Bool("debug", debugMode),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	idx := newIndexer(cfg, logger)
	snap, _, err := idx.Rebuild(ctx)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.String("snapshot", snap.ID),
		zap.Int("movies", snap.Engine.Len()),
		zap.Int("vocabulary", snap.Engine.VocabularySize()),
		zap.Duration("build_time", snap.BuildTime),
	)

	if cfg.Catalog.Watch && !cfg.Catalog.IsBuiltin() {
		w := watcher.NewWatcher(idx.Source(), idx.OnCatalogChange(ctx),
			watcher.WithLogger(logger),
			watcher.WithDebounce(cfg.Catalog.Debounce()),
		)
		if err := w.Start(ctx); err != nil {
			logger.Fatal("Failed to start catalog watcher", zap.Error(err))
		}
		defer w.Stop()
	}

	srv := server.NewServer(idx, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigChan {
		if sig != syscall.SIGHUP {
			break
		}
		idx.OnCatalogChange(ctx)(idx.Source())
	}

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// reorderArgs moves any flags (and their values) that appear after the positional
// arguments to the front so that flag.Parse() sees them. Go's flag package stops at
// the first non-flag argument, so "niteru recommend The Matrix --top 3" would
// otherwise leave --top unparsed.
func reorderArgs(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// joinArgs joins positional args with spaces so multi-word titles work with or without quotes.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// queryOptions are the flags shared by every query command.
type queryOptions struct {
	configPath string
	serverURL  string
	output     string
	topN       int
	limit      int
	k          int
	fuzzy      bool
	highlight  bool
	filter     cli.MovieFilter
}

func parseQueryFlags(command string, args []string) (*queryOptions, []string) {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	opts := &queryOptions{}
	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "config file path (in-process mode)")
	fs.StringVar(&opts.serverURL, "server", os.Getenv(serverEnv), "server URL; empty answers in-process from the configured catalog")
	fs.StringVar(&opts.output, "output", "text", "output format: text, compact, or json")
	fs.IntVar(&opts.topN, "top", 0, "number of results (0 = configured default)")
	fs.IntVar(&opts.limit, "limit", 0, "number of search hits (0 = configured default)")
	fs.IntVar(&opts.k, "k", 10, "number of shared terms to explain")
	fs.BoolVar(&opts.fuzzy, "fuzzy", false, "enable typo-tolerant search")
	fs.BoolVar(&opts.highlight, "highlight", false, "show matched fragments in search hits")
	fs.StringVar(&opts.filter.Genre, "genre", "", "only movies with a genre containing this text")
	fs.IntVar(&opts.filter.From, "from", 0, "earliest release year")
	fs.IntVar(&opts.filter.To, "to", 0, "latest release year")
	fs.Float64Var(&opts.filter.MinRating, "min-rating", 0, "minimum rating")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: niteru %s [flags] %s\n\n", command, queryArgsUsage(command))
		fs.PrintDefaults()
	}
	_ = fs.Parse(reorderArgs(args))
	return opts, fs.Args()
}

func queryArgsUsage(command string) string {
	switch command {
	case "recommend", "details":
		return "<title>"
	case "genre":
		return "<genre>"
	case "text":
		return "<description>"
	case "search":
		return "<query>"
	case "explain":
		return "<title-a> <title-b>"
	}
	return ""
}

// openBackend returns a client when a server URL is set, otherwise an in-process backend
// built from the configured catalog.
func openBackend(opts *queryOptions) (cli.Backend, error) {
	if opts.serverURL != "" {
		return cli.NewClient(opts.serverURL, nil), nil
	}
	cfg, _, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := utils.NewLoggerWithFormat(cfg.Debug, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	idx := newIndexer(cfg, logger)
	if _, _, err := idx.Rebuild(context.Background()); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cli.NewLocal(idx, cfg.Query), nil
}

func runQuery(command string, args []string) {
	opts, rest := parseQueryFlags(command, args)
	format, err := cli.ParseOutputFormat(opts.output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if usage := queryArgsUsage(command); usage != "" && joinArgs(rest) == "" {
		fmt.Fprintf(os.Stderr, "Usage: niteru %s [flags] %s\n", command, usage)
		os.Exit(1)
	}
	if command == "explain" && len(rest) != 2 {
		fmt.Fprintln(os.Stderr, `Usage: niteru explain [flags] "<title-a>" "<title-b>"`)
		os.Exit(1)
	}
	backend, err := openBackend(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := execQuery(context.Background(), backend, command, rest, opts, format, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %s\n", command, describeError(err))
		os.Exit(1)
	}
}

// execQuery runs one query command against backend and writes the result to w.
func execQuery(ctx context.Context, b cli.Backend, command string, rest []string, opts *queryOptions, format cli.OutputFormat, w io.Writer) error {
	switch command {
	case "recommend":
		resp, err := b.Recommend(ctx, joinArgs(rest), opts.topN)
		if err != nil {
			return err
		}
		return cli.WriteRecommendations(w, resp, format)
	case "genre":
		resp, err := b.RecommendGenre(ctx, joinArgs(rest), opts.topN)
		if err != nil {
			return err
		}
		return cli.WriteRecommendations(w, resp, format)
	case "random":
		resp, err := b.RecommendRandom(ctx, opts.topN)
		if err != nil {
			return err
		}
		return cli.WriteRecommendations(w, resp, format)
	case "text":
		resp, err := b.SimilarText(ctx, joinArgs(rest), opts.topN)
		if err != nil {
			return err
		}
		return cli.WriteRecommendations(w, resp, format)
	case "explain":
		resp, err := b.Explain(ctx, strings.TrimSpace(rest[0]), strings.TrimSpace(rest[1]), opts.k)
		if err != nil {
			return err
		}
		return cli.WriteExplain(w, resp, format)
	case "pairs":
		list, err := b.SimilarPairs(ctx, opts.topN)
		if err != nil {
			return err
		}
		return cli.WritePairs(w, list, format)
	case "movies":
		list, err := b.Movies(ctx, opts.filter)
		if err != nil {
			return err
		}
		return cli.WriteMovies(w, list, format)
	case "details":
		m, err := b.Movie(ctx, joinArgs(rest))
		if err != nil {
			return err
		}
		return cli.WriteMovie(w, m, format)
	case "top":
		list, err := b.TopRated(ctx, opts.topN)
		if err != nil {
			return err
		}
		return cli.WriteMovies(w, list, format)
	case "search":
		resp, err := b.Search(ctx, models.SearchRequest{Query: joinArgs(rest), Limit: opts.limit, Fuzzy: opts.fuzzy, Highlight: opts.highlight})
		if err != nil {
			return err
		}
		return cli.WriteSearchResults(w, resp, format)
	case "stats":
		st, err := b.Stats(ctx)
		if err != nil {
			return err
		}
		return cli.WriteStats(w, st, format)
	case "status":
		st, err := b.Status(ctx)
		if err != nil {
			return err
		}
		return cli.WriteStatus(w, st, format)
	}
	return fmt.Errorf("unknown command %q", command)
}

// describeError appends title suggestions to not-found errors.
func describeError(err error) string {
	var nf *corpus.ItemNotFoundError
	if errors.As(err, &nf) && len(nf.Suggestions) > 0 {
		return fmt.Sprintf("%v (did you mean: %s?)", err, strings.Join(nf.Suggestions, ", "))
	}
	return err.Error()
}

func runRebuild(args []string) {
	fs := flag.NewFlagSet("rebuild", flag.ExitOnError)
	serverURL := fs.String("server", envOr(serverEnv, "http://localhost:8080"), "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	res, err := cli.NewClient(*serverURL, nil).Rebuild(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Rebuild failed: %v\n", err)
		os.Exit(1)
	}
	if format != cli.OutputJSON {
		fmt.Printf("changed:            %t\n", res.Changed)
	}
	_ = cli.WriteStatus(os.Stdout, &res.Status, format)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func runConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: niteru convert <source> <destination>\n\n")
		fmt.Fprintf(fs.Output(), "Source is \"builtin\", \"builtin:enhanced\", or a catalog file; formats are chosen by extension (%s).\n",
			strings.Join(catalog.SupportedExtensions, ", "))
	}
	_ = fs.Parse(args)
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(1)
	}
	n, err := convertCatalog(context.Background(), fs.Arg(0), fs.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Convert failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d movie(s) to %s\n", n, fs.Arg(1))
}

// convertCatalog loads a catalog and writes it to dst in the format of dst's extension.
func convertCatalog(ctx context.Context, src, dst string) (int, error) {
	movies, err := catalog.Load(ctx, src)
	if err != nil {
		return 0, err
	}
	if _, err := corpus.Load(movies); err != nil {
		return 0, fmt.Errorf("invalid catalog: %w", err)
	}
	if err := catalog.Save(ctx, dst, movies); err != nil {
		return 0, err
	}
	return len(movies), nil
}

func runAdd(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	path := fs.String("catalog", "", "sqlite catalog file (.db, .sqlite, .sqlite3)")
	title := fs.String("title", "", "movie title")
	description := fs.String("description", "", "plot keywords or synopsis")
	genres := fs.String("genres", "", "comma-separated genres")
	year := fs.Int("year", 0, "release year")
	rating := fs.Float64("rating", 0, "rating from 0 to 10")
	_ = fs.Parse(args)
	if *path == "" {
		fmt.Fprintln(os.Stderr, "Usage: niteru add --catalog movies.db --title <title> --description <text> [--genres a,b] [--year N] [--rating R]")
		os.Exit(1)
	}
	movie := models.Movie{
		Title:       *title,
		Description: *description,
		Genres:      catalog.ParseGenres(*genres),
		Year:        *year,
		Rating:      *rating,
	}
	added, n, err := catalog.Upsert(context.Background(), *path, movie)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Add failed: %v\n", err)
		os.Exit(1)
	}
	verb := "Updated"
	if added {
		verb = "Added"
	}
	fmt.Printf("%s %q (%d movies in %s)\n", verb, strings.TrimSpace(*title), n, *path)
}

func runRemove(args []string) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	path := fs.String("catalog", "", "sqlite catalog file")
	_ = fs.Parse(reorderArgs(args))
	title := joinArgs(fs.Args())
	if *path == "" || title == "" {
		fmt.Fprintln(os.Stderr, "Usage: niteru remove --catalog movies.db <title>")
		os.Exit(1)
	}
	n, err := catalog.Remove(context.Background(), *path, title)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Remove failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Removed %q (%d movies left in %s)\n", title, n, *path)
}

func printUsage() {
	fmt.Println(`niteru - content-based movie recommender

Usage:
  niteru server [flags]                Start the HTTP server
  niteru recommend [flags] <title>     Movies similar to a title
  niteru genre [flags] <genre>         Recommendations seeded by the first movie of a genre
  niteru random [flags]                Recommendations seeded by a random movie
  niteru text [flags] <description>    Movies similar to free text
  niteru explain [flags] <a> <b>       Similarity of two titles and the terms they share
  niteru pairs [flags]                 Most similar pairs of movies in the catalog
  niteru movies [flags]                List movies, optionally filtered
  niteru details [flags] <title>       Show one movie
  niteru top [flags]                   Highest rated movies
  niteru search [flags] <query>        Full-text catalog search
  niteru stats [flags]                 Catalog statistics
  niteru status [flags]                Active catalog snapshot
  niteru rebuild [flags]               Ask a running server to reload its catalog
  niteru convert <source> <dest>       Convert a catalog between yaml, json, xlsx, and sqlite
  niteru add [flags]                   Add or update a movie in a sqlite catalog
  niteru remove [flags] <title>        Remove a movie from a sqlite catalog
  niteru version                       Show version
  niteru help                          Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/niteru/config.yaml)
  --catalog string   Catalog source, overrides catalog.source
  --debug            Enable debug logging

Query Flags:
  --config string    Config file path (in-process mode)
  --server string    Server URL (default: $NITERU_SERVER). Empty answers in-process.
  --output string    Output format: text, compact, or json (default: text)
  --top int          Number of results (default from config)
  --limit int        Number of search hits (default from config)
  --fuzzy            Typo-tolerant search
  --highlight        Show matched fragments in search hits
  --k int            Shared terms to explain (default: 10)
  --genre string     movies: genre filter
  --from, --to int   movies: release year range
  --min-rating float movies: minimum rating

Examples:
  niteru server --catalog ./movies.yaml
  niteru server --catalog builtin:enhanced
  niteru recommend Inception --top 3
  niteru recommend "The Dark Knight" --output json
  niteru genre sci-fi
  niteru text "a heist inside a dream"
  niteru explain Inception Tenet
  niteru pairs --top 10
  niteru movies --genre drama --from 1990 --to 1999
  niteru search --fuzzy gotam
  niteru convert builtin movies.xlsx
  niteru convert builtin movies.db
  niteru add --catalog movies.db --title Heat --description "heist crime detective" --genres Crime,Thriller --year 1995 --rating 8.3
  niteru remove --catalog movies.db Heat`)
}
