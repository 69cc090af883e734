package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docbase"
	"github.com/fwojciec/docbase/drift"
	"github.com/fwojciec/docbase/fetch"
	"github.com/fwojciec/docbase/fs"
	"github.com/fwojciec/docbase/goquery"
	"github.com/fwojciec/docbase/htmltomarkdown"
	dochttp "github.com/fwojciec/docbase/http"
	"github.com/fwojciec/docbase/readability"
	"github.com/fwojciec/docbase/resolve"
	"github.com/fwojciec/docbase/search"
	docslog "github.com/fwojciec/docbase/slog"
	"github.com/fwojciec/docbase/sqlite"
	"github.com/fwojciec/docbase/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Corpus root directory. Set before calling Run().
	Root string

	// Inverted cache used by the search engine.
	Cache *sqlite.Cache

	// Services for end-to-end testing.
	Index    *fs.Index
	Store    *fs.Store
	Resolver docbase.Resolver
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Root: defaultRoot(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Cache != nil {
		return m.Cache.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docbase"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docbase --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(m.Root, 0755); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCBASE_ROOT to use a different corpus directory\n")
		return fmt.Errorf("failed to create corpus root at %q: %w", m.Root, err)
	}

	logger := newLogger(stderr)

	keywords := &docbase.FrequencyExtractor{}
	rules, err := fs.LoadTagRules(filepath.Join(m.Root, "tags.yml"))
	if err != nil {
		return fmt.Errorf("failed to load tag rules: %w", err)
	}
	tagger := docbase.NewRuleTagger(rules)

	m.Store = fs.NewStore(m.Root)
	m.Index = fs.NewIndex(m.Root)
	m.Index.Store = m.Store
	m.Index.Keywords = keywords
	m.Index.Tagger = tagger
	m.Index.Logger = logger

	m.Cache = sqlite.NewCache(filepath.Join(m.Root, "cache.db"))
	if err := m.Cache.Open(); err != nil {
		return fmt.Errorf("failed to open search cache: %w", err)
	}
	defer m.Close()

	engine := search.NewEngine(m.Index, m.Store, m.Cache)
	engine.Logger = logger

	extractors := []docbase.Extractor{
		trafilatura.NewExtractor(),
		readability.NewExtractor(),
		goquery.NewExtractor(),
	}
	converter := htmltomarkdown.NewConverter()

	var detector *drift.Detector
	switch cmd {
	case "fetch":
		fetcher := docslog.NewLoggingFetcher(dochttp.NewFetcher(), logger)
		defer fetcher.Close()

		deps.Runner = &fetch.Runner{
			Fetcher:     fetcher,
			Extractors:  extractors,
			Converter:   converter,
			Store:       m.Store,
			Index:       m.Index,
			Keywords:    keywords,
			Tagger:      tagger,
			Limiter:     fetch.NewLimiter(time.Duration(cli.Fetch.Delay) * time.Millisecond),
			RetryDelays: fetch.DefaultRetryDelays(),
			Logger:      logger,
		}
		deps.Manifests = func(ref string) docbase.ManifestSource {
			if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
				return dochttp.NewManifestSource(nil)
			}
			return fs.NewManifestFile()
		}

	case "drift", "cleanup":
		fetcher := docslog.NewLoggingFetcher(dochttp.NewFetcher(), logger)
		defer fetcher.Close()

		detector = &drift.Detector{
			Fetcher:     fetcher,
			Extractors:  extractors,
			Converter:   converter,
			Store:       m.Store,
			Index:       m.Index,
			Keywords:    keywords,
			Tagger:      tagger,
			Limiter:     fetch.NewLimiter(1 * time.Second),
			RetryDelays: fetch.DefaultRetryDelays(),
			Logger:      logger,
		}
		if cmd == "cleanup" {
			detector.RemovalThreshold = cli.Cleanup.Threshold
		}
	}

	m.Resolver = &resolve.Resolver{
		Index:  m.Index,
		Store:  m.Store,
		Search: docslog.NewLoggingSearchService(engine, logger),
		Drift:  detector,
	}

	deps.Index = m.Index
	deps.Store = m.Store
	deps.Resolver = m.Resolver

	return kongCtx.Run(deps)
}

// newLogger builds the process logger. DOCBASE_DEBUG enables debug output.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("DOCBASE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultRoot() string {
	if path := os.Getenv("DOCBASE_ROOT"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docbase"
	}
	return filepath.Join(home, ".docbase")
}
