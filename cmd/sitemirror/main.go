package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/kborowski/sitemirror"
	"github.com/kborowski/sitemirror/crawl"
	"github.com/kborowski/sitemirror/fs"
	"github.com/kborowski/sitemirror/goquery"
	mirrorhttp "github.com/kborowski/sitemirror/http"
	"github.com/kborowski/sitemirror/rod"
	mirrorslog "github.com/kborowski/sitemirror/slog"
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
	// NewRenderer constructs the page renderer. Overridable for end-to-end testing.
	NewRenderer func(settle time.Duration) (sitemirror.Renderer, error)

	// NewAssetFetcher constructs the asset fetcher. Overridable for end-to-end testing.
	NewAssetFetcher func() sitemirror.AssetFetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		NewRenderer: func(settle time.Duration) (sitemirror.Renderer, error) {
			return rod.NewRenderer(rod.WithSettleDelay(settle))
		},
		NewAssetFetcher: func() sitemirror.AssetFetcher {
			return mirrorhttp.NewAssetFetcher()
		},
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitemirror"),
		kong.Description("Mirror a dynamically rendered website for local serving."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no URL specified. Run 'sitemirror --help' for usage")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know the flags before wiring services
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Mirror.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	base, err := m.NewRenderer(cli.Mirror.Settle)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer base.Close()

	var renderer sitemirror.Renderer = base
	fetcher := m.NewAssetFetcher()
	if cli.Mirror.Verbose {
		renderer = rod.NewLoggingRenderer(base, logger)
		fetcher = mirrorslog.NewLoggingAssetFetcher(fetcher, logger)
	}

	deps.Crawler = &crawl.Crawler{
		Renderer: renderer,
		Mirrorer: &crawl.Mirrorer{
			Scanner:  goquery.NewScanner(),
			Rewriter: goquery.NewRewriter(),
			Assets:   fetcher,
			Pages:    fs.NewPageStore(cli.Mirror.Output),
		},
		Links:         goquery.NewLinkExtractor(),
		Limiter:       crawl.NewDomainLimiter(cli.Mirror.Rate),
		Concurrency:   cli.Mirror.Concurrency,
		RenderTimeout: cli.Mirror.Timeout,
	}

	return kongCtx.Run(deps)
}
