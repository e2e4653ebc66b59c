package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/linkpreview"
	"github.com/fwojciec/linkpreview/batch"
	"github.com/fwojciec/linkpreview/goquery"
	lphttp "github.com/fwojciec/linkpreview/http"
	"github.com/fwojciec/linkpreview/preview"
	lpslog "github.com/fwojciec/linkpreview/slog"
	"github.com/fwojciec/linkpreview/tagscan"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("linkpreview"),
		kong.Description("Fetch web pages and print link preview metadata"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no URLs provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: newLogger(stderr, cli.Verbose),
	}

	// Wire fetcher and extractor behind logging decorators
	var fetcher linkpreview.Fetcher = lphttp.NewFetcher()
	fetcher = lpslog.NewLoggingFetcher(fetcher, deps.Logger)

	var extractor linkpreview.Extractor
	switch cli.Parser {
	case "goquery":
		extractor = goquery.NewExtractor()
	default:
		extractor = tagscan.NewExtractor()
	}
	extractor = lpslog.NewLoggingExtractor(extractor, deps.Logger)

	opts := []preview.Option{preview.WithTimeout(cli.Timeout)}
	if cli.UserAgent != "" {
		opts = append(opts, preview.WithUserAgent(cli.UserAgent))
	}
	for key, value := range cli.Header {
		opts = append(opts, preview.WithHeader(key, value))
	}

	deps.Runner = &batch.Runner{
		NewProvider: func() linkpreview.MetadataProvider {
			return preview.NewProvider(fetcher, extractor, opts...)
		},
		RateLimiter: batch.NewDomainLimiter(cli.Rate),
		Concurrency: cli.Concurrency,
	}

	cmd := &PreviewCmd{
		URLs:   cli.URLs,
		Format: cli.Format,
	}
	return cmd.Run(deps)
}

// newLogger returns a text logger on w. Without verbose, only warnings are shown.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
