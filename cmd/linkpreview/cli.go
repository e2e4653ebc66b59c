package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/linkpreview/batch"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Timeout     time.Duration     `short:"t" default:"30s" env:"LINKPREVIEW_TIMEOUT" help:"Fetch timeout per URL"`
	UserAgent   string            `name:"user-agent" short:"A" env:"LINKPREVIEW_USER_AGENT" help:"User-Agent header (default: desktop browser)"`
	Header      map[string]string `short:"H" help:"Extra request header as key=value (repeatable)"`
	Parser      string            `short:"p" default:"tagscan" enum:"tagscan,goquery" help:"Tag extraction strategy (tagscan, goquery)"`
	Concurrency int               `short:"c" default:"4" help:"Concurrent fetch limit"`
	Rate        float64           `short:"r" default:"1" help:"Requests per second per domain (0 disables limiting)"`
	Format      string            `short:"f" default:"json" enum:"json,text" help:"Output format (json, text)"`
	Verbose     bool              `short:"v" help:"Log fetches to stderr"`
	URLs        []string          `arg:"" name:"url" help:"URLs to preview"`
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Runner *batch.Runner
}

// PreviewCmd previews a list of URLs.
type PreviewCmd struct {
	URLs   []string
	Format string
}
