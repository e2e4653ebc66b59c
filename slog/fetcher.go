// Package slog provides log/slog decorators for linkpreview services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkpreview"
)

// Ensure LoggingFetcher implements linkpreview.Fetcher.
var _ linkpreview.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   linkpreview.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next linkpreview.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, req *linkpreview.Request) (res *linkpreview.FetchResult, err error) {
	defer func(begin time.Time) {
		var (
			finalURL string
			n        int
		)
		if res != nil {
			n = len(res.HTML)
			if res.URL != nil {
				finalURL = res.URL.String()
			}
		}
		var rawURL string
		if req != nil {
			rawURL = req.URL
		}
		f.logger.Info("fetch",
			"url", rawURL,
			"final_url", finalURL,
			"bytes", n,
			"duration", time.Since(begin),
			"code", linkpreview.ErrorCode(err),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, req)
}
