// Package batch previews many URLs concurrently, one single-use provider
// per URL.
package batch

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/linkpreview"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when Runner.Concurrency is not positive.
const DefaultConcurrency = 4

// Result is the outcome for one URL. Exactly one of Metadata and Err is set.
type Result struct {
	URL      string
	Metadata *linkpreview.LinkMetadata
	Err      error
}

// Progress reports progress as URLs complete.
type Progress struct {
	URL       string
	Completed int
	Total     int
	Err       error
}

// ProgressFunc is called once per completed URL. Calls are serialized.
type ProgressFunc func(Progress)

// Runner previews a list of URLs.
type Runner struct {
	// NewProvider returns a fresh provider for each URL.
	NewProvider func() linkpreview.MetadataProvider

	// RateLimiter throttles requests per domain. Optional.
	RateLimiter linkpreview.DomainLimiter

	// Concurrency bounds in-flight fetches.
	Concurrency int
}

// Run previews every URL and returns results in input order. A failure for
// one URL never stops the others.
func (r *Runner) Run(ctx context.Context, urls []string, progress ProgressFunc) []Result {
	results := make([]Result, len(urls))

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var (
		g         errgroup.Group
		mu        sync.Mutex
		completed int
	)
	g.SetLimit(concurrency)

	for i, rawURL := range urls {
		g.Go(func() error {
			res := r.runOne(ctx, rawURL)
			results[i] = res

			if progress != nil {
				mu.Lock()
				completed++
				progress(Progress{
					URL:       rawURL,
					Completed: completed,
					Total:     len(urls),
					Err:       res.Err,
				})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Runner) runOne(ctx context.Context, rawURL string) Result {
	res := Result{URL: rawURL}

	if r.RateLimiter != nil {
		if domain := domainOf(rawURL); domain != "" {
			if err := r.RateLimiter.Wait(ctx, domain); err != nil {
				res.Err = waitError(ctx, err)
				return res
			}
		}
	}

	res.Metadata, res.Err = r.NewProvider().FetchURL(ctx, rawURL)
	if res.Err != nil {
		res.Metadata = nil
	}
	return res
}

// domainOf returns the lowercase host of rawURL, or "" if it has none.
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// waitError maps a limiter failure to a linkpreview error. The limiter
// fails early when the wait would outlast the context deadline.
func waitError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return linkpreview.WrapError(linkpreview.ECANCELLED, err, "cancelled while waiting for rate limit")
	}
	return linkpreview.WrapError(linkpreview.ETIMEDOUT, err, "timed out while waiting for rate limit")
}
