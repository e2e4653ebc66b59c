package linkpreview

import (
	"context"
	"net/url"
)

// FetchResult is the decoded body of a fetched page.
type FetchResult struct {
	// HTML is the response body decoded as UTF-8 text.
	HTML string

	// URL is the URL that answered, after redirects. Never nil on success.
	URL *url.URL
}

// Fetcher retrieves HTML for a request.
type Fetcher interface {
	// Fetch performs exactly one request: no retries, no caching.
	// The context controls cancellation; req.Timeout bounds the request.
	Fetch(ctx context.Context, req *Request) (*FetchResult, error)
}
