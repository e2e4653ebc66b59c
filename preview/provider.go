// Package preview composes a Fetcher and an Extractor into a single-use
// metadata provider.
package preview

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/linkpreview"
)

// Ensure Provider implements linkpreview.MetadataProvider at compile time.
var _ linkpreview.MetadataProvider = (*Provider)(nil)

// Provider fetches one page and extracts its link metadata.
//
// A Provider services at most one request over its lifetime, whether that
// request succeeds or fails. Fetch marks the provider used before doing
// anything else. FetchURL rejects an invalid URL with EINVALIDURL without
// marking it used; any URL that passes validation consumes it. Create a new
// Provider for each extraction.
// Concurrent callers are safe: exactly one proceeds, the rest receive
// linkpreview.ErrAlreadyCalled.
type Provider struct {
	fetcher   linkpreview.Fetcher
	extractor linkpreview.Extractor
	guard     Guard

	userAgent string
	timeout   time.Duration
	header    http.Header
}

// Option configures a Provider.
type Option func(*Provider)

// WithUserAgent overrides the User-Agent used by FetchURL.
func WithUserAgent(ua string) Option {
	return func(p *Provider) {
		p.userAgent = ua
	}
}

// WithTimeout overrides the request timeout used by FetchURL.
// Defaults to linkpreview.DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.timeout = d
	}
}

// WithHeader adds a header to requests built by FetchURL.
func WithHeader(key, value string) Option {
	return func(p *Provider) {
		if p.header == nil {
			p.header = make(http.Header)
		}
		p.header.Add(key, value)
	}
}

// NewProvider creates a Provider that fetches with fetcher and extracts
// with extractor.
func NewProvider(fetcher linkpreview.Fetcher, extractor linkpreview.Extractor, opts ...Option) *Provider {
	p := &Provider{
		fetcher:   fetcher,
		extractor: extractor,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchURL validates rawURL, builds a default request for it and calls Fetch.
// An invalid URL fails with EINVALIDURL before the provider is marked used.
func (p *Provider) FetchURL(ctx context.Context, rawURL string) (*linkpreview.LinkMetadata, error) {
	if _, err := linkpreview.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	return p.Fetch(ctx, p.newRequest(rawURL))
}

// Fetch marks the provider used, validates req, fetches the page and
// extracts its metadata. Errors from any stage are returned unchanged and
// no partial metadata is ever returned.
func (p *Provider) Fetch(ctx context.Context, req *linkpreview.Request) (*linkpreview.LinkMetadata, error) {
	if err := p.guard.RecordCall(); err != nil {
		return nil, err
	}

	if req == nil || req.URL == "" {
		return nil, linkpreview.Errorf(linkpreview.EFETCHFAILED, "request has no URL")
	}
	original, err := linkpreview.ValidateURL(req.URL)
	if err != nil {
		return nil, err
	}

	res, err := p.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	final := res.URL
	if final == nil {
		final = original
	}
	m, err := p.extractor.Extract(res.HTML, linkpreview.NewLinkMetadata(original, final))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Used reports whether the provider has been called.
func (p *Provider) Used() bool {
	return p.guard.Used()
}

func (p *Provider) newRequest(rawURL string) *linkpreview.Request {
	req := linkpreview.NewRequest(rawURL)
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	if p.timeout > 0 {
		req.Timeout = p.timeout
	}
	for key, values := range p.header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return req
}
