// Package http provides an HTTP-based implementation of linkpreview.Fetcher.
package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/linkpreview"
)

const (
	// DefaultMaxRedirects caps how many redirects a fetch follows.
	DefaultMaxRedirects = 10

	// DefaultMaxBodySize caps the decoded response body (10 MiB).
	DefaultMaxBodySize int64 = 10 << 20
)

// Ensure Fetcher implements linkpreview.Fetcher at compile time.
var _ linkpreview.Fetcher = (*Fetcher)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Fetcher retrieves HTML content using a single HTTP GET per call.
// It does not execute JavaScript, retry or cache.
type Fetcher struct {
	client       *http.Client
	maxRedirects int
	maxBodySize  int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets the underlying HTTP client. The client is copied; its
// redirect policy is replaced by the Fetcher's.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithMaxRedirects sets the redirect cap.
// Defaults to DefaultMaxRedirects if not specified.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		f.maxRedirects = n
	}
}

// WithMaxBodySize sets the maximum decoded body size in bytes.
// Defaults to DefaultMaxBodySize if not specified.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		maxRedirects: DefaultMaxRedirects,
		maxBodySize:  DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	var client http.Client
	if f.client != nil {
		client = *f.client
	}
	client.CheckRedirect = f.checkRedirect
	f.client = &client

	return f
}

// Fetch performs one GET request for req and returns the body as UTF-8 text
// along with the URL that answered.
//
// Errors carry linkpreview codes: ETIMEDOUT when req.Timeout or the context
// deadline expires, ECANCELLED when ctx is cancelled, EFETCHFAILED for any
// other transport failure, non-2xx status or undecodable body.
func (f *Fetcher) Fetch(ctx context.Context, req *linkpreview.Request) (*linkpreview.FetchResult, error) {
	if req == nil || req.URL == "" {
		return nil, linkpreview.Errorf(linkpreview.EFETCHFAILED, "request has no URL")
	}

	reqCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, linkpreview.WrapError(linkpreview.EINVALIDURL, err, "malformed URL %q", req.URL)
	}
	if req.Header != nil {
		httpReq.Header = req.Header.Clone()
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, classify(ctx, err, "request %s", req.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, linkpreview.Errorf(linkpreview.EFETCHFAILED, "HTTP %d for %s", resp.StatusCode, req.URL)
	}

	body, err := f.readBody(resp)
	if err != nil {
		var e *linkpreview.Error
		if errors.As(err, &e) {
			return nil, err
		}
		return nil, classify(ctx, err, "read body of %s", req.URL)
	}
	body = bytes.TrimPrefix(body, utf8BOM)
	if !utf8.Valid(body) {
		return nil, linkpreview.Errorf(linkpreview.EFETCHFAILED, "response body of %s is not valid UTF-8", req.URL)
	}

	final := httpReq.URL
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL
	}
	u := *final

	return &linkpreview.FetchResult{
		HTML: string(body),
		URL:  &u,
	}, nil
}

// readBody decodes and reads the response body up to the size cap.
func (f *Fetcher) readBody(resp *http.Response) ([]byte, error) {
	r, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}
	if c, ok := r.(io.Closer); ok && r != resp.Body {
		defer c.Close()
	}

	body, err := io.ReadAll(io.LimitReader(r, f.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, linkpreview.Errorf(linkpreview.EFETCHFAILED, "response body exceeds %d bytes", f.maxBodySize)
	}
	return body, nil
}

// checkRedirect caps redirect hops and only follows http and https targets.
func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= f.maxRedirects {
		return errors.New("too many redirects")
	}
	if !isHTTPScheme(req.URL) {
		return errors.New("redirect to unsupported scheme")
	}
	return nil
}

// classify maps a transport error to a linkpreview error code. parent is
// the caller's context, so its cancellation is distinguished from the
// request timeout.
func classify(parent context.Context, err error, format string, args ...any) error {
	switch {
	case errors.Is(parent.Err(), context.Canceled), errors.Is(err, context.Canceled):
		return linkpreview.WrapError(linkpreview.ECANCELLED, err, "cancelled: "+format, args...)
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return linkpreview.WrapError(linkpreview.ETIMEDOUT, err, "timed out: "+format, args...)
	default:
		return linkpreview.WrapError(linkpreview.EFETCHFAILED, err, format+": %v", append(args, err)...)
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
