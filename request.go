package linkpreview

import (
	"net/http"
	"time"
)

// Default request settings.
const (
	DefaultTimeout = 30 * time.Second

	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"

	DefaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	DefaultAcceptEncoding = "gzip, deflate"
)

// Request describes a single metadata fetch.
// Treat a Request as immutable once it has been handed to a Provider.
type Request struct {
	URL     string
	Header  http.Header
	Timeout time.Duration
}

// NewRequest returns a GET request for rawURL with browser-like default
// headers and DefaultTimeout. The URL is not validated here.
func NewRequest(rawURL string) *Request {
	h := make(http.Header)
	h.Set("User-Agent", DefaultUserAgent)
	h.Set("Accept", DefaultAccept)
	h.Set("Accept-Encoding", DefaultAcceptEncoding)
	return &Request{
		URL:     rawURL,
		Header:  h,
		Timeout: DefaultTimeout,
	}
}

// Clone returns a deep copy of r.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	return &Request{
		URL:     r.URL,
		Header:  r.Header.Clone(),
		Timeout: r.Timeout,
	}
}
