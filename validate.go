package linkpreview

import (
	"net/url"
	"strings"
)

// ValidateURL parses rawURL and checks that it can be fetched: the scheme
// must be http or https (case-insensitive) and the host must be non-empty.
// It performs no network I/O. All failures carry EINVALIDURL.
func ValidateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, WrapError(EINVALIDURL, err, "malformed URL %q", rawURL)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "":
		return nil, Errorf(EINVALIDURL, "URL %q has no scheme", rawURL)
	default:
		return nil, Errorf(EINVALIDURL, "unsupported URL scheme %q", u.Scheme)
	}

	if u.Hostname() == "" {
		return nil, Errorf(EINVALIDURL, "URL %q has no host", rawURL)
	}
	return u, nil
}
