// Package linkpreview fetches a web page and extracts the small, structured
// summary needed to render a link preview: title, representative image,
// icon and video references.
//
// This package contains domain types, interfaces and extraction rules
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., http/, goquery/).
package linkpreview

import (
	"context"
	"net/url"
)

// MetadataProvider extracts link metadata for a single URL.
type MetadataProvider interface {
	FetchURL(ctx context.Context, rawURL string) (*LinkMetadata, error)
}

// DomainLimiter rate limits requests per domain.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}

// cloneURL returns a copy of u so callers never share a mutable *url.URL.
func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
