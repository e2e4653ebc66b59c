package linkpreview

// Extractor extracts link metadata from raw HTML.
type Extractor interface {
	// Extract scans html and returns a new LinkMetadata seeded from base.
	// Fields already set on base are kept. Malformed markup is skipped,
	// never reported as an error. base is not modified.
	Extract(html string, base *LinkMetadata) (*LinkMetadata, error)
}
