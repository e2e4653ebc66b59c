package mock

import "github.com/fwojciec/linkpreview"

var _ linkpreview.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of linkpreview.Extractor.
type Extractor struct {
	ExtractFn func(html string, base *linkpreview.LinkMetadata) (*linkpreview.LinkMetadata, error)
}

func (e *Extractor) Extract(html string, base *linkpreview.LinkMetadata) (*linkpreview.LinkMetadata, error) {
	return e.ExtractFn(html, base)
}
