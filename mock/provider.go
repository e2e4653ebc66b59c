package mock

import (
	"context"

	"github.com/fwojciec/linkpreview"
)

var _ linkpreview.MetadataProvider = (*MetadataProvider)(nil)

// MetadataProvider is a mock implementation of linkpreview.MetadataProvider.
type MetadataProvider struct {
	FetchURLFn func(ctx context.Context, rawURL string) (*linkpreview.LinkMetadata, error)
}

func (p *MetadataProvider) FetchURL(ctx context.Context, rawURL string) (*linkpreview.LinkMetadata, error) {
	return p.FetchURLFn(ctx, rawURL)
}
