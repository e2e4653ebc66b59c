package preview_test

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/linkpreview"
	"github.com/fwojciec/linkpreview/mock"
	"github.com/fwojciec/linkpreview/preview"
	"github.com/fwojciec/linkpreview/tagscan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticFetcher(html string, final string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, req *linkpreview.Request) (*linkpreview.FetchResult, error) {
			res := &linkpreview.FetchResult{HTML: html}
			if final != "" {
				u, err := url.Parse(final)
				if err != nil {
					return nil, err
				}
				res.URL = u
			}
			return res, nil
		},
	}
}

func TestProvider_FetchURL(t *testing.T) {
	t.Parallel()

	t.Run("fetches and extracts metadata", func(t *testing.T) {
		t.Parallel()

		fetcher := staticFetcher(`<meta property="og:title" content="Hello"><meta property="og:image" content="https://example.com/i.png">`, "https://www.example.com/")
		p := preview.NewProvider(fetcher, tagscan.NewExtractor())

		m, err := p.FetchURL(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", m.OriginalURL.String())
		assert.Equal(t, "https://www.example.com/", m.FinalURL.String())
		assert.Equal(t, "Hello", m.Title)
		require.NotNil(t, m.ImageURL)
		assert.Equal(t, "https://example.com/i.png", m.ImageURL.String())
	})

	t.Run("builds default request", func(t *testing.T) {
		t.Parallel()

		var got *linkpreview.Request
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, req *linkpreview.Request) (*linkpreview.FetchResult, error) {
				got = req
				return &linkpreview.FetchResult{}, nil
			},
		}
		p := preview.NewProvider(fetcher, tagscan.NewExtractor())

		_, err := p.FetchURL(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.URL)
		assert.Equal(t, linkpreview.DefaultTimeout, got.Timeout)
		assert.Equal(t, linkpreview.DefaultUserAgent, got.Header.Get("User-Agent"))
		assert.Equal(t, linkpreview.DefaultAccept, got.Header.Get("Accept"))
		assert.Equal(t, linkpreview.DefaultAcceptEncoding, got.Header.Get("Accept-Encoding"))
	})

	t.Run("applies options to default request", func(t *testing.T) {
		t.Parallel()

		var got *linkpreview.Request
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, req *linkpreview.Request) (*linkpreview.FetchResult, error) {
				got = req
				return &linkpreview.FetchResult{}, nil
			},
		}
		p := preview.NewProvider(fetcher, tagscan.NewExtractor(),
			preview.WithUserAgent("bot/1.0"),
			preview.WithTimeout(5*time.Second),
			preview.WithHeader("Accept-Language", "en"),
			preview.WithHeader("accept", "text/html"),
		)

		_, err := p.FetchURL(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, got.Timeout)
		assert.Equal(t, "bot/1.0", got.Header.Get("User-Agent"))
		assert.Equal(t, "en", got.Header.Get("Accept-Language"))
		assert.Equal(t, []string{"text/html"}, got.Header.Values("Accept"))
	})

	t.Run("rejects invalid URLs before fetching", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"ftp://example.com", "example.com", "https://"} {
			fetcher := &mock.Fetcher{
				FetchFn: func(ctx context.Context, req *linkpreview.Request) (*linkpreview.FetchResult, error) {
					t.Fatal("fetch must not be called")
					return nil, nil
				},
			}
			p := preview.NewProvider(fetcher, tagscan.NewExtractor())

			_, err := p.FetchURL(context.Background(), raw)

			require.Error(t, err, raw)
			assert.Equal(t, linkpreview.EINVALIDURL, linkpreview.ErrorCode(err), raw)
		}
	})

	t.Run("invalid URL leaves the provider unused", func(t *testing.T) {
		t.Parallel()

		p := preview.NewProvider(staticFetcher("<title>T</title>", ""), tagscan.NewExtractor())

		_, err := p.FetchURL(context.Background(), "ftp://example.com")
		assert.Equal(t, linkpreview.EINVALIDURL, linkpreview.ErrorCode(err))
		assert.False(t, p.Used())

		m, err := p.FetchURL(context.Background(), "https://example.com")
		require.NoError(t, err)
		assert.Equal(t, "T", m.Title)
		assert.True(t, p.Used())
	})
}

func TestProvider_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("second call fails after success", func(t *testing.T) {
		t.Parallel()

		p := preview.NewProvider(staticFetcher("<title>T</title>", ""), tagscan.NewExtractor())

		m, err := p.Fetch(context.Background(), linkpreview.NewRequest("https://example.com"))
		require.NoError(t, err)
		assert.Equal(t, "T", m.Title)
		assert.Equal(t, "https://example.com", m.FinalURL.String())

		_, err = p.Fetch(context.Background(), linkpreview.NewRequest("https://example.com"))
		assert.ErrorIs(t, err, linkpreview.ErrAlreadyCalled)
		assert.True(t, p.Used())
	})

	t.Run("second call fails after failure", func(t *testing.T) {
		t.Parallel()

		fetchErr := linkpreview.Errorf(linkpreview.EFETCHFAILED, "HTTP 500 for https://example.com")
		var calls atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, req *linkpreview.Request) (*linkpreview.FetchResult, error) {
				calls.Add(1)
				return nil, fetchErr
			},
		}
		p := preview.NewProvider(fetcher, tagscan.NewExtractor())

		m, err := p.Fetch(context.Background(), linkpreview.NewRequest("https://example.com"))
		assert.Nil(t, m)
		assert.Same(t, fetchErr, err)

		_, err = p.FetchURL(context.Background(), "https://example.com")
		assert.ErrorIs(t, err, linkpreview.ErrAlreadyCalled)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("invalid request URL still consumes the provider", func(t *testing.T) {
		t.Parallel()

		p := preview.NewProvider(staticFetcher("", ""), tagscan.NewExtractor())

		_, err := p.Fetch(context.Background(), linkpreview.NewRequest("ftp://example.com"))
		assert.Equal(t, linkpreview.EINVALIDURL, linkpreview.ErrorCode(err))

		_, err = p.Fetch(context.Background(), linkpreview.NewRequest("https://example.com"))
		assert.ErrorIs(t, err, linkpreview.ErrAlreadyCalled)
	})

	t.Run("request without URL fails with EFETCHFAILED", func(t *testing.T) {
		t.Parallel()

		p := preview.NewProvider(staticFetcher("", ""), tagscan.NewExtractor())

		_, err := p.Fetch(context.Background(), &linkpreview.Request{})
		assert.Equal(t, linkpreview.EFETCHFAILED, linkpreview.ErrorCode(err))

		p = preview.NewProvider(staticFetcher("", ""), tagscan.NewExtractor())
		_, err = p.Fetch(context.Background(), nil)
		assert.Equal(t, linkpreview.EFETCHFAILED, linkpreview.ErrorCode(err))
	})

	t.Run("propagates cancellation unchanged", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, req *linkpreview.Request) (*linkpreview.FetchResult, error) {
				<-ctx.Done()
				return nil, linkpreview.WrapError(linkpreview.ECANCELLED, ctx.Err(), "cancelled")
			},
		}
		p := preview.NewProvider(fetcher, tagscan.NewExtractor())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		m, err := p.FetchURL(ctx, "https://example.com")
		assert.Nil(t, m)
		assert.Equal(t, linkpreview.ECANCELLED, linkpreview.ErrorCode(err))
	})

	t.Run("returns no metadata when extraction fails", func(t *testing.T) {
		t.Parallel()

		extractErr := errors.New("extract failed")
		extractor := &mock.Extractor{
			ExtractFn: func(html string, base *linkpreview.LinkMetadata) (*linkpreview.LinkMetadata, error) {
				return base, extractErr
			},
		}
		p := preview.NewProvider(staticFetcher("<html>", ""), extractor)

		m, err := p.FetchURL(context.Background(), "https://example.com")
		assert.Nil(t, m)
		assert.Same(t, extractErr, err)
		assert.Equal(t, linkpreview.EUNKNOWN, linkpreview.ErrorCode(err))
	})

	t.Run("passes original and final URL to extractor", func(t *testing.T) {
		t.Parallel()

		var got *linkpreview.LinkMetadata
		extractor := &mock.Extractor{
			ExtractFn: func(html string, base *linkpreview.LinkMetadata) (*linkpreview.LinkMetadata, error) {
				got = base
				return base, nil
			},
		}
		p := preview.NewProvider(staticFetcher("<html>", "https://example.com/after"), extractor)

		_, err := p.FetchURL(context.Background(), "https://example.com/before")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/before", got.OriginalURL.String())
		assert.Equal(t, "https://example.com/after", got.FinalURL.String())
	})

	t.Run("concurrent callers race to exactly one fetch", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, req *linkpreview.Request) (*linkpreview.FetchResult, error) {
				fetches.Add(1)
				return &linkpreview.FetchResult{HTML: "<title>T</title>"}, nil
			},
		}
		p := preview.NewProvider(fetcher, tagscan.NewExtractor())

		const callers = 16
		var (
			wg       sync.WaitGroup
			okCount  atomic.Int32
			errCount atomic.Int32
		)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := p.FetchURL(context.Background(), "https://example.com"); err != nil {
					if errors.Is(err, linkpreview.ErrAlreadyCalled) {
						errCount.Add(1)
					}
					return
				}
				okCount.Add(1)
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), fetches.Load())
		assert.Equal(t, int32(1), okCount.Load())
		assert.Equal(t, int32(callers-1), errCount.Load())
	})
}
