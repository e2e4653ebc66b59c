package linkpreview

import (
	"encoding/json"
	"net/url"
)

// LinkMetadata is the extracted summary of a web page.
//
// Empty strings and nil URLs mean the field was not found. A LinkMetadata
// returned by a Provider or Extractor is never modified afterwards and is
// safe to share between goroutines.
type LinkMetadata struct {
	// OriginalURL is the URL as requested.
	OriginalURL *url.URL

	// FinalURL is the URL that answered, after redirects.
	FinalURL *url.URL

	Title       string
	Description string

	IconURL  *url.URL
	ImageURL *url.URL

	// VideoURL references a video file directly
	// (og:video:url, og:video:secure_url, twitter:player:stream).
	VideoURL *url.URL

	// RemoteVideoURL references an embeddable video page
	// (og:video, twitter:player).
	RemoteVideoURL *url.URL
}

// NewLinkMetadata returns empty metadata for a fetch of original that was
// answered by final. A nil final falls back to original.
func NewLinkMetadata(original, final *url.URL) *LinkMetadata {
	if final == nil {
		final = original
	}
	return &LinkMetadata{
		OriginalURL: cloneURL(original),
		FinalURL:    cloneURL(final),
	}
}

// Clone returns a copy of m that shares no URL values with it.
func (m *LinkMetadata) Clone() *LinkMetadata {
	if m == nil {
		return nil
	}
	return &LinkMetadata{
		OriginalURL:    cloneURL(m.OriginalURL),
		FinalURL:       cloneURL(m.FinalURL),
		Title:          m.Title,
		Description:    m.Description,
		IconURL:        cloneURL(m.IconURL),
		ImageURL:       cloneURL(m.ImageURL),
		VideoURL:       cloneURL(m.VideoURL),
		RemoteVideoURL: cloneURL(m.RemoteVideoURL),
	}
}

type linkMetadataJSON struct {
	OriginalURL    string `json:"originalUrl"`
	FinalURL       string `json:"finalUrl"`
	Title          string `json:"title,omitempty"`
	Description    string `json:"description,omitempty"`
	IconURL        string `json:"iconUrl,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
	VideoURL       string `json:"videoUrl,omitempty"`
	RemoteVideoURL string `json:"remoteVideoUrl,omitempty"`
}

// MarshalJSON renders URLs as strings and omits absent fields.
func (m *LinkMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(linkMetadataJSON{
		OriginalURL:    urlString(m.OriginalURL),
		FinalURL:       urlString(m.FinalURL),
		Title:          m.Title,
		Description:    m.Description,
		IconURL:        urlString(m.IconURL),
		ImageURL:       urlString(m.ImageURL),
		VideoURL:       urlString(m.VideoURL),
		RemoteVideoURL: urlString(m.RemoteVideoURL),
	})
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
