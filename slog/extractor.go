package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/linkpreview"
)

// Ensure LoggingExtractor implements linkpreview.Extractor.
var _ linkpreview.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging of which fields
// were found.
type LoggingExtractor struct {
	next   linkpreview.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next linkpreview.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the result.
func (e *LoggingExtractor) Extract(html string, base *linkpreview.LinkMetadata) (m *linkpreview.LinkMetadata, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"bytes", len(html),
			"duration", time.Since(begin),
		}
		if base != nil && base.FinalURL != nil {
			attrs = append(attrs, "url", base.FinalURL.String())
		}
		if m != nil {
			attrs = append(attrs,
				"title", m.Title != "",
				"image", m.ImageURL != nil,
				"icon", m.IconURL != nil,
				"video", m.VideoURL != nil,
				"remote_video", m.RemoteVideoURL != nil,
			)
		}
		attrs = append(attrs, "err", err)
		e.logger.Debug("extract", attrs...)
	}(time.Now())
	return e.next.Extract(html, base)
}
