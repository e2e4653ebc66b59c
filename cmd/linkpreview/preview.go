package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/fwojciec/linkpreview"
	"github.com/fwojciec/linkpreview/batch"
)

// Run executes the preview command. It prints every successful result and
// returns an error if any URL failed.
func (c *PreviewCmd) Run(deps *Dependencies) error {
	results := deps.Runner.Run(deps.Ctx, c.URLs, nil)

	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s (%s)\n", res.URL, linkpreview.ErrorMessage(res.Err), linkpreview.ErrorCode(res.Err))
			continue
		}
		if err := c.write(deps.Stdout, res); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d URLs failed", failed, len(results))
	}
	return nil
}

func (c *PreviewCmd) write(w io.Writer, res batch.Result) error {
	if c.Format == "text" {
		writeText(w, res.Metadata)
		return nil
	}
	b, err := json.Marshal(res.Metadata)
	if err != nil {
		return fmt.Errorf("encode %s: %w", res.URL, err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// writeText prints metadata as an indented block, skipping absent fields.
func writeText(w io.Writer, m *linkpreview.LinkMetadata) {
	fmt.Fprintln(w, urlText(m.OriginalURL))
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "  %-13s %s\n", name+":", value)
		}
	}
	if final := urlText(m.FinalURL); final != urlText(m.OriginalURL) {
		field("final", final)
	}
	field("title", m.Title)
	field("description", m.Description)
	field("image", urlText(m.ImageURL))
	field("icon", urlText(m.IconURL))
	field("video", urlText(m.VideoURL))
	field("remote video", urlText(m.RemoteVideoURL))
}

func urlText(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
