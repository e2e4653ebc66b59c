package http

import (
	"bufio"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/linkpreview"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// decodeBody wraps resp.Body in a decompressor for its Content-Encoding.
// An empty compressed body decodes to an empty page.
// The transport only decompresses on its own when it added Accept-Encoding
// itself; requests built by linkpreview.NewRequest set it explicitly.
func decodeBody(resp *http.Response) (io.Reader, error) {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "", "identity":
		return resp.Body, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err == io.EOF {
			return http.NoBody, nil
		}
		if err != nil {
			return nil, linkpreview.WrapError(linkpreview.EFETCHFAILED, err, "invalid gzip body")
		}
		return zr, nil
	case "deflate":
		return newDeflateReader(resp.Body)
	default:
		return nil, linkpreview.Errorf(linkpreview.EFETCHFAILED, "unsupported content encoding %q", encoding)
	}
}

// newDeflateReader handles both zlib-wrapped and raw deflate streams, since
// servers disagree on what "deflate" means.
func newDeflateReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, linkpreview.WrapError(linkpreview.EFETCHFAILED, err, "invalid deflate body")
	}
	if len(header) == 0 {
		return http.NoBody, nil
	}
	if isZlibHeader(header) {
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, linkpreview.WrapError(linkpreview.EFETCHFAILED, err, "invalid deflate body")
		}
		return zr, nil
	}
	return flate.NewReader(br), nil
}

func isZlibHeader(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	return b[0]&0x0f == 8 && (uint16(b[0])<<8|uint16(b[1]))%31 == 0
}
