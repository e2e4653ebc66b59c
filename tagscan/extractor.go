// Package tagscan provides a linkpreview.Extractor that scans raw HTML text
// with patterns instead of building a DOM. It tolerates malformed markup:
// tags that do not match the tag pattern are skipped silently.
package tagscan

import (
	"html"
	"regexp"
	"strings"

	"github.com/fwojciec/linkpreview"
)

// Ensure Extractor implements linkpreview.Extractor at compile time.
var _ linkpreview.Extractor = (*Extractor)(nil)

var (
	// commentRe matches HTML comments so commented-out tags are not scanned.
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)

	// tagRe matches the boundary of a meta or link tag. A '>' inside a
	// quoted value does not end the tag. Quoted values never span a '<', so
	// an unterminated quote drops only its own tag. Attributes are parsed
	// separately so their order does not matter.
	tagRe = regexp.MustCompile(`(?i)<(meta|link)\b((?:[^>"']|"[^"<]*"|'[^'<]*')*)>`)

	// attrRe matches one attribute with a double-quoted, single-quoted,
	// unquoted or missing value.
	attrRe = regexp.MustCompile(`([^\s"'<>/=]+)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'<>=` + "`" + `]+)))?`)

	titleRe = regexp.MustCompile(`(?is)<title\b[^>]*>(.*?)</title\s*>`)
)

// Extractor extracts link metadata from raw HTML using tolerant pattern
// matching. The zero value is ready to use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract scans rawHTML for meta, link and title tags. It never fails on
// malformed markup.
func (e *Extractor) Extract(rawHTML string, base *linkpreview.LinkMetadata) (*linkpreview.LinkMetadata, error) {
	doc := commentRe.ReplaceAllString(rawHTML, "")

	var c linkpreview.Collector
	for _, m := range tagRe.FindAllStringSubmatch(doc, -1) {
		attrs := ParseAttrs(m[2])
		if strings.EqualFold(m[1], "meta") {
			c.AddMeta(attrs)
		} else {
			c.AddLink(attrs)
		}
	}

	if m := titleRe.FindStringSubmatch(doc); m != nil {
		c.AddTitle(html.UnescapeString(m[1]))
	}

	return c.Metadata(base), nil
}

// ParseAttrs parses the attribute text of a tag into lowercase-keyed
// attributes. Values are entity-decoded. The first occurrence of a
// repeated attribute wins. Attributes without a usable value map to "".
func ParseAttrs(s string) linkpreview.Attrs {
	attrs := make(linkpreview.Attrs)
	for _, m := range attrRe.FindAllStringSubmatch(s, -1) {
		key := strings.ToLower(m[1])
		if _, ok := attrs[key]; ok {
			continue
		}
		var val string
		switch {
		case m[2] != "":
			val = m[2]
		case m[3] != "":
			val = m[3]
		default:
			val = m[4]
		}
		attrs[key] = html.UnescapeString(val)
	}
	return attrs
}
