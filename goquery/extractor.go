// Package goquery provides a DOM-based linkpreview.Extractor built on goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/linkpreview"
	"golang.org/x/net/html"
)

// Ensure Extractor implements linkpreview.Extractor at compile time.
var _ linkpreview.Extractor = (*Extractor)(nil)

// Extractor extracts link metadata from a parsed DOM. It applies the same
// precedence rules as tagscan.Extractor but relies on the HTML5 parser for
// tag boundaries, so markup the parser repairs may yield different
// candidates.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses rawHTML and collects meta, link and title elements in
// document order.
func (e *Extractor) Extract(rawHTML string, base *linkpreview.LinkMetadata) (*linkpreview.LinkMetadata, error) {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, linkpreview.WrapError(linkpreview.EUNKNOWN, err, "failed to parse HTML")
	}
	doc := goquery.NewDocumentFromNode(root)

	var c linkpreview.Collector
	doc.Find("meta, link").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		attrs := nodeAttrs(node)
		if node.Data == "meta" {
			c.AddMeta(attrs)
		} else {
			c.AddLink(attrs)
		}
	})

	if title := doc.Find("title").First(); title.Length() > 0 {
		c.AddTitle(title.Text())
	}

	return c.Metadata(base), nil
}

// nodeAttrs converts node attributes to linkpreview.Attrs. The parser has
// already lowercased keys and decoded entities; the first occurrence wins.
func nodeAttrs(n *html.Node) linkpreview.Attrs {
	attrs := make(linkpreview.Attrs, len(n.Attr))
	for _, a := range n.Attr {
		if a.Namespace != "" {
			continue
		}
		if _, ok := attrs[a.Key]; !ok {
			attrs[a.Key] = a.Val
		}
	}
	return attrs
}
