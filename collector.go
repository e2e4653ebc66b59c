package linkpreview

import (
	"net/url"
	"strings"
)

// Attrs holds a tag's attributes keyed by lowercase name.
type Attrs map[string]string

// Collector merges tags into LinkMetadata. Tags must be added in document
// order. Within each field the first usable candidate wins; later
// candidates are ignored. Extractors differ only in how they find tags;
// precedence lives here.
//
// A Collector is not safe for concurrent use.
type Collector struct {
	title       string
	description string

	image       *url.URL
	video       *url.URL
	remoteVideo *url.URL
	metaIcon    *url.URL
	linkIcon    *url.URL

	htmlTitle     string
	htmlTitleSeen bool
}

// AddMeta adds a <meta> tag.
func (c *Collector) AddMeta(attrs Attrs) {
	field := ClassifyMeta(attrs["property"], attrs["name"])
	if field == FieldNone {
		return
	}
	content := strings.TrimSpace(attrs["content"])
	if content == "" {
		return
	}

	switch field {
	case FieldTitle:
		setText(&c.title, content)
	case FieldDescription:
		setText(&c.description, content)
	case FieldImage:
		setURL(&c.image, content)
	case FieldRemoteVideo:
		setURL(&c.remoteVideo, content)
	case FieldVideo:
		setURL(&c.video, content)
	case FieldIcon:
		setURL(&c.metaIcon, content)
	}
}

// AddLink adds a <link> tag. Only icon links are used, and only when no
// meta tag provides an icon.
func (c *Collector) AddLink(attrs Attrs) {
	if !IsIconRel(attrs["rel"]) {
		return
	}
	setURL(&c.linkIcon, attrs["href"])
}

// AddTitle adds the text of a <title> element. Only the first element
// counts, even when it is empty.
func (c *Collector) AddTitle(text string) {
	if c.htmlTitleSeen {
		return
	}
	c.htmlTitleSeen = true
	c.htmlTitle = strings.TrimSpace(text)
}

// Metadata returns a new LinkMetadata seeded from base with the collected
// fields filled in. Fields already set on base are kept.
func (c *Collector) Metadata(base *LinkMetadata) *LinkMetadata {
	m := base.Clone()
	if m == nil {
		m = &LinkMetadata{}
	}

	title := c.title
	if title == "" {
		title = c.htmlTitle
	}
	icon := c.metaIcon
	if icon == nil {
		icon = c.linkIcon
	}

	if m.Title == "" {
		m.Title = title
	}
	if m.Description == "" {
		m.Description = c.description
	}
	if m.IconURL == nil {
		m.IconURL = cloneURL(icon)
	}
	if m.ImageURL == nil {
		m.ImageURL = cloneURL(c.image)
	}
	if m.VideoURL == nil {
		m.VideoURL = cloneURL(c.video)
	}
	if m.RemoteVideoURL == nil {
		m.RemoteVideoURL = cloneURL(c.remoteVideo)
	}
	return m
}

func setText(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// setURL keeps the first parseable URL; a bad value leaves dst open for
// the next candidate.
func setURL(dst **url.URL, raw string) {
	if *dst != nil {
		return
	}
	if u, ok := ParseContentURL(raw); ok {
		*dst = u
	}
}
