package linkpreview

import (
	"net/url"
	"strings"
)

// Field identifies the LinkMetadata field a tag feeds.
type Field int

// Field constants. FieldNone means the tag is ignored.
const (
	FieldNone Field = iota
	FieldTitle
	FieldImage
	FieldDescription
	FieldRemoteVideo
	FieldVideo
	FieldIcon
)

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldImage:
		return "image"
	case FieldDescription:
		return "description"
	case FieldRemoteVideo:
		return "remote_video"
	case FieldVideo:
		return "video"
	case FieldIcon:
		return "icon"
	default:
		return "none"
	}
}

// MetaRule maps a meta tag key (a property or name value) to a field.
type MetaRule struct {
	Key   string
	Field Field
}

// metaRules is evaluated top to bottom; the first matching row classifies
// the tag. Keys are lowercase.
var metaRules = []MetaRule{
	{Key: "og:title", Field: FieldTitle},
	{Key: "twitter:title", Field: FieldTitle},
	{Key: "og:image", Field: FieldImage},
	{Key: "twitter:image", Field: FieldImage},
	{Key: "og:description", Field: FieldDescription},
	{Key: "description", Field: FieldDescription},
	{Key: "twitter:description", Field: FieldDescription},
	{Key: "og:video", Field: FieldRemoteVideo},
	{Key: "twitter:player", Field: FieldRemoteVideo},
	{Key: "og:video:url", Field: FieldVideo},
	{Key: "og:video:secure_url", Field: FieldVideo},
	{Key: "twitter:player:stream", Field: FieldVideo},
	{Key: "og:icon", Field: FieldIcon},
	{Key: "apple-touch-icon", Field: FieldIcon},
}

// MetaRules returns a copy of the meta tag precedence table in evaluation order.
func MetaRules() []MetaRule {
	rules := make([]MetaRule, len(metaRules))
	copy(rules, metaRules)
	return rules
}

// ClassifyMeta returns the field for a meta tag with the given property and
// name attribute values. Matching is case-insensitive and ignores
// surrounding whitespace.
func ClassifyMeta(property, name string) Field {
	property = strings.ToLower(strings.TrimSpace(property))
	name = strings.ToLower(strings.TrimSpace(name))
	if property == "" && name == "" {
		return FieldNone
	}
	for _, r := range metaRules {
		if property == r.Key || name == r.Key {
			return r.Field
		}
	}
	return FieldNone
}

// IsIconRel reports whether a link rel attribute names an icon.
func IsIconRel(rel string) bool {
	for _, tok := range strings.Fields(strings.ToLower(rel)) {
		switch tok {
		case "icon", "shortcut", "apple-touch-icon":
			return true
		}
	}
	return false
}

// ParseContentURL parses a URL taken from tag content. Relative references
// are returned unresolved. Empty or unparsable input reports false.
func ParseContentURL(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	return u, true
}
