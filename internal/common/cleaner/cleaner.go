package cleaner

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var tagPattern = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)

// Cleaner turns HTML fragments from feeds and cards into plain text
type Cleaner struct {
	policy *bluemonday.Policy
}

// NewCleaner creates a cleaner that strips ALL HTML
func NewCleaner() *Cleaner {
	return &Cleaner{policy: bluemonday.StrictPolicy()}
}

// HasMarkup reports whether s contains something that looks like a tag
func HasMarkup(s string) bool {
	return tagPattern.MatchString(s)
}

// CleanToText removes all HTML and returns whitespace-normalized visible text.
// Block-level tags are turned into spaces first so adjacent paragraphs do not
// run together.
func (c *Cleaner) CleanToText(s string) string {
	if !HasMarkup(s) {
		return normalizeSpace(html.UnescapeString(s))
	}

	spaced := tagPattern.ReplaceAllStringFunc(s, func(tag string) string {
		return tag + " "
	})
	text := c.policy.Sanitize(spaced)

	// bluemonday escapes entities in its output
	text = html.UnescapeString(text)
	return normalizeSpace(text)
}

// Text cleans s and substitutes fallback when nothing visible is left
func (c *Cleaner) Text(s, fallback string) string {
	if text := c.CleanToText(s); text != "" {
		return text
	}
	return fallback
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
