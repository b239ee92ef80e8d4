// internal/app/system/htmlsanitize/htmlsanitize.go
//
// Package htmlsanitize strips markup from admin-entered free text.
// Descriptions and assignment notes are stored and served as plain text,
// so everything but the text content is removed.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Clean removes all HTML elements and attributes from s, keeping only the
// text content. Script and style bodies are dropped entirely. Entities are
// unescaped afterward so the stored value is plain text, not HTML.
func Clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
