// internal/pkg/slug/slug.go
package slug

import (
	"regexp"
	"strings"
)

var (
	nonWord    = regexp.MustCompile(`[^\w\s]`)
	nonSlug    = regexp.MustCompile(`[^\w\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
	dashes     = regexp.MustCompile(`-{2,}`)
)

// Make derives a URL slug: lowercase, punctuation dropped, whitespace runs
// collapsed into a single "-". Edge whitespace is trimmed so the result never
// starts or ends with "-".
func Make(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSpace(nonWord.ReplaceAllString(s, ""))
	return whitespace.ReplaceAllString(s, "-")
}

// Clean normalizes a slug typed by hand. Unlike Make it keeps existing dashes.
func Clean(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	return strings.Trim(dashes.ReplaceAllString(s, "-"), "-")
}
