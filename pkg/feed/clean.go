package feed

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// CleanText strips markup, unescapes html entities and collapses whitespace
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	// the strict policy escapes what it keeps, unescape after sanitizing
	text := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens s to at most limit runes, cutting on a word boundary when possible
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)[:limit]
	cut := string(runes)
	if idx := strings.LastIndex(cut, " "); idx > len(cut)/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "…"
}
