package digest

import (
	"fmt"
	"strings"
)

// Title builds the subject line of a batch, the batch number is shown only for multi-batch runs
func Title(flavour string, n, total int) string {
	if flavour == "" {
		flavour = DefaultFlavour
	}
	title := "AI frontier: " + flavour
	if total > 1 {
		title += fmt.Sprintf(" (batch %d/%d)", n, total)
	}
	return title
}

// RenderFallback renders a batch without the rewriter. Every article's title and link
// are always present in the body.
func RenderFallback(articles []Article, flavour string, n, total int) (title, body string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Latest AI articles (batch %d of %d)\n\n", n, total)
	fmt.Fprintf(&sb, "This batch has %d articles:\n\n", len(articles))
	for i, a := range articles {
		fmt.Fprintf(&sb, "## %d. %s\n", i+1, a.Title)
		fmt.Fprintf(&sb, "**Source**: %s\n", a.Source)
		fmt.Fprintf(&sb, "**Published**: %s\n", a.Published)
		fmt.Fprintf(&sb, "**Summary**: %s\n", a.Summary)
		fmt.Fprintf(&sb, "**Link**: [read more](%s)\n\n", a.Link)
	}
	if total > 1 {
		fmt.Fprintf(&sb, "\n---\nThis is batch %d of %d.", n, total)
	}
	return Title(flavour, n, total), strings.TrimRight(sb.String(), "\n")
}

// ArticlesText lists articles in the plain form used as rewriter input
func ArticlesText(articles []Article) string {
	var sb strings.Builder
	for i, a := range articles {
		fmt.Fprintf(&sb, "%d. Title: %s\n", i+1, a.Title)
		fmt.Fprintf(&sb, "   Source: %s\n", a.Source)
		fmt.Fprintf(&sb, "   Published: %s\n", a.Published)
		fmt.Fprintf(&sb, "   Summary: %s\n", a.Summary)
		fmt.Fprintf(&sb, "   Link: %s\n\n", a.Link)
	}
	return sb.String()
}
