// Package digest turns stored items into digest messages: source labels,
// the topic flavour of a subject line and the plain fallback rendering.
package digest

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/umputun/newsdigest/pkg/domain"
)

// UnknownDate is shown for items without a publication time
const UnknownDate = "unknown date"

// Article is an item prepared for rendering
type Article struct {
	Title     string
	Link      string
	Summary   string // abstract, or title when the item has no abstract
	Published string
	Source    string
}

// SourceLabel maps a link substring to a human-readable source name
type SourceLabel struct {
	Substring string
	Label     string
}

// OtherSource is the label of links not matching any rule
const OtherSource = "Other"

// Labeler resolves source labels, the first matching rule wins
type Labeler struct {
	rules []SourceLabel
}

// NewLabeler makes a labeler for an ordered rule table
func NewLabeler(rules []SourceLabel) *Labeler {
	res := &Labeler{rules: make([]SourceLabel, 0, len(rules))}
	for _, r := range rules {
		if r.Substring == "" || r.Label == "" {
			continue
		}
		res.rules = append(res.rules, SourceLabel{Substring: strings.ToLower(r.Substring), Label: r.Label})
	}
	return res
}

// Label returns the source label of a link
func (l *Labeler) Label(link string) string {
	lower := strings.ToLower(link)
	for _, r := range l.rules {
		if strings.Contains(lower, r.Substring) {
			return r.Label
		}
	}
	return OtherSource
}

// Articles converts stored items into articles, order is kept
func (l *Labeler) Articles(items []domain.FeedItem) []Article {
	return lo.Map(items, func(item domain.FeedItem, _ int) Article {
		summary := item.Abstract
		if strings.TrimSpace(summary) == "" {
			summary = item.Title
		}
		published := UnknownDate
		if item.PublishedTime != nil {
			published = item.PublishedTime.UTC().Format("2006-01-02 15:04 MST")
		}
		return Article{
			Title:     item.Title,
			Link:      item.Link,
			Summary:   summary,
			Published: published,
			Source:    l.Label(item.Link),
		}
	})
}

// Links returns links of articles in order
func Links(articles []Article) []string {
	return lo.Map(articles, func(a Article, _ int) string { return a.Link })
}

// FormatDate is the date format used in message footers
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
