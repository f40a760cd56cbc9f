package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/umputun/newsdigest/pkg/domain"
)

// Generator renders stored items as an RSS 2.0 document
type Generator struct {
	baseURL string
	title   string
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL, title string) *Generator {
	if title == "" {
		title = "Newsdigest"
	}
	return &Generator{baseURL: strings.TrimRight(baseURL, "/"), title: title}
}

// GenerateRSS creates an RSS feed from stored items, the delivery state is shown as a category
func (g *Generator) GenerateRSS(items []domain.FeedItem, now time.Time) (string, error) {
	rssItems := make([]*RSSItem, 0, len(items))
	for _, item := range items {
		rssItem := &RSSItem{
			Title:       item.Title,
			Link:        item.Link,
			GUID:        GUID{Value: item.ID, IsPermaLink: "false"},
			Description: item.Abstract,
			Categories:  []string{"pending"},
		}
		if item.Sent {
			rssItem.Categories = []string{"sent"}
		}
		if item.PublishedTime != nil {
			rssItem.PubDate = item.PublishedTime.Format(time.RFC1123Z)
		}
		rssItems = append(rssItems, rssItem)
	}

	doc := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         g.title,
			Link:          g.baseURL + "/",
			Description:   fmt.Sprintf("%d recently collected items", len(rssItems)),
			AtomLink:      &AtomLink{Href: g.baseURL + "/rss", Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: now.UTC().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}
