package feed

import (
	"encoding/xml"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdigest/pkg/domain"
)

func TestGenerator_GenerateRSS(t *testing.T) {
	pub := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	items := []domain.FeedItem{
		{ID: domain.ItemID("https://example.com/1"), Title: "First & best", Link: "https://example.com/1",
			PublishedTime: &pub, Abstract: "about the first", Sent: true},
		{ID: domain.ItemID("https://example.com/2"), Title: "Second", Link: "https://example.com/2"},
	}
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	out, err := NewGenerator("https://digest.example.com/", "").GenerateRSS(items, now)
	require.NoError(t, err)

	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, out, `<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	assert.Contains(t, out, `<title>Newsdigest</title>`)
	assert.Contains(t, out, `<link>https://digest.example.com/</link>`)
	assert.Contains(t, out, `href="https://digest.example.com/rss"`)
	assert.Contains(t, out, `<title>First &amp; best</title>`)
	assert.Contains(t, out, `<pubDate>Mon, 01 Jan 2024 12:00:00 +0000</pubDate>`)

	var doc RSS
	require.NoError(t, xml.Unmarshal([]byte(out[len(xml.Header):]), &doc))
	require.Len(t, doc.Channel.Items, 2)
	assert.Equal(t, items[0].ID, doc.Channel.Items[0].GUID.Value)
	assert.Equal(t, "false", doc.Channel.Items[0].GUID.IsPermaLink)
	assert.Equal(t, []string{"sent"}, doc.Channel.Items[0].Categories)
	assert.Equal(t, []string{"pending"}, doc.Channel.Items[1].Categories)
	assert.Empty(t, doc.Channel.Items[1].PubDate)
}

func TestGenerator_Empty(t *testing.T) {
	out, err := NewGenerator("http://localhost:8080", "AI digest").GenerateRSS(nil, time.Now())
	require.NoError(t, err)
	assert.Contains(t, out, "<title>AI digest</title>")
	assert.Contains(t, out, "0 recently collected items")
}
