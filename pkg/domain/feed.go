package domain

import "time"

// ParsedFeed represents a fetched and parsed feed document
type ParsedFeed struct {
	Title       string
	Description string
	Link        string
	Entries     []Entry
}

// Entry is a single publication from a feed, before relevance filtering
type Entry struct {
	Title       string
	Link        string
	Published   string     // raw published value as found in the document
	PublishedAt *time.Time // parsed by the feed library, nil if it couldn't
	Summary     string
	Content     string
	Author      string
}
