package domain

import (
	"crypto/md5" //nolint:gosec // md5 is an identifier here, not a security primitive
	"encoding/hex"
	"time"
)

// FeedItem represents a stored feed item
type FeedItem struct {
	ID            string
	Title         string
	Link          string
	PublishedTime *time.Time // nil if the source had no usable date
	Abstract      string     // plain text, empty if the source had none
	Sent          bool
	CreatedAt     time.Time
}

// InsertResult reports the outcome of an exclusive insert
type InsertResult int

// insert results
const (
	Inserted InsertResult = iota
	AlreadyExists
)

func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case AlreadyExists:
		return "already exists"
	default:
		return "unknown"
	}
}

// ItemID returns a stable identifier derived from the item link
func ItemID(link string) string {
	sum := md5.Sum([]byte(link)) //nolint:gosec // see import comment
	return hex.EncodeToString(sum[:])
}

// IngestStats holds per-run counters of the ingestion pipeline
type IngestStats struct {
	Sources      int
	ValidSources int
	Seen         int
	Relevant     int
	Inserted     int
	Duplicates   int
	Failed       int
	Duration     time.Duration
	FinishedAt   time.Time
}

// DispatchStats holds per-run counters of the batch dispatcher
type DispatchStats struct {
	Batches    int
	Succeeded  int
	Failed     int
	Items      int
	Duration   time.Duration
	FinishedAt time.Time
}

// ItemCounts holds the number of stored and unsent items
type ItemCounts struct {
	Total  int64
	Unsent int64
}
