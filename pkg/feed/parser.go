package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/umputun/newsdigest/pkg/domain"
)

// StatusError is returned when a feed responds with a non-200 status
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d for %s", e.Code, e.URL)
}

// Transient reports whether the status is worth retrying
func (e *StatusError) Transient() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// ParseError is returned when a response body is not a usable feed document
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse feed %s: %v", e.URL, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// Parser fetches and parses RSS/Atom feeds
type Parser struct {
	client    *http.Client
	userAgent string
}

// NewParser creates a new feed parser with per-request timeout
func NewParser(timeout time.Duration, userAgent string) *Parser {
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (compatible; Newsdigest/1.0)"
	}
	return &Parser{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: timeout,
			},
		},
		userAgent: userAgent,
	}
}

// Parse fetches and parses a feed from the given URL
func (p *Parser) Parse(ctx context.Context, url string) (*domain.ParsedFeed, error) {
	body, err := p.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}

	result := &domain.ParsedFeed{
		Title:       feed.Title,
		Description: feed.Description,
		Link:        feed.Link,
		Entries:     make([]domain.Entry, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entry := domain.Entry{
			Title:   strings.TrimSpace(item.Title),
			Link:    strings.TrimSpace(item.Link),
			Summary: item.Description,
			Content: item.Content,
		}
		if item.Author != nil {
			entry.Author = item.Author.Name
		}

		// published wins, updated is used for feeds without publication dates
		switch {
		case item.PublishedParsed != nil:
			entry.Published, entry.PublishedAt = item.Published, item.PublishedParsed
		case item.UpdatedParsed != nil:
			entry.Published, entry.PublishedAt = item.Updated, item.UpdatedParsed
		case item.Published != "":
			entry.Published = item.Published
		default:
			entry.Published = item.Updated
		}

		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)
	addBrowserHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	return resp.Body, nil
}
