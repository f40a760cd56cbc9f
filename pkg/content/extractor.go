// Package content fetches article pages to build abstracts for feed entries that have none
package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"

	"github.com/umputun/newsdigest/pkg/feed"
)

// maxPageSize limits how much of a page is read
const maxPageSize = 5 << 20

// HTTPExtractor extracts article abstracts from pages using trafilatura
type HTTPExtractor struct {
	client    *http.Client
	userAgent string
	maxLen    int
}

// NewHTTPExtractor creates a new extractor, maxLen limits the abstract length in runes (0 for no limit)
func NewHTTPExtractor(timeout time.Duration, userAgent string, maxLen int) *HTTPExtractor {
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (compatible; Newsdigest/1.0)"
	}
	return &HTTPExtractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxLen:    maxLen,
	}
}

// Extract returns a plain text abstract of the page at urlStr. The page description
// wins if it exists, otherwise the leading part of the main text is used.
func (e *HTTPExtractor) Extract(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", urlStr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	addBrowserHeaders(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch URL %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, urlStr)
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		ExcludeTables:   true,
		IncludeImages:   false,
		IncludeLinks:    false,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	}

	result, err := trafilatura.Extract(io.LimitReader(resp.Body, maxPageSize), opts)
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", urlStr, err)
	}
	if result == nil {
		return "", fmt.Errorf("no content extracted from %s", urlStr)
	}

	abstract := strings.TrimSpace(result.Metadata.Description)
	if abstract == "" {
		abstract = strings.TrimSpace(result.ContentText)
	}
	if abstract == "" {
		return "", fmt.Errorf("no text content extracted from %s", urlStr)
	}

	return feed.Truncate(feed.CleanText(abstract), e.maxLen), nil
}
