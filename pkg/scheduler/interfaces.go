package scheduler

import (
	"context"

	"github.com/umputun/newsdigest/pkg/digest"
	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/feed"
)

//go:generate moq -out mocks/item_store.go -pkg mocks -skip-ensure -fmt goimports . ItemStore
//go:generate moq -out mocks/rewriter.go -pkg mocks -skip-ensure -fmt goimports . Rewriter
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

// ItemStore is the part of the item repository used by the pipeline
type ItemStore interface {
	TryInsert(ctx context.Context, item *domain.FeedItem) (domain.InsertResult, error)
	SelectUnsent(ctx context.Context) ([]domain.FeedItem, error)
	MarkSentByLinks(ctx context.Context, links []string) (int64, error)
	GetItemByLink(ctx context.Context, link string) (*domain.FeedItem, error)
}

// SourceValidator returns the sources answering with a parseable feed
type SourceValidator interface {
	Validate(ctx context.Context, sources []feed.Source) []feed.Source
}

// Rewriter turns a batch of articles into a digest title and body
type Rewriter interface {
	Rewrite(ctx context.Context, articles []digest.Article, flavour string, n, total int) (title, body string, err error)
}

// Extractor builds an abstract from the article page
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}
