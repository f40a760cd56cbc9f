package server

import (
	"context"
	"fmt"

	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/repository"
)

// RepositoryAdapter adapts repositories to server.Database interface
type RepositoryAdapter struct {
	repos *repository.Repositories
}

// NewRepositoryAdapter creates a new repository adapter
func NewRepositoryAdapter(repos *repository.Repositories) *RepositoryAdapter {
	return &RepositoryAdapter{repos: repos}
}

// ItemCounts returns the number of stored and unsent items
func (r *RepositoryAdapter) ItemCounts(ctx context.Context) (domain.ItemCounts, error) {
	total, err := r.repos.Item.Count(ctx)
	if err != nil {
		return domain.ItemCounts{}, fmt.Errorf("count items: %w", err)
	}
	unsent, err := r.repos.Item.CountUnsent(ctx)
	if err != nil {
		return domain.ItemCounts{}, fmt.Errorf("count unsent items: %w", err)
	}
	return domain.ItemCounts{Total: total, Unsent: unsent}, nil
}

// RecentItems returns the most recently stored items
func (r *RepositoryAdapter) RecentItems(ctx context.Context, limit int) ([]domain.FeedItem, error) {
	return r.repos.Item.RecentItems(ctx, limit)
}

// MarkAllUnsentAsSent marks all unsent items as sent
func (r *RepositoryAdapter) MarkAllUnsentAsSent(ctx context.Context) (int64, error) {
	return r.repos.Item.MarkAllUnsentAsSent(ctx)
}

// ResetSent returns items with the given links to the unsent state
func (r *RepositoryAdapter) ResetSent(ctx context.Context, links []string) (int64, error) {
	return r.repos.Item.ResetSent(ctx, links)
}

// Ping checks the database connection
func (r *RepositoryAdapter) Ping(ctx context.Context) error {
	return r.repos.Ping(ctx)
}
