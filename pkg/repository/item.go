package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/newsdigest/pkg/domain"
)

// ItemRepository handles item-related database operations
type ItemRepository struct {
	db *sqlx.DB
}

// itemSQL represents an item for SQL operations
type itemSQL struct {
	ID            string         `db:"id"`
	Title         string         `db:"title"`
	Link          string         `db:"link"`
	PublishedTime *time.Time     `db:"published_time"`
	Abstract      sql.NullString `db:"abstract"`
	Sent          bool           `db:"sent"`
	CreatedAt     time.Time      `db:"created_at"`
}

const itemColumns = "id, title, link, published_time, abstract, sent, created_at"

// NewItemRepository creates a new item repository
func NewItemRepository(database *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: database}
}

// retry runs fn with backoff, only lock errors are retried
func (r *ItemRepository) retry(ctx context.Context, op, key string, fn func() error) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error { return classify(fn()) }, errCritical)
	if err != nil {
		log.Printf("[WARN] %s failed for %s: %v", op, key, err)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// TryInsert stores the item unless an item with the same id exists already.
// The check and the write are a single statement, so concurrent callers can't both insert.
func (r *ItemRepository) TryInsert(ctx context.Context, item *domain.FeedItem) (domain.InsertResult, error) {
	if item.ID == "" {
		item.ID = domain.ItemID(item.Link)
	}
	var published *time.Time
	if item.PublishedTime != nil {
		ts := item.PublishedTime.UTC()
		published = &ts
	}
	abstract := sql.NullString{String: item.Abstract, Valid: item.Abstract != ""}

	res := domain.AlreadyExists
	err := r.retry(ctx, "insert item", item.Link, func() error {
		result, err := r.db.ExecContext(ctx,
			`INSERT INTO items (id, title, link, published_time, abstract, sent)
			VALUES (?, ?, ?, ?, ?, 0)
			ON CONFLICT(id) DO NOTHING`,
			item.ID, item.Title, item.Link, published, abstract)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if affected > 0 {
			res = domain.Inserted
		}
		return nil
	})
	if err != nil {
		return domain.AlreadyExists, err
	}
	return res, nil
}

// SelectUnsent returns all items not delivered yet, oldest first
func (r *ItemRepository) SelectUnsent(ctx context.Context) ([]domain.FeedItem, error) {
	var rows []itemSQL
	err := r.retry(ctx, "select unsent", "items", func() error {
		rows = nil
		return r.db.SelectContext(ctx, &rows,
			"SELECT "+itemColumns+" FROM items WHERE sent = 0 ORDER BY created_at, rowid")
	})
	if err != nil {
		return nil, err
	}
	return toDomainItems(rows), nil
}

// MarkSentByLinks flags items with the given links as sent in one transaction.
// Items sent already are left as is and don't make the call fail.
func (r *ItemRepository) MarkSentByLinks(ctx context.Context, links []string) (int64, error) {
	return r.updateSent(ctx, "mark sent by links", "link", links, true)
}

// MarkSent flags items with the given ids as sent
func (r *ItemRepository) MarkSent(ctx context.Context, ids []string) (int64, error) {
	return r.updateSent(ctx, "mark sent", "id", ids, true)
}

// ResetSent makes items with the given links eligible for delivery again
func (r *ItemRepository) ResetSent(ctx context.Context, links []string) (int64, error) {
	return r.updateSent(ctx, "reset sent", "link", links, false)
}

// MarkAllUnsentAsSent flags every pending item as sent without delivering it
func (r *ItemRepository) MarkAllUnsentAsSent(ctx context.Context) (int64, error) {
	var affected int64
	err := r.retry(ctx, "mark all unsent as sent", "items", func() error {
		result, err := r.db.ExecContext(ctx, "UPDATE items SET sent = 1 WHERE sent = 0")
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	return affected, err
}

func (r *ItemRepository) updateSent(ctx context.Context, op, column string, keys []string, sent bool) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	from, to := 0, 1
	if !sent {
		from, to = 1, 0
	}
	query, args, err := sqlx.In(
		fmt.Sprintf("UPDATE items SET sent = ? WHERE sent = ? AND %s IN (?)", column), to, from, keys)
	if err != nil {
		return 0, fmt.Errorf("%s: build query: %w", op, err)
	}

	var affected int64
	err = r.retry(ctx, op, fmt.Sprintf("%d keys", len(keys)), func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback() //nolint:errcheck // no-op after commit

		result, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return err
		}
		if affected, err = result.RowsAffected(); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// CountUnsent returns the number of items waiting for delivery
func (r *ItemRepository) CountUnsent(ctx context.Context) (int64, error) {
	var count int64
	err := r.retry(ctx, "count unsent", "items", func() error {
		return r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM items WHERE sent = 0")
	})
	return count, err
}

// Count returns the total number of stored items
func (r *ItemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.retry(ctx, "count items", "items", func() error {
		return r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM items")
	})
	return count, err
}

// GetItemByLink returns the item with the given link, ErrNotFound if there is none
func (r *ItemRepository) GetItemByLink(ctx context.Context, link string) (*domain.FeedItem, error) {
	var row itemSQL
	found := true
	err := r.retry(ctx, "get item by link", link, func() error {
		err := r.db.GetContext(ctx, &row, "SELECT "+itemColumns+" FROM items WHERE link = ? LIMIT 1", link)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	item := row.toDomain()
	return &item, nil
}

// RecentItems returns the most recently stored items, newest first
func (r *ItemRepository) RecentItems(ctx context.Context, limit int) ([]domain.FeedItem, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []itemSQL
	err := r.retry(ctx, "recent items", "items", func() error {
		rows = nil
		return r.db.SelectContext(ctx, &rows,
			"SELECT "+itemColumns+" FROM items ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	})
	if err != nil {
		return nil, err
	}
	return toDomainItems(rows), nil
}

func (s *itemSQL) toDomain() domain.FeedItem {
	res := domain.FeedItem{
		ID:        s.ID,
		Title:     s.Title,
		Link:      s.Link,
		Abstract:  s.Abstract.String,
		Sent:      s.Sent,
		CreatedAt: s.CreatedAt,
	}
	if s.PublishedTime != nil {
		ts := s.PublishedTime.UTC()
		res.PublishedTime = &ts
	}
	return res
}

func toDomainItems(rows []itemSQL) []domain.FeedItem {
	items := make([]domain.FeedItem, len(rows))
	for i := range rows {
		items[i] = rows[i].toDomain()
	}
	return items
}
