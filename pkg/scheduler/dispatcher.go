package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/samber/lo"

	"github.com/umputun/newsdigest/pkg/digest"
	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/notify"
)

// Dispatcher sends unsent items as digest messages in fixed-size batches and marks
// delivered items as sent. A failed batch stays unsent and is retried next cycle.
type Dispatcher struct {
	store       ItemStore
	notifier    notify.Notifier // nil means no destinations
	rewriter    Rewriter        // optional
	topics      digest.TopicClassifier
	labeler     *digest.Labeler
	batchSize   int
	batchPause  time.Duration
	sendTimeout time.Duration
}

// DispatcherParams groups dispatcher dependencies
type DispatcherParams struct {
	Store       ItemStore
	Notifier    notify.Notifier
	Rewriter    Rewriter
	Topics      digest.TopicClassifier
	Sources     []digest.SourceLabel
	BatchSize   int
	BatchPause  time.Duration
	SendTimeout time.Duration
}

// NewDispatcher makes a dispatcher, missing topics classifier disables subject flavours
func NewDispatcher(p DispatcherParams) *Dispatcher {
	res := &Dispatcher{
		store:       p.Store,
		notifier:    p.Notifier,
		rewriter:    p.Rewriter,
		topics:      p.Topics,
		labeler:     digest.NewLabeler(p.Sources),
		batchSize:   p.BatchSize,
		batchPause:  p.BatchPause,
		sendTimeout: p.SendTimeout,
	}
	if res.topics == nil {
		res.topics = digest.NoTopics{}
	}
	if res.batchSize <= 0 {
		res.batchSize = 10
	}
	if res.sendTimeout <= 0 {
		res.sendTimeout = 30 * time.Second
	}
	return res
}

// DispatchPending sends all unsent items. Each batch is independent, a failed batch
// doesn't stop the following ones.
func (d *Dispatcher) DispatchPending(ctx context.Context) domain.DispatchStats {
	st := time.Now()
	stats := domain.DispatchStats{}
	defer func() {
		stats.Duration = time.Since(st)
		stats.FinishedAt = time.Now()
	}()

	if d.notifier == nil {
		log.Printf("[WARN] no notification destinations configured, dispatch skipped")
		return stats
	}

	items, err := d.store.SelectUnsent(ctx)
	if err != nil {
		log.Printf("[ERROR] failed to select unsent items: %v", err)
		return stats
	}
	if len(items) == 0 {
		log.Printf("[DEBUG] nothing to dispatch")
		return stats
	}

	batches := lo.Chunk(items, d.batchSize)
	log.Printf("[INFO] dispatching %d items in %d batches", len(items), len(batches))

	for i, batch := range batches {
		n := i + 1
		if i > 0 && !d.pause(ctx) {
			log.Printf("[WARN] dispatch interrupted before batch %d/%d: %v", n, len(batches), ctx.Err())
			break
		}
		stats.Batches++
		err := d.dispatchBatch(ctx, batch, n, len(batches))
		if errors.Is(err, notify.ErrNoDestinations) {
			log.Printf("[WARN] %v, dispatch skipped", err)
			break
		}
		if err != nil {
			log.Printf("[WARN] batch %d/%d of %d items not delivered, will retry next cycle: %v", n, len(batches), len(batch), err)
			stats.Failed++
			continue
		}
		stats.Succeeded++
		stats.Items += len(batch)
	}

	log.Printf("[INFO] dispatch done in %v: batches %d, succeeded %d, failed %d, items sent %d",
		time.Since(st).Round(time.Millisecond), stats.Batches, stats.Succeeded, stats.Failed, stats.Items)
	return stats
}

// dispatchBatch renders, sends and marks one batch. Error means the batch was not delivered.
func (d *Dispatcher) dispatchBatch(ctx context.Context, items []domain.FeedItem, n, total int) error {
	articles := d.labeler.Articles(items)
	flavour := d.topics.Flavour(articles)
	title, body := d.render(ctx, articles, flavour, n, total)

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	err := d.notifier.Send(sendCtx, title, body)
	cancel()
	if err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	links := digest.Links(articles)
	marked, err := d.store.MarkSentByLinks(ctx, links)
	if err != nil {
		// delivered but still unsent, the batch will be delivered again next cycle
		log.Printf("[ERROR] batch %d/%d delivered but not marked as sent, links %s: %v", n, total, strings.Join(links, ", "), err)
		return nil
	}
	log.Printf("[INFO] batch %d/%d delivered, %d items marked as sent", n, total, marked)
	return nil
}

// render returns the rewritten title and body, or the plain fallback if rewriting is
// disabled or failed
func (d *Dispatcher) render(ctx context.Context, articles []digest.Article, flavour string, n, total int) (title, body string) {
	if d.rewriter != nil {
		rwTitle, rwBody, err := d.rewriter.Rewrite(ctx, articles, flavour, n, total)
		if err == nil && strings.TrimSpace(rwBody) != "" {
			if strings.TrimSpace(rwTitle) == "" {
				rwTitle = digest.Title(flavour, n, total)
			}
			return rwTitle, rwBody
		}
		if err == nil {
			err = errors.New("empty body")
		}
		log.Printf("[WARN] rewrite of batch %d/%d failed, using plain digest: %v", n, total, err)
	}
	return digest.RenderFallback(articles, flavour, n, total)
}

// pause waits between batches, returns false if the context is done
func (d *Dispatcher) pause(ctx context.Context) bool {
	if d.batchPause <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d.batchPause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
