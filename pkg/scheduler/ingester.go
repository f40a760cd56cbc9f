package scheduler

import (
	"context"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/feed"
	"github.com/umputun/newsdigest/pkg/filter"
)

// Ingester runs one ingestion cycle: validate sources, filter entries and store the new ones.
// Nothing is sent from here.
type Ingester struct {
	store        ItemStore
	validator    SourceValidator
	extractor    Extractor // optional, backfills empty abstracts
	sources      []feed.Source
	keywordsFile string
	threshold    time.Duration
	now          func() time.Time
}

// IngesterParams groups ingester dependencies
type IngesterParams struct {
	Store        ItemStore
	Validator    SourceValidator
	Extractor    Extractor
	Sources      []feed.Source
	KeywordsFile string
	Threshold    time.Duration
}

// NewIngester makes an ingester, keywords are re-read from KeywordsFile on every run
func NewIngester(p IngesterParams) *Ingester {
	return &Ingester{
		store:        p.Store,
		validator:    p.Validator,
		extractor:    p.Extractor,
		sources:      p.Sources,
		keywordsFile: p.KeywordsFile,
		threshold:    p.Threshold,
		now:          time.Now,
	}
}

// Run executes one ingestion cycle. Failures of a single entry or feed are logged and
// counted, they never stop the cycle.
func (in *Ingester) Run(ctx context.Context) domain.IngestStats {
	st := time.Now()
	stats := domain.IngestStats{Sources: len(in.sources)}
	defer func() {
		stats.Duration = time.Since(st)
		stats.FinishedAt = time.Now()
	}()

	keywords, err := filter.LoadKeywords(in.keywordsFile)
	if err != nil {
		log.Printf("[WARN] can't load keywords, using defaults: %v", err)
		keywords = append([]string(nil), filter.DefaultKeywords...)
	}
	if len(keywords) == 0 {
		log.Printf("[WARN] keyword list %s is empty, nothing will match", in.keywordsFile)
	}
	matcher := filter.NewMatcher(keywords)

	valid := in.validator.Validate(ctx, in.sources)
	stats.ValidSources = len(valid)

	now := in.now()
	for _, src := range valid {
		if ctx.Err() != nil {
			log.Printf("[WARN] ingestion interrupted: %v", ctx.Err())
			break
		}
		in.ingestSource(ctx, src, matcher, now, &stats)
	}

	log.Printf("[INFO] ingestion done in %v: sources %d/%d, entries %d, relevant %d, inserted %d, duplicates %d, failed %d",
		time.Since(st).Round(time.Millisecond), stats.ValidSources, stats.Sources, stats.Seen, stats.Relevant,
		stats.Inserted, stats.Duplicates, stats.Failed)
	return stats
}

func (in *Ingester) ingestSource(ctx context.Context, src feed.Source, matcher *filter.Matcher, now time.Time, stats *domain.IngestStats) {
	if src.Feed == nil {
		log.Printf("[WARN] feed %s has no parsed content, skipped", src.URL)
		return
	}
	if len(src.Feed.Entries) == 0 {
		log.Printf("[DEBUG] feed %s has no entries", src.URL)
		return
	}

	inserted := 0
	for _, entry := range src.Feed.Entries {
		stats.Seen++
		if in.ingestEntry(ctx, src, entry, matcher, now, stats) {
			inserted++
		}
	}
	if inserted > 0 {
		log.Printf("[INFO] added %d new items from %s", inserted, src.Name)
	}
}

// ingestEntry filters and stores one entry, returns true if a new item was inserted
func (in *Ingester) ingestEntry(ctx context.Context, src feed.Source, entry domain.Entry, matcher *filter.Matcher,
	now time.Time, stats *domain.IngestStats) bool {
	verdict, published, err := filter.Evaluate(entry, matcher, in.threshold, now)
	switch verdict {
	case filter.NoMatch:
		return false
	case filter.NoDate:
		log.Printf("[WARN] skip %q (%s) from %s: %v", entry.Title, entry.Link, src.Name, err)
		stats.Failed++
		return false
	case filter.TooOld:
		log.Printf("[DEBUG] skip %q (%s), published %s is older than %v", entry.Title, entry.Link,
			published.Format(time.RFC3339), in.threshold)
		return false
	case filter.Relevant:
	}
	stats.Relevant++

	link := strings.TrimSpace(entry.Link)
	if link == "" {
		log.Printf("[WARN] skip %q from %s: no link", entry.Title, src.Name)
		stats.Failed++
		return false
	}

	item := &domain.FeedItem{
		ID:            domain.ItemID(link),
		Title:         strings.TrimSpace(entry.Title),
		Link:          link,
		PublishedTime: published,
		Abstract:      feed.CleanText(entry.Summary),
	}
	if item.Abstract == "" {
		item.Abstract = feed.CleanText(entry.Content)
	}
	if item.Abstract == "" && in.extractor != nil {
		// stored rows are immutable, don't fetch pages of known items
		if _, err := in.store.GetItemByLink(ctx, link); err == nil {
			log.Printf("[DEBUG] %q (%s) already stored", item.Title, item.Link)
			stats.Duplicates++
			return false
		}
		item.Abstract = in.extract(ctx, link)
	}

	res, err := in.store.TryInsert(ctx, item)
	if err != nil {
		log.Printf("[WARN] failed to store %q (%s): %v", item.Title, item.Link, err)
		stats.Failed++
		return false
	}
	if res == domain.AlreadyExists {
		log.Printf("[DEBUG] %q (%s) already stored", item.Title, item.Link)
		stats.Duplicates++
		return false
	}
	log.Printf("[DEBUG] stored %q (%s)", item.Title, item.Link)
	stats.Inserted++
	return true
}

// extract returns the abstract built from the article page, empty on failure
func (in *Ingester) extract(ctx context.Context, link string) string {
	res, err := in.extractor.Extract(ctx, link)
	if err != nil {
		log.Printf("[DEBUG] no abstract extracted for %s: %v", link, err)
		return ""
	}
	return res
}
