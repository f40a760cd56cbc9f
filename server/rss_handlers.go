package server

import (
	"net/http"
	"strconv"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/newsdigest/pkg/feed"
)

const (
	defaultRSSLimit = 50
	maxRSSLimit     = 500
)

// rssHandler serves recent stored items as RSS 2.0, limit is set by ?limit=N
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultRSSLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = min(l, maxRSSLimit)
		}
	}

	items, err := s.db.RecentItems(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] failed to get items for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	generator := feed.NewGenerator(s.config.GetBaseURL(), "")
	rss, err := generator.GenerateRSS(items, time.Now())
	if err != nil {
		log.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		log.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}
