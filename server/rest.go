package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/scheduler"
)

type ingestStatus struct {
	Sources      int       `json:"sources"`
	ValidSources int       `json:"valid_sources"`
	Seen         int       `json:"seen"`
	Relevant     int       `json:"relevant"`
	Inserted     int       `json:"inserted"`
	Duplicates   int       `json:"duplicates"`
	Failed       int       `json:"failed"`
	Duration     string    `json:"duration"`
	FinishedAt   time.Time `json:"finished_at"`
}

type dispatchStatus struct {
	Batches    int       `json:"batches"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Items      int       `json:"items"`
	Duration   string    `json:"duration"`
	FinishedAt time.Time `json:"finished_at"`
}

type itemCounts struct {
	Total  int64 `json:"total"`
	Unsent int64 `json:"unsent"`
}

type statusResponse struct {
	Status       string          `json:"status"`
	Version      string          `json:"version"`
	Time         time.Time       `json:"time"`
	Database     string          `json:"database"`
	Items        *itemCounts     `json:"items,omitempty"`
	Running      string          `json:"running,omitempty"`
	Ingests      int             `json:"ingests"`
	Dispatches   int             `json:"dispatches"`
	LastIngest   *ingestStatus   `json:"last_ingest,omitempty"`
	LastDispatch *dispatchStatus `json:"last_dispatch,omitempty"`
}

// statusHandler returns the store state and the stats of the last runs
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Status: "ok", Version: s.version, Time: time.Now().UTC(), Database: "ok"}

	if err := s.db.Ping(r.Context()); err != nil {
		log.Printf("[WARN] database ping failed: %v", err)
		resp.Status, resp.Database = "degraded", err.Error()
	} else if counts, err := s.db.ItemCounts(r.Context()); err != nil {
		log.Printf("[WARN] failed to count items: %v", err)
		resp.Status = "degraded"
	} else {
		resp.Items = &itemCounts{Total: counts.Total, Unsent: counts.Unsent}
	}

	st := s.scheduler.Status()
	resp.Running, resp.Ingests, resp.Dispatches = string(st.Running), st.Ingests, st.Dispatches
	if st.Ingests > 0 {
		resp.LastIngest = newIngestStatus(st.LastIngest)
	}
	if st.Dispatches > 0 {
		resp.LastDispatch = newDispatchStatus(st.LastDispatch)
	}
	renderJSON(w, r, http.StatusOK, resp)
}

// triggerHandler queues a scheduler run, the run happens in the scheduler loop
func (s *Server) triggerHandler(task scheduler.Task) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.scheduler.Trigger(task); err != nil {
			renderError(w, r, err, http.StatusTooManyRequests)
			return
		}
		renderJSON(w, r, http.StatusAccepted, rest.JSON{"status": "queued", "task": string(task)})
	}
}

// markAllSentHandler marks every unsent item as sent without delivering it
func (s *Server) markAllSentHandler(w http.ResponseWriter, r *http.Request) {
	n, err := s.db.MarkAllUnsentAsSent(r.Context())
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "can't mark items as sent")
		return
	}
	log.Printf("[INFO] %d items marked as sent via api", n)
	renderJSON(w, r, http.StatusOK, rest.JSON{"marked": n})
}

// resetHandler returns sent items to the unsent state, they go out with the next dispatch
func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Links []string `json:"links"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}
	links := make([]string, 0, len(req.Links))
	for _, l := range req.Links {
		if l = strings.TrimSpace(l); l != "" {
			links = append(links, l)
		}
	}
	if len(links) == 0 {
		renderError(w, r, errors.New("no links"), http.StatusBadRequest)
		return
	}

	n, err := s.db.ResetSent(r.Context(), links)
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "can't reset items")
		return
	}
	log.Printf("[INFO] %d items reset to unsent via api", n)
	renderJSON(w, r, http.StatusOK, rest.JSON{"reset": n})
}

func newIngestStatus(st domain.IngestStats) *ingestStatus {
	return &ingestStatus{
		Sources: st.Sources, ValidSources: st.ValidSources, Seen: st.Seen, Relevant: st.Relevant,
		Inserted: st.Inserted, Duplicates: st.Duplicates, Failed: st.Failed,
		Duration: st.Duration.Round(time.Millisecond).String(), FinishedAt: st.FinishedAt,
	}
}

func newDispatchStatus(st domain.DispatchStats) *dispatchStatus {
	return &dispatchStatus{
		Batches: st.Batches, Succeeded: st.Succeeded, Failed: st.Failed, Items: st.Items,
		Duration: st.Duration.Round(time.Millisecond).String(), FinishedAt: st.FinishedAt,
	}
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
