package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tallyhq/tally/internal/api/middleware"
	"github.com/tallyhq/tally/internal/api/response"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/sync"
)

const (
	// Time between keepalive pings
	pingPeriod = 15 * time.Second
)

// EventsHandler streams board snapshots over SSE
type EventsHandler struct {
	syncer *sync.Syncer
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(syncer *sync.Syncer) *EventsHandler {
	return &EventsHandler{syncer: syncer}
}

// Stream handles GET /api/v1/boards/{id}/events
// Each event carries the full board snapshot; a client applies it
// wholesale, never merges.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	profileID := middleware.MustGetProfile(r.Context())
	id := model.BoardID(mux.Vars(r)["id"])

	updates, cancel, err := h.syncer.Subscribe(r.Context(), profileID, id)
	if err != nil {
		http.Error(w, "Subscription failed", http.StatusInternalServerError)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case board := <-updates:
			data, err := json.Marshal(response.BoardFromModel(board, false))
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: board\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
