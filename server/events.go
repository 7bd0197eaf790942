package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
)

const keepAliveInterval = 30 * time.Second

// eventsHandler streams notifications of the surface as server-sent events.
// Without surface param all notifications are streamed.
func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// the stream outlives server write timeout
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		lgr.Printf("[DEBUG] can't reset write deadline: %v", err)
	}

	surface := r.URL.Query().Get("surface")
	events, cancel := s.Events.Subscribe(surface)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		lgr.Printf("[WARN] streaming is not supported: %v", err)
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case n, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(n)
			if err != nil {
				lgr.Printf("[ERROR] can't encode notification: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", n.Type, data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
