package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// handleBatchStream pushes a snapshot of the current board every tick until
// the batch is done or the client goes away. "null" is sent while no batch exists.
func (s *Server) handleBatchStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// send reports whether the stream should go on
	send := func() bool {
		var data any
		done := false
		if board := s.runner.Current(); board != nil {
			snap := board.Snapshot()
			data, done = snap, snap.Done
		}
		payload, err := json.Marshal(data)
		if err != nil {
			return false
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return false
		}
		flusher.Flush()
		return !done
	}

	if !send() {
		return
	}

	ticker := time.NewTicker(s.streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if !send() {
				return
			}
		}
	}
}
