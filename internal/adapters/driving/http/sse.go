package http

import (
	"encoding/json"
	"net/http"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// doneSentinel terminates every event stream, including error streams, so
// clients always have an unambiguous end-of-stream marker.
const doneSentinel = "data: [DONE]\n\n"

// streamEvents writes stage events to the response as server-sent data
// frames and appends the DONE sentinel once the channel closes. Each frame
// is flushed immediately so the client sees progress as it happens.
func streamEvents(w http.ResponseWriter, events <-chan domain.StageEvent) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			// Marshal of a StageEvent cannot realistically fail;
			// drop the frame rather than corrupt the stream.
			continue
		}
		if _, err := w.Write([]byte("data: ")); err != nil {
			return
		}
		if _, err := w.Write(payload); err != nil {
			return
		}
		if _, err := w.Write([]byte("\n\n")); err != nil {
			return
		}
		flusher.Flush()
	}

	_, _ = w.Write([]byte(doneSentinel))
	flusher.Flush()
}
