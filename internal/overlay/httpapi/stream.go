package httpapi

import (
	"fmt"
	"net/http"
)

// handleStream serves the overlay's live feed as Server-Sent Events.
// Every event is a full OverlayState document; the browser overlay applies
// each frame wholesale, so reconnecting clients need no catch-up protocol.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch := s.hub.subscribe()
	defer s.hub.unsubscribe(ch)

	s.logger.Debug("Overlay stream subscriber connected", "remote", r.RemoteAddr, "subscribers", s.hub.subscriberCount())

	// Send the current state immediately so the overlay paints on connect.
	s.BroadcastFrame()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("Overlay stream subscriber disconnected", "remote", r.RemoteAddr)
			return
		case frame, open := <-ch:
			if !open {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", frame); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
