package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tripcast-io/tripcast/internal/overlay/control"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleReadyz reports ready only after the first successful render cycle,
// so the compositor never picks up an empty overlay.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if !s.store.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("waiting for first render"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleListCommands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Commands())
}

// invokeResponse is returned by the command endpoint.
type invokeResponse struct {
	OverlayState
	Error string `json:"error,omitempty"`
}

func (s *Server) handleInvokeCommand(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	_, err := s.ctrl.Invoke(r.Context(), name, confirmed)

	switch {
	case errors.Is(err, control.ErrUnknownCommand):
		writeJSON(w, http.StatusNotFound, invokeResponse{OverlayState: s.currentState(), Error: err.Error()})
	case errors.Is(err, control.ErrConfirmationRequired):
		// Not a failure: the warning feedback prompts the operator to re-invoke.
		writeJSON(w, http.StatusAccepted, invokeResponse{OverlayState: s.currentState(), Error: err.Error()})
	case err != nil:
		s.logger.Error(err, "Command invocation failed", "command", name)
		writeJSON(w, http.StatusInternalServerError, invokeResponse{OverlayState: s.currentState(), Error: err.Error()})
	default:
		writeJSON(w, http.StatusAccepted, invokeResponse{OverlayState: s.currentState()})
	}
}
