package adapthttp

import (
	"errors"
	"net/http"
)

func (s *Server) handleTracker(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"snapshot": s.tracker.Snapshot()})
}

func (s *Server) handleSetLimit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Limit *int `json:"limit"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Limit == nil {
		writeError(w, http.StatusBadRequest, errors.New("limit is required"))
		return
	}
	snap, err := s.tracker.SetLimit(r.Context(), *body.Limit)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshot": snap})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	snap, err := s.tracker.Reset(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshot": snap})
}
