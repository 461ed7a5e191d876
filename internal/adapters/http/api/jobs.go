package api

import (
	"net/http"
)

// jobRequest is the body of POST /jobs.
type jobRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Queue    string `json:"queue" validate:"required"`
}

type jobAccepted struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// handleSubmitJob handles POST /jobs.
func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	st, err := s.deps.SubmitJob(r.Context(), req.PlayerID, req.Queue)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, jobAccepted{ID: st.ID, State: st.State})
}

// handleGetJob handles GET /jobs/{id}.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.Job(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
