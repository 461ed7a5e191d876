package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/stylemap/internal/domain/model"
)

// matchRequest is one match in the body of POST /players/{id}/matches.
type matchRequest struct {
	MatchID         string    `json:"matchId" validate:"required"`
	Queue           string    `json:"queue" validate:"required"`
	Champion        string    `json:"champion" validate:"required"`
	Win             bool      `json:"win"`
	Kills           int       `json:"kills" validate:"gte=0"`
	Deaths          int       `json:"deaths" validate:"gte=0"`
	Assists         int       `json:"assists" validate:"gte=0"`
	CS              int       `json:"cs" validate:"gte=0"`
	Damage          int       `json:"damage" validate:"gte=0"`
	DurationSeconds int       `json:"durationSeconds" validate:"gte=0"`
	PlayedAt        time.Time `json:"playedAt"`
}

type ingestRequest struct {
	Matches []matchRequest `json:"matches" validate:"required,min=1,dive"`
}

type ingestResponse struct {
	Inserted int `json:"inserted"`
}

func (m matchRequest) toModel() model.Match {
	return model.Match{
		MatchID:  m.MatchID,
		Queue:    m.Queue,
		Champion: m.Champion,
		Win:      m.Win,
		Kills:    m.Kills,
		Deaths:   m.Deaths,
		Assists:  m.Assists,
		CS:       m.CS,
		Damage:   m.Damage,
		Duration: time.Duration(m.DurationSeconds) * time.Second,
		PlayedAt: m.PlayedAt,
	}
}

func playerID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return "", badRequest(errors.New("missing player id"))
	}
	return id, nil
}

// handleIngest handles POST /players/{id}/matches.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	var req ingestRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	matches := make([]model.Match, len(req.Matches))
	for i, m := range req.Matches {
		matches[i] = m.toModel()
	}
	n, err := s.deps.IngestMatches(r.Context(), id, matches)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ingestResponse{Inserted: n})
}

// handlePlayerMap handles GET /players/{id}/stylemap?queue=Q.
func (s *Server) handlePlayerMap(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	queue := strings.TrimSpace(r.URL.Query().Get("queue"))
	if queue == "" {
		s.writeFailure(w, r, badRequest(errors.New("missing queue")))
		return
	}

	res, err := s.deps.PlayerMap(r.Context(), id, queue)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handlePlayerMaps handles GET /players/{id}/stylemaps.
func (s *Server) handlePlayerMaps(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	all, err := s.deps.BuildAllQueues(r.Context(), id)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}
