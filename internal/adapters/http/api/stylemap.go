package api

import (
	"fmt"
	"net/http"

	"github.com/okian/stylemap/internal/domain/model"
	"github.com/okian/stylemap/internal/domain/stylemap"
)

// buildRequest is the body of POST /stylemap.
type buildRequest struct {
	Records []model.PerformanceRecord `json:"records" validate:"dive"`
	Options *buildOptions             `json:"options"`
}

// buildOptions override engine settings for a single build.
type buildOptions struct {
	MinGames       *int     `json:"min_games" validate:"omitempty,gte=0"`
	AvgGameMinutes *float64 `json:"avg_game_minutes" validate:"omitempty,gt=0"`
	CanvasWidth    *float64 `json:"canvas_width" validate:"omitempty,gt=80"`
	CanvasHeight   *float64 `json:"canvas_height" validate:"omitempty,gt=80"`
}

func (o *buildOptions) engineOptions() []stylemap.Option {
	if o == nil {
		return nil
	}
	var opts []stylemap.Option
	if o.MinGames != nil {
		opts = append(opts, stylemap.WithMinGames(*o.MinGames))
	}
	if o.AvgGameMinutes != nil {
		opts = append(opts, stylemap.WithAverageGameMinutes(*o.AvgGameMinutes))
	}
	if o.CanvasWidth != nil || o.CanvasHeight != nil {
		w, h := stylemap.DefaultCanvasWidth, stylemap.DefaultCanvasHeight
		if o.CanvasWidth != nil {
			w = *o.CanvasWidth
		}
		if o.CanvasHeight != nil {
			h = *o.CanvasHeight
		}
		opts = append(opts, stylemap.WithCanvas(w, h))
	}
	return opts
}

// handleBuild handles POST /stylemap.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if len(req.Records) > s.maxRecords {
		s.writeFailure(w, r, badRequest(fmt.Errorf("at most %d records per request", s.maxRecords)))
		return
	}

	res, err := s.deps.BuildMap(r.Context(), req.Records, req.Options.engineOptions()...)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
