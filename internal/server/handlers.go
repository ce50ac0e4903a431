package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/claude/pinlog/internal/app"
	"github.com/claude/pinlog/internal/export"
	"github.com/claude/pinlog/internal/models"
	"github.com/claude/pinlog/internal/view"
)

// stateResponse is the rendered view plus, on failure, what went wrong.
type stateResponse struct {
	Error string `json:"error,omitempty"`
	view.Snapshot
}

type position struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (p position) coords() (models.Coords, bool) {
	if p.Lat == nil || p.Lng == nil {
		return models.Coords{}, false
	}
	return models.Coords{Lat: *p.Lat, Lng: *p.Lng}, true
}

// startRequest carries the browser's geolocation result: a position, or the
// error message the browser reported.
type startRequest struct {
	position
	Error string `json:"error"`
}

// do runs fn against the controller and replies with the resulting view
// state. Errors from fn pick the status code.
func (s *Server) do(w http.ResponseWriter, r *http.Request, fn func(c *app.Controller) error) {
	var (
		snap view.Snapshot
		err  error
	)
	s.app.Do(func(c *app.Controller) error {
		c.Load(r.Context())
		err = fn(c)
		snap = s.state.Take()
		return nil
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.log.Error("request failed", "path", r.URL.Path, "error", err, "request_id", requestIDFromContext(r))
		}
		s.writeJSON(w, status, stateResponse{Error: err.Error(), Snapshot: snap})
		return
	}
	s.writeJSON(w, http.StatusOK, stateResponse{Snapshot: snap})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, app.ErrNotStarted), errors.Is(err, app.ErrNotPinned):
		return http.StatusConflict
	case errors.Is(err, app.ErrGeolocation):
		return http.StatusBadGateway
	case errors.Is(err, errNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

var errNotFound = errors.New("workout not found")

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.mapCfg)
}

// handleListHTML renders the workout list as HTML list items, newest first.
// It does not consume pending alerts.
func (s *Server) handleListHTML(w http.ResponseWriter, r *http.Request) {
	var snap view.Snapshot
	s.app.Do(func(c *app.Controller) error {
		c.Load(r.Context())
		snap = s.state.Peek()
		return nil
	})
	var buf bytes.Buffer
	for _, e := range snap.Workouts {
		if err := view.RenderEntry(&buf, e); err != nil {
			s.log.Error("render list", "error", err)
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "render failed"})
			return
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.do(w, r, func(*app.Controller) error { return nil })
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	var loc app.Locator
	if req.Error != "" {
		loc = app.LocatorFunc(func(context.Context) (models.Coords, error) { return models.Coords{}, errors.New(req.Error) })
	} else if pos, ok := req.coords(); ok {
		loc = app.StaticLocator(pos)
	} else {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng or error are required"})
		return
	}
	s.do(w, r, func(c *app.Controller) error { return c.Start(r.Context(), loc) })
}

func (s *Server) handlePin(w http.ResponseWriter, r *http.Request) {
	var req position
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	pos, ok := req.coords()
	if !ok {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng are required"})
		return
	}
	s.do(w, r, func(c *app.Controller) error { return c.Pin(pos) })
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.do(w, r, func(c *app.Controller) error {
		c.Cancel()
		return nil
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var f app.Form
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.do(w, r, func(c *app.Controller) error {
		_, err := c.Submit(r.Context(), f)
		return err
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	s.do(w, r, func(c *app.Controller) error {
		found, err := c.Delete(r.Context(), id)
		if err == nil && !found {
			return errNotFound
		}
		return err
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.do(w, r, func(c *app.Controller) error { return c.Clear(r.Context()) })
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	s.do(w, r, func(c *app.Controller) error {
		if !c.Focus(id) {
			return errNotFound
		}
		return nil
	})
}

// handleListWorkouts returns the list in its persisted shape.
func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	var ws []models.Workout
	s.app.Do(func(c *app.Controller) error {
		c.Load(r.Context())
		ws = c.Workouts()
		return nil
	})
	recs := make([]models.Record, 0, len(ws))
	for _, wk := range ws {
		recs = append(recs, models.ToRecord(wk))
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleExportGPX(w http.ResponseWriter, r *http.Request) {
	var ws []models.Workout
	s.app.Do(func(c *app.Controller) error {
		c.Load(r.Context())
		ws = c.Workouts()
		return nil
	})
	data, err := export.GPX(ws)
	if err != nil {
		s.log.Error("gpx export failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "export failed"})
		return
	}
	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="workouts.gpx"`)
	w.Write(data)
}

// writeJSON replies 500 when v cannot be encoded.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encode response", "error", err)
		status = http.StatusInternalServerError
		data = []byte(`{"error":"encode response failed"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}
