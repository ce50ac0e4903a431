// Package app holds the workout log controller: it owns the in-memory list
// and the pinning state, and mediates between a View, a Store and a Locator.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/claude/pinlog/internal/models"
	"github.com/claude/pinlog/internal/observability"
)

var (
	ErrGeolocation = errors.New("could not get your position")
	ErrNotStarted  = errors.New("map is not initialised")
	ErrNotPinned   = errors.New("no map position pinned")
)

// InvalidValuesMessage is the alert shown when the form does not validate.
const InvalidValuesMessage = "Error: Invalid Values"

// DefaultZoom is the map zoom used when none is configured.
const DefaultZoom = 17

// Controller is not safe for concurrent use. Callers that serve several
// clients must serialize calls.
type Controller struct {
	store   Store
	view    View
	ids     *models.IDAllocator
	factory *models.Factory
	log     *slog.Logger
	zoom    int
	now     func() time.Time

	started  bool
	loaded   bool
	center   models.Coords
	workouts []models.Workout
	pinning  bool
	selected models.Coords
}

type Option func(*Controller)

// WithClock sets the clock used for workout descriptions.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithZoom sets the initial map zoom.
func WithZoom(zoom int) Option {
	return func(c *Controller) { c.zoom = zoom }
}

// New creates a controller. It does nothing until Load or Start is called.
func New(store Store, view View, ids *models.IDAllocator, log *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		view:  view,
		ids:   ids,
		log:   log,
		zoom:  DefaultZoom,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.factory = models.NewFactory(ids, c.now)
	return c
}

// Start locates the user once, shows the map there, loads the persisted
// list and renders it. If locating fails the user is alerted and the map
// stays uninitialised.
func (c *Controller) Start(ctx context.Context, loc Locator) error {
	pos, err := loc.Locate(ctx)
	if err != nil {
		c.view.Alert(err.Error())
		return fmt.Errorf("%w: %w", ErrGeolocation, err)
	}
	c.center = pos
	c.view.ShowMap(pos, c.zoom)
	c.Load(ctx)
	c.started = true
	c.renderAll()
	c.log.Info("map ready", "center", pos.String(), "zoom", c.zoom, "workouts", len(c.workouts))
	return nil
}

// Load reads the persisted list once and renders it. It needs no map, so
// list and delete work before Start. Unreadable data is dropped without
// telling the user.
func (c *Controller) Load(ctx context.Context) {
	if c.loaded {
		return
	}
	c.loaded = true
	ws, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn("ignoring stored workouts", "error", err)
		ws = nil
	}
	for _, w := range ws {
		c.ids.Observe(w.Base().ActivityID)
	}
	c.workouts = ws
	c.renderAll()
	observability.SetStored(len(c.workouts))
}

// Pin records a clicked map position and opens an empty form for it.
func (c *Controller) Pin(pos models.Coords) error {
	if !c.started {
		return ErrNotStarted
	}
	c.selected = pos
	c.pinning = true
	c.view.SetEmpty(false)
	c.view.ResetForm()
	c.view.SetFormVisible(true)
	c.log.Debug("pinned", "coords", pos.String())
	return nil
}

// Cancel closes the form without creating a workout.
func (c *Controller) Cancel() {
	if !c.pinning {
		return
	}
	c.pinning = false
	c.view.SetFormVisible(false)
	c.view.SetEmpty(len(c.workouts) == 0)
}

// Submit validates the form, creates a workout at the pinned position,
// persists the list and re-renders. A form that does not validate alerts
// the user, resets the form and leaves the pin in place.
func (c *Controller) Submit(ctx context.Context, f Form) (models.Workout, error) {
	if !c.started {
		return nil, ErrNotStarted
	}
	if !c.pinning {
		return nil, ErrNotPinned
	}

	e, err := f.Validate()
	if err != nil {
		c.view.Alert(InvalidValuesMessage)
		c.view.ResetForm()
		return nil, err
	}

	var w models.Workout
	switch e.Type {
	case models.TypeRunning:
		w = c.factory.Running(e.Distance, e.Duration, c.selected, e.Metric)
	case models.TypeCycling:
		w = c.factory.Cycling(e.Distance, e.Duration, c.selected, e.Metric)
	}
	c.workouts = append(c.workouts, w)
	c.pinning = false
	c.view.SetFormVisible(false)
	c.view.ResetForm()
	c.renderAll()

	observability.RecordCreated(w.Kind())
	observability.SetStored(len(c.workouts))
	c.log.Info("workout added", "id", w.Base().ActivityID, "type", w.Kind(), "rate", w.Base().Rate)

	if err := c.store.Save(ctx, c.workouts); err != nil {
		return w, fmt.Errorf("saving workouts: %w", err)
	}
	return w, nil
}

// Delete removes the workout with the given id from memory and storage.
// An unknown id is a no-op and reports false.
func (c *Controller) Delete(ctx context.Context, id int64) (bool, error) {
	c.Load(ctx)
	i := c.index(id)
	if i < 0 {
		return false, nil
	}
	c.workouts = slices.Delete(c.workouts, i, i+1)
	c.renderAll()

	observability.RecordDeleted()
	observability.SetStored(len(c.workouts))
	c.log.Info("workout deleted", "id", id)

	if err := c.store.Save(ctx, c.workouts); err != nil {
		return true, fmt.Errorf("saving workouts: %w", err)
	}
	return true, nil
}

// Clear drops every workout and removes the persisted entry.
func (c *Controller) Clear(ctx context.Context) error {
	c.loaded = true
	n := len(c.workouts)
	c.workouts = nil
	c.renderAll()

	observability.RecordCleared()
	observability.SetStored(0)
	c.log.Info("workouts cleared", "count", n)

	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing workouts: %w", err)
	}
	return nil
}

// Focus pans the map to a workout. It reports whether the id exists.
func (c *Controller) Focus(id int64) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.view.PanTo(c.workouts[i].Base().Coords)
	return true
}

// Workouts returns a copy of the list in creation order. It is empty until
// Load or Start has run.
func (c *Controller) Workouts() []models.Workout {
	return slices.Clone(c.workouts)
}

// Lookup returns the workout with the given id.
func (c *Controller) Lookup(id int64) (models.Workout, bool) {
	i := c.index(id)
	if i < 0 {
		return nil, false
	}
	return c.workouts[i], true
}

// Pinned returns the pinned position while a form is open.
func (c *Controller) Pinned() (models.Coords, bool) {
	return c.selected, c.pinning
}

// Started reports whether the map has been initialised.
func (c *Controller) Started() bool { return c.started }

func (c *Controller) index(id int64) int {
	return slices.IndexFunc(c.workouts, func(w models.Workout) bool {
		return w.Base().ActivityID == id
	})
}

func (c *Controller) renderAll() {
	c.view.SetEmpty(len(c.workouts) == 0 && !c.pinning)
	c.view.RenderList(slices.Clone(c.workouts))
	c.view.ClearMarkers()
	for _, w := range c.workouts {
		c.view.RenderMarker(w)
	}
}
