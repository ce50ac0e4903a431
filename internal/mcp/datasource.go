package mcp

import (
	"context"
	"errors"

	"github.com/claude/pinlog/internal/app"
	"github.com/claude/pinlog/internal/models"
	"github.com/claude/pinlog/internal/view"
)

// DataSource abstracts the workout log for MCP tools. Local drives an
// in-process controller; HTTPClient drives a running pinlog server over its
// REST API.
type DataSource interface {
	ListWorkouts(ctx context.Context) ([]models.Record, error)
	// LogWorkout pins pos and submits f there, returning the new entry.
	LogWorkout(ctx context.Context, pos models.Coords, f app.Form) (view.Entry, error)
	// DeleteWorkout reports whether a workout with that id existed.
	DeleteWorkout(ctx context.Context, id int64) (bool, error)
	ClearWorkouts(ctx context.Context) error
}

// Local implements DataSource on a controller shared with other front ends.
type Local struct {
	app *app.Serialized
}

var _ DataSource = (*Local)(nil)

func NewLocal(ctrl *app.Serialized) *Local {
	return &Local{app: ctrl}
}

func (l *Local) ListWorkouts(ctx context.Context) ([]models.Record, error) {
	var recs []models.Record
	l.app.Do(func(c *app.Controller) error {
		c.Load(ctx)
		ws := c.Workouts()
		recs = make([]models.Record, 0, len(ws))
		for _, w := range ws {
			recs = append(recs, models.ToRecord(w))
		}
		return nil
	})
	return recs, nil
}

// LogWorkout starts the map at pos when nothing has started it yet. A form
// that does not validate is cancelled so no pin is left open.
func (l *Local) LogWorkout(ctx context.Context, pos models.Coords, f app.Form) (view.Entry, error) {
	var entry view.Entry
	err := l.app.Do(func(c *app.Controller) error {
		if !c.Started() {
			if err := c.Start(ctx, app.StaticLocator(pos)); err != nil {
				return err
			}
		}
		if err := c.Pin(pos); err != nil {
			return err
		}
		w, err := c.Submit(ctx, f)
		if errors.Is(err, app.ErrInvalidInput) {
			c.Cancel()
			return err
		}
		if w != nil {
			entry = view.NewEntry(w)
		}
		return err
	})
	return entry, err
}

func (l *Local) DeleteWorkout(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := l.app.Do(func(c *app.Controller) error {
		var err error
		found, err = c.Delete(ctx, id)
		return err
	})
	return found, err
}

func (l *Local) ClearWorkouts(ctx context.Context) error {
	return l.app.Do(func(c *app.Controller) error { return c.Clear(ctx) })
}
