package app

import (
	"context"

	"github.com/claude/pinlog/internal/models"
)

// View is everything the controller needs from a user interface: a map with
// markers, a workout list, a form and a way to alert the user.
type View interface {
	ShowMap(center models.Coords, zoom int)
	RenderList(ws []models.Workout)
	ClearMarkers()
	RenderMarker(w models.Workout)
	PanTo(c models.Coords)
	SetFormVisible(visible bool)
	ResetForm()
	// SetEmpty toggles the "no workouts yet" message. The clear-all control
	// is shown exactly when the message is hidden.
	SetEmpty(empty bool)
	Alert(msg string)
}

// Store persists the workout list as a whole.
type Store interface {
	Load(ctx context.Context) ([]models.Workout, error)
	Save(ctx context.Context, ws []models.Workout) error
	Clear(ctx context.Context) error
}

// Locator resolves the user's current position once.
type Locator interface {
	Locate(ctx context.Context) (models.Coords, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (models.Coords, error)

func (f LocatorFunc) Locate(ctx context.Context) (models.Coords, error) { return f(ctx) }

// StaticLocator always reports the same position.
type StaticLocator models.Coords

func (l StaticLocator) Locate(context.Context) (models.Coords, error) {
	return models.Coords(l), nil
}
