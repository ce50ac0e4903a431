package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Type discriminates the workout variants.
type Type string

// Workout types as they appear in the persisted JSON.
const (
	TypeRunning Type = "running"
	TypeCycling Type = "cycling"
)

// ParseType maps a form or query value onto a Type. Matching is case-insensitive.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeRunning:
		return TypeRunning, nil
	case TypeCycling:
		return TypeCycling, nil
	}
	return "", fmt.Errorf("unknown workout type %q", s)
}

// Title returns the type name with its first letter upper-cased.
func (t Type) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// Coords is a (latitude, longitude) pair.
type Coords struct {
	Lat float64
	Lng float64
}

func (c Coords) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// Activity holds the fields shared by every workout variant.
type Activity struct {
	ActivityID  int64
	Distance    float64 // km
	Duration    float64 // minutes
	Coords      Coords
	Rate        float64
	Description string
}

// Base returns the shared fields. It is promoted to *Running and *Cycling.
func (a *Activity) Base() *Activity { return a }

// Workout is a logged exercise session. The set of implementations is closed:
// *Running and *Cycling.
type Workout interface {
	Kind() Type
	Base() *Activity
	workout()
}

// Running is a run with a cadence in steps per minute.
type Running struct {
	Activity
	Cadence float64
}

func (*Running) Kind() Type { return TypeRunning }
func (*Running) workout()   {}

// Cycling is a ride with an elevation gain in metres. The gain may be zero or negative.
type Cycling struct {
	Activity
	ElevationGain float64
}

func (*Cycling) Kind() Type { return TypeCycling }
func (*Cycling) workout()   {}

// NewRunning builds a run. Inputs are not validated: a zero distance yields
// an infinite or NaN rate.
func NewRunning(id int64, distance, duration float64, coords Coords, cadence float64, at time.Time) *Running {
	r := &Running{Activity: newActivity(id, distance, duration, coords)}
	r.Cadence = cadence
	r.Description = Describe(TypeRunning, at)
	return r
}

// NewCycling builds a ride. Inputs are not validated.
func NewCycling(id int64, distance, duration float64, coords Coords, elevationGain float64, at time.Time) *Cycling {
	c := &Cycling{Activity: newActivity(id, distance, duration, coords)}
	c.ElevationGain = elevationGain
	c.Description = Describe(TypeCycling, at)
	return c
}

func newActivity(id int64, distance, duration float64, coords Coords) Activity {
	return Activity{
		ActivityID: id,
		Distance:   distance,
		Duration:   duration,
		Coords:     coords,
		Rate:       RoundRate(duration, distance),
	}
}

// RoundRate returns duration/distance rounded to two decimals.
func RoundRate(duration, distance float64) float64 {
	return math.Round(duration/distance*100) / 100
}

// Describe formats the list title, e.g. "Running on Thursday, October 2026".
func Describe(t Type, at time.Time) string {
	return fmt.Sprintf("%s on %s, %s %d", t.Title(), at.Weekday(), at.Month(), at.Year())
}

// MarkerLabel is the popup text shown on a workout's map marker.
func MarkerLabel(w Workout) string {
	return fmt.Sprintf("%s #%d", w.Kind(), w.Base().ActivityID%1000)
}

// Factory creates workouts with ids from an allocator and timestamps from a clock.
type Factory struct {
	ids *IDAllocator
	now func() time.Time
}

// NewFactory returns a Factory. A nil clock means time.Now.
func NewFactory(ids *IDAllocator, now func() time.Time) *Factory {
	if now == nil {
		now = time.Now
	}
	return &Factory{ids: ids, now: now}
}

// Running allocates an id and builds a run.
func (f *Factory) Running(distance, duration float64, coords Coords, cadence float64) *Running {
	return NewRunning(f.ids.Next(), distance, duration, coords, cadence, f.now())
}

// Cycling allocates an id and builds a ride.
func (f *Factory) Cycling(distance, duration float64, coords Coords, elevationGain float64) *Cycling {
	return NewCycling(f.ids.Next(), distance, duration, coords, elevationGain, f.now())
}
