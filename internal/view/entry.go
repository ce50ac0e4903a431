package view

import (
	"html/template"
	"io"
	"slices"

	"github.com/claude/pinlog/internal/models"
)

// Entry is a workout prepared for display.
type Entry struct {
	ID          int64            `json:"id"`
	Type        models.Type      `json:"type"`
	Title       string           `json:"title"`
	Icon        string           `json:"icon"`
	Distance    models.Number    `json:"distance"`
	Duration    models.Number    `json:"duration"`
	Rate        models.Number    `json:"rate"`
	RateUnit    string           `json:"rateUnit"`
	Metric      models.Number    `json:"metric"`
	MetricIcon  string           `json:"metricIcon"`
	MetricUnit  string           `json:"metricUnit"`
	Coords      [2]models.Number `json:"coords"`
	MarkerLabel string           `json:"markerLabel"`
}

// NewEntry flattens a workout for display. Runs show pace and cadence,
// rides show speed and elevation gain.
func NewEntry(w models.Workout) Entry {
	a := w.Base()
	e := Entry{
		ID:          a.ActivityID,
		Type:        w.Kind(),
		Title:       a.Description,
		Distance:    models.Number(a.Distance),
		Duration:    models.Number(a.Duration),
		Rate:        models.Number(a.Rate),
		Coords:      latLng(a.Coords),
		MarkerLabel: models.MarkerLabel(w),
	}
	switch v := w.(type) {
	case *models.Running:
		e.Icon = "🏃‍♂️"
		e.RateUnit = "min/km"
		e.Metric = models.Number(v.Cadence)
		e.MetricIcon = "🦶🏼"
		e.MetricUnit = "spm"
	case *models.Cycling:
		e.Icon = "🚴‍♀️"
		e.RateUnit = "km/h"
		e.Metric = models.Number(v.ElevationGain)
		e.MetricIcon = "⛰"
		e.MetricUnit = "m"
	}
	return e
}

// Entries converts a list in creation order to display order, newest first.
func Entries(ws []models.Workout) []Entry {
	out := make([]Entry, 0, len(ws))
	for _, w := range slices.Backward(ws) {
		out = append(out, NewEntry(w))
	}
	return out
}

var entryTmpl = template.Must(template.New("entry").Parse(`<li class="workout workout--{{.Type}}" data-id="{{.ID}}">
  <div class="delete__workout"><button class="delete__workout__button" data-id="{{.ID}}">Delete</button></div>
  <h2 class="workout__title">{{.Title}}</h2>
  <div class="workout__details"><span class="workout__icon">{{.Icon}}</span><span class="workout__value">{{.Distance}}</span><span class="workout__unit">km</span></div>
  <div class="workout__details"><span class="workout__icon">⏱</span><span class="workout__value">{{.Duration}}</span><span class="workout__unit">min</span></div>
  <div class="workout__details"><span class="workout__icon">⚡️</span><span class="workout__value">{{.Rate}}</span><span class="workout__unit">{{.RateUnit}}</span></div>
  <div class="workout__details"><span class="workout__icon">{{.MetricIcon}}</span><span class="workout__value">{{.Metric}}</span><span class="workout__unit">{{.MetricUnit}}</span></div>
</li>
`))

// RenderEntry writes the list item markup for one entry.
func RenderEntry(w io.Writer, e Entry) error {
	return entryTmpl.Execute(w, e)
}
