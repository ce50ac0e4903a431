package view

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/claude/pinlog/internal/models"
)

var at = time.Date(2026, time.October, 15, 7, 0, 0, 0, time.UTC)

func sample() []models.Workout {
	return []models.Workout{
		models.NewRunning(1001, 5, 25, models.Coords{Lat: 10, Lng: 20}, 178, at),
		models.NewCycling(1002, 20, 60, models.Coords{Lat: 11, Lng: 21}, 300, at),
	}
}

// TestNewEntryPerVariant verifies units and metric come from the workout's variant.
func TestNewEntryPerVariant(t *testing.T) {
	ws := sample()
	run, ride := NewEntry(ws[0]), NewEntry(ws[1])
	if run.RateUnit != "min/km" || run.MetricUnit != "spm" || run.Metric != 178 {
		t.Errorf("run entry = %+v", run)
	}
	if ride.RateUnit != "km/h" || ride.MetricUnit != "m" || ride.Metric != 300 {
		t.Errorf("ride entry = %+v", ride)
	}
	if run.MarkerLabel != "running #1" {
		t.Errorf("marker label = %q, want %q", run.MarkerLabel, "running #1")
	}
}

// TestEntriesNewestFirst verifies display order is the reverse of creation order.
func TestEntriesNewestFirst(t *testing.T) {
	es := Entries(sample())
	if len(es) != 2 || es[0].ID != 1002 || es[1].ID != 1001 {
		t.Errorf("entries = %+v, want 1002 then 1001", es)
	}
}

// TestRenderEntryEscapes verifies the list item markup carries the id and
// escapes a hostile description.
func TestRenderEntryEscapes(t *testing.T) {
	w := models.NewRunning(7, 5, 25, models.Coords{}, 170, at)
	w.Description = `<script>alert(1)</script>`
	var buf bytes.Buffer
	if err := RenderEntry(&buf, NewEntry(w)); err != nil {
		t.Fatalf("RenderEntry: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `data-id="7"`) {
		t.Errorf("markup missing id: %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("description not escaped: %s", out)
	}
	if !strings.Contains(out, "workout--running") {
		t.Errorf("markup missing type class: %s", out)
	}
}

// TestStateSnapshot verifies State records map, list, markers and one-shot alerts.
func TestStateSnapshot(t *testing.T) {
	s := NewState()
	s.ShowMap(models.Coords{Lat: 1, Lng: 2}, 17)
	s.RenderList(sample())
	s.ClearMarkers()
	for _, w := range sample() {
		s.RenderMarker(w)
	}
	s.Alert("Error: Invalid Values")
	s.ResetForm()

	snap := s.Take()
	if snap.Map == nil || snap.Map.Zoom != 17 || snap.Map.Center != [2]models.Number{1, 2} {
		t.Errorf("map = %+v", snap.Map)
	}
	if len(snap.Workouts) != 2 || len(snap.Markers) != 2 {
		t.Errorf("workouts = %d, markers = %d", len(snap.Workouts), len(snap.Markers))
	}
	if len(snap.Alerts) != 1 || !snap.FormReset {
		t.Errorf("alerts = %v, formReset = %v", snap.Alerts, snap.FormReset)
	}

	again := s.Take()
	if len(again.Alerts) != 0 || again.FormReset {
		t.Errorf("second Take alerts = %v, formReset = %v; want consumed", again.Alerts, again.FormReset)
	}

	s.PanTo(models.Coords{Lat: 11, Lng: 21})
	if got := s.Peek().Map.Center; got != [2]models.Number{11, 21} {
		t.Errorf("center after PanTo = %v", got)
	}
}

// TestStateJSONNonFinite verifies a snapshot with an infinite rate still encodes.
func TestStateJSONNonFinite(t *testing.T) {
	s := NewState()
	s.RenderList([]models.Workout{models.NewRunning(1, 0, 10, models.Coords{}, 170, at)})
	data, err := json.Marshal(s.Peek())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"rate":null`) {
		t.Errorf("json = %s, want null rate", data)
	}
}

// TestTextWriteList verifies the terminal listing shows each workout.
func TestTextWriteList(t *testing.T) {
	var buf bytes.Buffer
	tv := NewText(&buf)
	if err := tv.WriteList(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No workouts yet") {
		t.Errorf("empty output = %q", buf.String())
	}

	buf.Reset()
	tv.RenderList(sample())
	if err := tv.WriteList(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"1001", "1002", "Cycling on Thursday, October 2026", "178 spm", "3 km/h"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
