package models

import (
	"math"
	"testing"
	"time"
)

var testTime = time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)

// TestNewRunning verifies the running example: rate 5, cadence kept, type running.
func TestNewRunning(t *testing.T) {
	r := NewRunning(1, 5, 25, Coords{Lat: 10, Lng: 20}, 178, testTime)
	if r.Rate != 5.0 {
		t.Errorf("rate = %v, want 5", r.Rate)
	}
	if r.Cadence != 178 {
		t.Errorf("cadence = %v, want 178", r.Cadence)
	}
	if r.Kind() != TypeRunning {
		t.Errorf("kind = %q, want %q", r.Kind(), TypeRunning)
	}
	if r.Coords != (Coords{Lat: 10, Lng: 20}) {
		t.Errorf("coords = %v", r.Coords)
	}
}

// TestNewCycling verifies the cycling example: rate 3, elevation kept, type cycling.
func TestNewCycling(t *testing.T) {
	c := NewCycling(2, 20, 60, Coords{Lat: 10, Lng: 20}, 300, testTime)
	if c.Rate != 3.0 {
		t.Errorf("rate = %v, want 3", c.Rate)
	}
	if c.ElevationGain != 300 {
		t.Errorf("elevationGain = %v, want 300", c.ElevationGain)
	}
	if c.Kind() != TypeCycling {
		t.Errorf("kind = %q, want %q", c.Kind(), TypeCycling)
	}
}

// TestRoundRate verifies two-decimal rounding of duration/distance.
func TestRoundRate(t *testing.T) {
	tests := []struct {
		name               string
		duration, distance float64
		want               float64
	}{
		{"exact", 25, 5, 5},
		{"thirds", 10, 3, 3.33},
		{"round up", 20, 3, 6.67},
		{"fast ride", 45, 30, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundRate(tt.duration, tt.distance); got != tt.want {
				t.Errorf("RoundRate(%v, %v) = %v, want %v", tt.duration, tt.distance, got, tt.want)
			}
		})
	}
}

// TestZeroDistanceNotGuarded verifies that construction accepts a zero distance
// and produces a non-finite rate instead of failing.
func TestZeroDistanceNotGuarded(t *testing.T) {
	r := NewRunning(1, 0, 30, Coords{}, 170, testTime)
	if !math.IsInf(r.Rate, 1) {
		t.Errorf("rate = %v, want +Inf", r.Rate)
	}
	r = NewRunning(2, 0, 0, Coords{}, 170, testTime)
	if !math.IsNaN(r.Rate) {
		t.Errorf("rate = %v, want NaN", r.Rate)
	}
	c := NewCycling(3, 10, -20, Coords{}, 0, testTime)
	if c.Rate != -2 {
		t.Errorf("rate = %v, want -2", c.Rate)
	}
}

// TestDescribe verifies the title combines type, weekday, month and year.
func TestDescribe(t *testing.T) {
	if got, want := Describe(TypeRunning, testTime), "Running on Thursday, October 2026"; got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
	c := NewCycling(1, 10, 30, Coords{}, 5, testTime)
	if want := "Cycling on Thursday, October 2026"; c.Description != want {
		t.Errorf("description = %q, want %q", c.Description, want)
	}
}

// TestParseType verifies case-insensitive parsing and rejection of unknown types.
func TestParseType(t *testing.T) {
	for in, want := range map[string]Type{"running": TypeRunning, "Cycling": TypeCycling, " RUNNING ": TypeRunning} {
		got, err := ParseType(in)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseType(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseType("swimming"); err == nil {
		t.Error("expected error for unknown type")
	}
}

// TestMarkerLabel verifies the popup shows the type and the last three id digits.
func TestMarkerLabel(t *testing.T) {
	r := NewRunning(1234, 5, 25, Coords{}, 170, testTime)
	if got, want := MarkerLabel(r), "running #234"; got != want {
		t.Errorf("MarkerLabel = %q, want %q", got, want)
	}
}

// TestFactoryIDsIncrease verifies that ids handed out through a Factory are
// distinct and strictly increasing across both variants.
func TestFactoryIDsIncrease(t *testing.T) {
	f := NewFactory(NewIDAllocator(990), func() time.Time { return testTime })
	ws := []Workout{
		f.Running(5, 25, Coords{}, 170),
		f.Cycling(20, 60, Coords{}, 100),
		f.Running(3, 18, Coords{}, 165),
	}
	for i := 1; i < len(ws); i++ {
		if ws[i].Base().ActivityID <= ws[i-1].Base().ActivityID {
			t.Errorf("id[%d] = %d not greater than id[%d] = %d",
				i, ws[i].Base().ActivityID, i-1, ws[i-1].Base().ActivityID)
		}
	}
	if ws[0].Base().ActivityID != 991 {
		t.Errorf("first id = %d, want 991", ws[0].Base().ActivityID)
	}
}

// TestRandomSeed verifies the random allocator seed is a multiple of ten below 1000.
func TestRandomSeed(t *testing.T) {
	for range 50 {
		a := NewRandomIDAllocator()
		if seed := a.Last(); seed < 0 || seed > 990 || seed%10 != 0 {
			t.Fatalf("seed = %d, want multiple of 10 in [0, 990]", seed)
		}
	}
}

// TestObserve verifies that observed ids push the allocator forward but never back.
func TestObserve(t *testing.T) {
	a := NewIDAllocator(100)
	a.Observe(500)
	if id := a.Next(); id != 501 {
		t.Errorf("Next after Observe(500) = %d, want 501", id)
	}
	a.Observe(10)
	if id := a.Next(); id != 502 {
		t.Errorf("Next after Observe(10) = %d, want 502", id)
	}
}
