package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// Number is a float64 that encodes NaN and ±Inf as JSON null and decodes
// null back to NaN.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Record is the plain persisted form of a workout. Exactly one of Cadence
// and ElevationGain is set, matching Type.
type Record struct {
	Distance      Number   `json:"distance"`
	Duration      Number   `json:"duration"`
	Coords        []Number `json:"coords"`
	Type          Type     `json:"type"`
	Rate          Number   `json:"rate"`
	ActivityID    int64    `json:"activityId"`
	Description   string   `json:"description"`
	Cadence       *Number  `json:"cadence,omitempty"`
	ElevationGain *Number  `json:"elevationGain,omitempty"`
}

// ToRecord flattens a workout into its persisted form.
func ToRecord(w Workout) Record {
	a := w.Base()
	r := Record{
		Distance:    Number(a.Distance),
		Duration:    Number(a.Duration),
		Coords:      []Number{Number(a.Coords.Lat), Number(a.Coords.Lng)},
		Type:        w.Kind(),
		Rate:        Number(a.Rate),
		ActivityID:  a.ActivityID,
		Description: a.Description,
	}
	switch v := w.(type) {
	case *Running:
		c := Number(v.Cadence)
		r.Cadence = &c
	case *Cycling:
		e := Number(v.ElevationGain)
		r.ElevationGain = &e
	}
	return r
}

// FromRecord rebuilds a workout from its persisted form. The type selects the
// variant; rate and description are restored as stored, not re-derived.
func FromRecord(r Record) (Workout, error) {
	if len(r.Coords) != 2 {
		return nil, fmt.Errorf("workout %d: coords has %d elements, want 2", r.ActivityID, len(r.Coords))
	}
	for _, c := range r.Coords {
		if f := float64(c); math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("workout %d: coords %v are not finite", r.ActivityID, r.Coords)
		}
	}
	a := Activity{
		ActivityID:  r.ActivityID,
		Distance:    float64(r.Distance),
		Duration:    float64(r.Duration),
		Coords:      Coords{Lat: float64(r.Coords[0]), Lng: float64(r.Coords[1])},
		Rate:        float64(r.Rate),
		Description: r.Description,
	}
	switch r.Type {
	case TypeRunning:
		w := &Running{Activity: a}
		if r.Cadence != nil {
			w.Cadence = float64(*r.Cadence)
		}
		return w, nil
	case TypeCycling:
		w := &Cycling{Activity: a}
		if r.ElevationGain != nil {
			w.ElevationGain = float64(*r.ElevationGain)
		}
		return w, nil
	}
	return nil, fmt.Errorf("workout %d: unknown type %q", r.ActivityID, r.Type)
}

// EncodeWorkouts serializes a list as a JSON array of records.
func EncodeWorkouts(ws []Workout) ([]byte, error) {
	records := make([]Record, 0, len(ws))
	for _, w := range ws {
		records = append(records, ToRecord(w))
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding workouts: %w", err)
	}
	return data, nil
}

// DecodeWorkouts parses a JSON array of records. A JSON null decodes to an
// empty list. Any malformed record fails the whole decode.
func DecodeWorkouts(data []byte) ([]Workout, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding workouts: %w", err)
	}
	ws := make([]Workout, 0, len(records))
	for _, r := range records {
		w, err := FromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("decoding workouts: %w", err)
		}
		ws = append(ws, w)
	}
	return ws, nil
}
