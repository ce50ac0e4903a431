package view

import (
	"github.com/claude/pinlog/internal/app"
	"github.com/claude/pinlog/internal/models"
)

// MapState is where the map is centred.
type MapState struct {
	Center [2]models.Number `json:"center"`
	Zoom   int        `json:"zoom"`
}

// Marker is one map marker with its popup label.
type Marker struct {
	ID     int64      `json:"id"`
	Coords [2]models.Number `json:"coords"`
	Label  string     `json:"label"`
}

// Snapshot is the full rendered state, shaped for JSON clients.
type Snapshot struct {
	Map         *MapState `json:"map"`
	Workouts    []Entry   `json:"workouts"`
	Markers     []Marker  `json:"markers"`
	FormVisible bool      `json:"formVisible"`
	FormReset   bool      `json:"formReset"`
	Empty       bool      `json:"empty"`
	Alerts      []string  `json:"alerts"`
}

// State is a View that remembers what was last rendered so a remote client
// can fetch it. Alerts and form resets are one-shot: Take returns them once.
// It has no locking of its own; it is guarded by whatever serializes the
// controller driving it.
type State struct {
	snap Snapshot
}

func NewState() *State {
	return &State{snap: Snapshot{Workouts: []Entry{}, Markers: []Marker{}}}
}

// latLng is c in the [lat, lng] order map clients expect.
func latLng(c models.Coords) [2]models.Number {
	return [2]models.Number{models.Number(c.Lat), models.Number(c.Lng)}
}

func (s *State) ShowMap(center models.Coords, zoom int) {
	s.snap.Map = &MapState{Center: latLng(center), Zoom: zoom}
}

func (s *State) RenderList(ws []models.Workout) {
	s.snap.Workouts = Entries(ws)
}

func (s *State) ClearMarkers() {
	s.snap.Markers = []Marker{}
}

func (s *State) RenderMarker(w models.Workout) {
	c := w.Base().Coords
	s.snap.Markers = append(s.snap.Markers, Marker{
		ID:     w.Base().ActivityID,
		Coords: latLng(c),
		Label:  models.MarkerLabel(w),
	})
}

func (s *State) PanTo(c models.Coords) {
	if s.snap.Map == nil {
		s.snap.Map = &MapState{}
	}
	s.snap.Map.Center = latLng(c)
}

func (s *State) SetFormVisible(visible bool) { s.snap.FormVisible = visible }

func (s *State) ResetForm() { s.snap.FormReset = true }

func (s *State) SetEmpty(empty bool) { s.snap.Empty = empty }

func (s *State) Alert(msg string) {
	s.snap.Alerts = append(s.snap.Alerts, msg)
}

// Peek returns the current snapshot without consuming alerts.
func (s *State) Peek() Snapshot {
	snap := s.snap
	if snap.Map != nil {
		m := *snap.Map
		snap.Map = &m
	}
	snap.Alerts = append([]string{}, s.snap.Alerts...)
	return snap
}

// Take returns the current snapshot and clears pending alerts and the form
// reset flag.
func (s *State) Take() Snapshot {
	snap := s.Peek()
	s.snap.Alerts = nil
	s.snap.FormReset = false
	return snap
}

var (
	_ app.View = (*State)(nil)
	_ app.View = (*Text)(nil)
)
