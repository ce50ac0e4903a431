package view

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/claude/pinlog/internal/models"
)

// Text is a View for terminals. Map and form changes are silent; alerts
// and pans are written immediately, and the list is written on demand.
type Text struct {
	w    io.Writer
	list []models.Workout
}

func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

func (t *Text) ShowMap(models.Coords, int)  {}
func (t *Text) ClearMarkers()               {}
func (t *Text) RenderMarker(models.Workout) {}
func (t *Text) SetFormVisible(bool)         {}
func (t *Text) ResetForm()                  {}
func (t *Text) SetEmpty(bool)               {}

func (t *Text) RenderList(ws []models.Workout) { t.list = ws }

func (t *Text) PanTo(c models.Coords) {
	fmt.Fprintf(t.w, "map centred on %s\n", c)
}

func (t *Text) Alert(msg string) {
	fmt.Fprintf(t.w, "%s\n", msg)
}

// WriteList prints the last rendered list, newest first.
func (t *Text) WriteList() error {
	entries := Entries(t.list)
	if len(entries) == 0 {
		_, err := fmt.Fprintln(t.w, "No workouts yet. Pin a spot on the map to log one.")
		return err
	}
	tw := tabwriter.NewWriter(t.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDISTANCE\tDURATION\tRATE\tMETRIC\tCOORDS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%v km\t%v min\t%v %s\t%v %s\t%.5f,%.5f\n",
			e.ID, e.Title, e.Distance, e.Duration, e.Rate, e.RateUnit,
			e.Metric, e.MetricUnit, e.Coords[0], e.Coords[1])
	}
	return tw.Flush()
}
