// Package export writes logged workouts to interchange formats.
package export

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/claude/pinlog/internal/models"
)

// GPX encodes the workouts as GPX 1.1 waypoints, one per workout, named by
// marker label and described by the workout title.
func GPX(ws []models.Workout) ([]byte, error) {
	g := &gpx.GPX{
		Version: "1.1",
		Creator: "pinlog",
		Name:    "pinlog workouts",
	}
	for _, w := range ws {
		a := w.Base()
		g.Waypoints = append(g.Waypoints, gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  a.Coords.Lat,
				Longitude: a.Coords.Lng,
			},
			Name:        models.MarkerLabel(w),
			Description: a.Description,
			Comment:     comment(w),
			Type:        string(w.Kind()),
		})
	}
	data, err := g.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("encoding gpx: %w", err)
	}
	return data, nil
}

func comment(w models.Workout) string {
	a := w.Base()
	switch v := w.(type) {
	case *models.Running:
		return fmt.Sprintf("%v km in %v min, %v min/km, %v spm", a.Distance, a.Duration, a.Rate, v.Cadence)
	case *models.Cycling:
		return fmt.Sprintf("%v km in %v min, %v km/h, %v m", a.Distance, a.Duration, a.Rate, v.ElevationGain)
	}
	return ""
}
