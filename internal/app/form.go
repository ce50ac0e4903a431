package app

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/claude/pinlog/internal/models"
)

// ErrInvalidInput is wrapped by every *ValidationError.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError names the first form field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Form is the raw workout form as typed by the user.
type Form struct {
	Type      string `json:"type"`
	Distance  string `json:"distance"`
	Duration  string `json:"duration"`
	Cadence   string `json:"cadence"`
	Elevation string `json:"elevation"`
}

// Entry is a validated form.
type Entry struct {
	Type     models.Type
	Distance float64
	Duration float64
	// Metric is the cadence for a run and the elevation gain for a ride.
	Metric float64
}

// Validate parses the form. Distance and duration must be positive numbers;
// a run needs a positive cadence; a ride needs any numeric elevation.
func (f Form) Validate() (Entry, error) {
	typ, err := models.ParseType(f.Type)
	if err != nil {
		return Entry{}, &ValidationError{Field: "type", Reason: err.Error()}
	}
	e := Entry{Type: typ}

	if e.Distance, err = positive("distance", f.Distance); err != nil {
		return Entry{}, err
	}
	if e.Duration, err = positive("duration", f.Duration); err != nil {
		return Entry{}, err
	}

	switch typ {
	case models.TypeRunning:
		e.Metric, err = positive("cadence", f.Cadence)
	case models.TypeCycling:
		e.Metric, err = number("elevation", f.Elevation)
	}
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

func number(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: field, Reason: "required"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a number", s)}
	}
	return v, nil
}

func positive(field, s string) (float64, error) {
	v, err := number(field, s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, &ValidationError{Field: field, Reason: "must be positive"}
	}
	return v, nil
}
