package app

import (
	"errors"
	"testing"

	"github.com/claude/pinlog/internal/models"
)

// TestValidate checks accepted and rejected forms for both workout types.
func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		form      Form
		wantField string // empty means valid
	}{
		{"run", Form{Type: "running", Distance: "5", Duration: "25", Cadence: "178"}, ""},
		{"run decimals", Form{Type: "running", Distance: "5.5", Duration: "27.5", Cadence: "170"}, ""},
		{"ride zero elevation", Form{Type: "cycling", Distance: "20", Duration: "60", Elevation: "0"}, ""},
		{"ride negative elevation", Form{Type: "cycling", Distance: "20", Duration: "60", Elevation: "-12"}, ""},
		{"ride ignores cadence", Form{Type: "cycling", Distance: "20", Duration: "60", Cadence: "x", Elevation: "5"}, ""},
		{"unknown type", Form{Type: "rowing", Distance: "5", Duration: "25"}, "type"},
		{"missing distance", Form{Type: "running", Duration: "25", Cadence: "178"}, "distance"},
		{"text distance", Form{Type: "running", Distance: "far", Duration: "25", Cadence: "178"}, "distance"},
		{"zero duration", Form{Type: "running", Distance: "5", Duration: "0", Cadence: "178"}, "duration"},
		{"negative duration", Form{Type: "cycling", Distance: "5", Duration: "-3", Elevation: "1"}, "duration"},
		{"missing cadence", Form{Type: "running", Distance: "5", Duration: "25"}, "cadence"},
		{"zero cadence", Form{Type: "running", Distance: "5", Duration: "25", Cadence: "0"}, "cadence"},
		{"missing elevation", Form{Type: "cycling", Distance: "5", Duration: "25"}, "elevation"},
		{"infinite distance", Form{Type: "running", Distance: "Inf", Duration: "25", Cadence: "170"}, "distance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

// TestValidateEntry verifies the parsed values land in the right fields.
func TestValidateEntry(t *testing.T) {
	e, err := Form{Type: "Cycling", Distance: " 20 ", Duration: "60", Elevation: "300"}.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Entry{Type: models.TypeCycling, Distance: 20, Duration: 60, Metric: 300}
	if e != want {
		t.Errorf("entry = %+v, want %+v", e, want)
	}
}
