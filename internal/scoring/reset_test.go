package scoring

import (
	"math"
	"testing"
)

func TestParseResetHours(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"Empty", "", UnknownResetHours},
		{"EmDash", "—", UnknownResetHours},
		{"Unknown", "unknown", UnknownResetHours},
		{"UnknownUpper", " Unknown ", UnknownResetHours},
		{"Question", "?", UnknownResetHours},
		{"Never", "never", UnknownResetHours},
		{"Hours", "3h", 3},
		{"Days", "6d", 144},
		{"Minutes", "30m", 0.5},
		{"Compound", "2h 30m", 2.5},
		{"DaysHours", "6d 12h", 156},
		{"Fractional", "1.5h", 1.5},
		{"UnknownSuffix", "5s", MinResetHours},
		{"PartialGarbage", "2h xm", 2},
		{"Floor", "0m", MinResetHours},
		{"Negative", "-3h", MinResetHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseResetHours(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseResetHours(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
