package scoring

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a float that decodes from a JSON number or a numeric string
// ("75", "75%"). Anything else, including "NaN" and "Inf", decodes to 0
// instead of failing.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(raw []byte) error {
	*n = 0

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		*n = Number(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		if v, err := strconv.ParseFloat(s, 64); err == nil && finite(v) {
			*n = Number(v)
		}
	}
	return nil
}

// Text is a string that also accepts JSON numbers and booleans, keeping
// their literal text. Objects, arrays and null decode to "".
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(raw []byte) error {
	*t = ""

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		*t = Text(s)
		return nil
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '{' || raw[0] == '[' || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	*t = Text(raw)
	return nil
}

// Flag is a bool that also accepts "true"/"false" strings and numbers
// (non-zero is true). Unrecognized values decode to false.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(raw []byte) error {
	*f = false

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		*f = Flag(b)
		return nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		*f = n != 0
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			*f = Flag(v)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// isObject reports whether raw holds a JSON object.
func isObject(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func orDefault(t Text, def string) string {
	if s := strings.TrimSpace(string(t)); s != "" {
		return s
	}
	return def
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
