package scoring

import (
	"math"
	"strconv"
	"strings"
)

const (
	// UnknownResetHours is returned for reset strings that carry no
	// duration. It keeps urgency and proximity near zero.
	UnknownResetHours = 999.0
	// MinResetHours is the floor applied to every parsed duration so that
	// callers can divide by the result.
	MinResetHours = 0.01
)

var unknownResets = map[string]bool{
	"":        true,
	"—":       true,
	"-":       true,
	"?":       true,
	"unknown": true,
	"never":   true,
}

// ParseResetHours converts a reset string such as "2h 30m" or "6d" into
// hours. Tokens are a number followed by d, h or m; anything else adds zero.
func ParseResetHours(resetsIn string) float64 {
	s := strings.ToLower(strings.TrimSpace(resetsIn))
	if unknownResets[s] {
		return UnknownResetHours
	}

	var hours float64
	for _, tok := range strings.Fields(s) {
		if len(tok) < 2 {
			continue
		}
		n, err := strconv.ParseFloat(tok[:len(tok)-1], 64)
		if err != nil || !finite(n) {
			continue
		}
		switch tok[len(tok)-1] {
		case 'd':
			hours += n * 24
		case 'h':
			hours += n
		case 'm':
			hours += n / 60
		}
	}

	return math.Max(hours, MinResetHours)
}
