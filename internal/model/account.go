// Package model defines domain types for flowrank rankings.
package model

import "math"

// Account is one scored routing candidate: a provider login, or one model
// slice of a login that exposes several independent usage meters.
type Account struct {
	Provider  string
	Account   string
	Email     string
	ProfileID string // routing key the downstream router matches on
	Model     string // fully qualified, e.g. "anthropic/claude-opus-4-6"

	Score     float64
	Available bool
	Reason    string

	Utilization float64 // 0-100, of the binding window
	ResetsIn    string  // reset text of the binding window, as received
}

// Family returns the capability family of the account's model.
// It is derived from Model on every call and never stored.
func (a Account) Family() string {
	return Classify(a.Model)
}

// Blocked returns a copy marked unavailable. Score is forced to zero.
func (a Account) Blocked(reason string) Account {
	a.Available = false
	a.Score = 0
	a.Reason = reason
	return a
}

// RoundScore rounds a raw score to 4 decimal digits so that rankings are
// stable across output formats.
func RoundScore(s float64) float64 {
	return math.Round(s*10_000) / 10_000
}
