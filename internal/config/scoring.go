package config

import (
	"fmt"
	"maps"
	"math"

	"github.com/theirongolddev/flowrank/internal/scoring"
)

// ScoringConfig overrides the built-in scoring tuning. Unset fields keep
// their defaults.
type ScoringConfig struct {
	Weights           WeightsConfig      `toml:"weights"`
	Tiers             map[string]float64 `toml:"tiers,omitempty"`
	Windows           WindowsConfig      `toml:"windows"`
	ExtraPenalty      *float64           `toml:"extra_penalty,omitempty"`
	ExtraPenaltyScale *float64           `toml:"extra_penalty_scale,omitempty"`
}

// WeightsConfig holds per-term weight overrides.
type WeightsConfig struct {
	Urgency      *float64 `toml:"urgency,omitempty"`
	Availability *float64 `toml:"availability,omitempty"`
	Proximity    *float64 `toml:"proximity,omitempty"`
	Tier         *float64 `toml:"tier,omitempty"`
}

// WindowsConfig holds window length overrides, in hours.
type WindowsConfig struct {
	SessionHours *float64 `toml:"session_hours,omitempty"`
	WeeklyHours  *float64 `toml:"weekly_hours,omitempty"`
	BundleHours  *float64 `toml:"bundle_hours,omitempty"`
}

func (s ScoringConfig) validate() error {
	for name, w := range map[string]*float64{
		"urgency":      s.Weights.Urgency,
		"availability": s.Weights.Availability,
		"proximity":    s.Weights.Proximity,
		"tier":         s.Weights.Tier,
	} {
		if w != nil && (!finite(*w) || *w < 0) {
			return fmt.Errorf("config: scoring.weights.%s must be a finite non-negative number, got %g", name, *w)
		}
	}
	for name, h := range map[string]*float64{
		"session_hours": s.Windows.SessionHours,
		"weekly_hours":  s.Windows.WeeklyHours,
		"bundle_hours":  s.Windows.BundleHours,
	} {
		if h != nil && (!finite(*h) || *h <= 0) {
			return fmt.Errorf("config: scoring.windows.%s must be a finite positive number, got %g", name, *h)
		}
	}
	for name, v := range map[string]*float64{
		"extra_penalty":       s.ExtraPenalty,
		"extra_penalty_scale": s.ExtraPenaltyScale,
	} {
		if v != nil && !finite(*v) {
			return fmt.Errorf("config: scoring.%s must be finite, got %g", name, *v)
		}
	}
	for provider, bonus := range s.Tiers {
		if !finite(bonus) {
			return fmt.Errorf("config: scoring.tiers.%s must be finite, got %g", provider, bonus)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Tuning merges the overrides onto scoring.DefaultTuning.
func (c Config) Tuning() scoring.Tuning {
	t := scoring.DefaultTuning()
	s := c.Scoring

	set(&t.Weights.Urgency, s.Weights.Urgency)
	set(&t.Weights.Availability, s.Weights.Availability)
	set(&t.Weights.Proximity, s.Weights.Proximity)
	set(&t.Weights.Tier, s.Weights.Tier)

	set(&t.SessionWindowHours, s.Windows.SessionHours)
	set(&t.WeeklyWindowHours, s.Windows.WeeklyHours)
	set(&t.BundleWindowHours, s.Windows.BundleHours)

	set(&t.ExtraPenalty, s.ExtraPenalty)
	set(&t.ExtraPenaltyScale, s.ExtraPenaltyScale)

	maps.Copy(t.TierBonus, s.Tiers)
	return t
}

func set(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
