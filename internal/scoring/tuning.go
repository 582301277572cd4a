// Package scoring turns per-provider usage snapshots into comparable
// urgency scores.
//
// Every provider is scored with the same law:
//
//	score = wU*urgency + wA*availability + wP*proximity + wT*tierBonus
//
// urgency is unused capacity divided by hours until reset (use it before it
// expires), availability is the square root of unused capacity, proximity
// rewards a reset that is close relative to the window length, and the tier
// bonus encodes a fixed cost/quality preference per provider.
package scoring

// Provider tags understood by this build.
const (
	ProviderAnthropic   = "anthropic"
	ProviderGoogle      = "google"
	ProviderAntigravity = "antigravity"
	ProviderOpenAI      = "openai"
	ProviderOllama      = "ollama"
)

// Weights are the coefficients of the four score terms.
type Weights struct {
	Urgency      float64
	Availability float64
	Proximity    float64
	Tier         float64
}

// Terms are the fixed score terms used for providers without a rate window.
type Terms struct {
	Urgency      float64
	Availability float64
	Proximity    float64
}

// Tuning holds every constant the scorers use. It is passed explicitly to
// ScoreAll so alternate tunings never touch shared state.
type Tuning struct {
	Weights Weights

	// TierBonus is keyed by provider tag. Missing providers get 0.
	TierBonus map[string]float64

	// ExtraPenalty is added to the tier term, scaled by ExtraPenaltyScale,
	// when a paid overflow allowance is enabled and fully consumed.
	ExtraPenalty      float64
	ExtraPenaltyScale float64

	SessionWindowHours float64
	WeeklyWindowHours  float64
	BundleWindowHours  float64

	// PayPerUse are the neutral terms for metered API providers.
	PayPerUse Terms
	// Local are the terms for always-on local models.
	Local Terms
}

// DefaultTuning returns the stock tuning. Each call returns a fresh map.
func DefaultTuning() Tuning {
	return Tuning{
		Weights: Weights{
			Urgency:      0.4,
			Availability: 0.3,
			Proximity:    0.2,
			Tier:         0.1,
		},
		TierBonus: map[string]float64{
			ProviderGoogle:      0.8, // free tier
			ProviderAntigravity: 0.8,
			ProviderAnthropic:   0.0,
			ProviderOpenAI:      0.0,
			ProviderOllama:      -0.3,
		},
		ExtraPenalty:       -1.0,
		ExtraPenaltyScale:  0.3,
		SessionWindowHours: 5,
		WeeklyWindowHours:  168,
		BundleWindowHours:  12,
		PayPerUse:          Terms{Urgency: 0.5, Availability: 1.0},
		Local:              Terms{Availability: 1.0},
	}
}

// Tier returns the tier bonus for a provider tag.
func (t Tuning) Tier(provider string) float64 {
	return t.TierBonus[provider]
}

// combine applies the weights to a full set of terms.
func (w Weights) combine(urgency, availability, proximity, tier float64) float64 {
	return urgency*w.Urgency +
		availability*w.Availability +
		proximity*w.Proximity +
		tier*w.Tier
}
