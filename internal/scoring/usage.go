package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/flowrank/internal/model"
)

// Usage is one provider entry of a snapshot. The set of implementations is
// closed: AnthropicUsage, BundledUsage, OpenAIUsage, OllamaUsage and
// UnknownUsage.
type Usage interface {
	// ProviderTag returns the provider discriminator the entry was read with.
	ProviderTag() string
	// Score returns zero or more scored accounts. It never fails.
	Score(t Tuning) []model.Account
}

// Snapshot is an already-parsed usage snapshot, in input order.
type Snapshot struct {
	Entries []Usage
}

// UnknownUsage is an entry whose provider tag this build does not know.
// It scores to nothing.
type UnknownUsage struct {
	Provider string
}

// ProviderTag implements Usage.
func (u UnknownUsage) ProviderTag() string { return u.Provider }

// Score implements Usage.
func (UnknownUsage) Score(Tuning) []model.Account { return nil }

// DecodeUsage decodes a single provider entry. The entry must be a JSON
// object; missing or oddly typed fields fall back to defaults.
func DecodeUsage(raw json.RawMessage) (Usage, error) {
	if !isObject(raw) {
		return nil, fmt.Errorf("provider entry is not an object")
	}

	var head struct {
		Provider Text `json:"provider"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decoding provider tag: %w", err)
	}
	tag := strings.ToLower(strings.TrimSpace(string(head.Provider)))

	var u Usage
	switch tag {
	case ProviderAnthropic:
		u = &AnthropicUsage{}
	case ProviderGoogle, ProviderAntigravity:
		u = &BundledUsage{Provider: tag}
	case ProviderOpenAI:
		u = &OpenAIUsage{}
	case ProviderOllama:
		u = &OllamaUsage{}
	default:
		return UnknownUsage{Provider: tag}, nil
	}

	if err := json.Unmarshal(raw, u); err != nil {
		return nil, fmt.Errorf("decoding %s entry: %w", tag, err)
	}
	return u, nil
}

// windowScore applies the scoring law to a single usage window.
func windowScore(t Tuning, util, resetHours, windowHours, tier float64) float64 {
	remaining := (100 - util) / 100

	var urgency float64
	if resetHours > 0 {
		urgency = remaining / resetHours
	}
	availability := math.Sqrt(math.Max(remaining, 0))

	var proximity float64
	if windowHours > 0 {
		proximity = math.Max(0, 1-resetHours/windowHours)
	}

	return t.Weights.combine(urgency, availability, proximity, tier)
}

// pressure is how close a window is to binding: utilization per hour left.
func pressure(util, resetHours float64) float64 {
	return util / math.Max(resetHours, MinResetHours)
}
