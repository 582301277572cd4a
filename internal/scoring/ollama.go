package scoring

import (
	"github.com/theirongolddev/flowrank/internal/model"
)

// OllamaUsage is a local model. It never runs out and never resets.
type OllamaUsage struct {
	Model Text `json:"model"`
	Size  Text `json:"size"`
}

// ProviderTag implements Usage.
func (*OllamaUsage) ProviderTag() string { return ProviderOllama }

// Score implements Usage. The result is a fixed, low but positive score.
func (u *OllamaUsage) Score(t Tuning) []model.Account {
	name := orDefault(u.Model, "unknown")
	l := t.Local
	return []model.Account{{
		Provider:  ProviderOllama,
		Account:   "local-" + name,
		Email:     "localhost",
		ProfileID: "ollama:" + name,
		Model:     "ollama/" + name,
		Score:     model.RoundScore(t.Weights.combine(l.Urgency, l.Availability, l.Proximity, t.Tier(ProviderOllama))),
		Available: true,
		Reason:    "Local (" + orDefault(u.Size, "?") + ")",
		ResetsIn:  "never",
	}}
}
