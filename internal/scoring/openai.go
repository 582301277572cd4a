package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/flowrank/internal/model"
)

const defaultOpenAIModel = "openai/gpt-5.2"

// OpenAIUsage is a pay-per-token API account. It has no rate window, so its
// score is static unless the collector reported an error.
type OpenAIUsage struct {
	Source      Text   `json:"source"`
	TodayTokens Number `json:"today_tokens"`
	Available   *Flag  `json:"available"`
	Error       Text   `json:"error"`
	Model       Text   `json:"model"`
}

// ProviderTag implements Usage.
func (*OpenAIUsage) ProviderTag() string { return ProviderOpenAI }

// Score implements Usage. It yields exactly one account.
func (u *OpenAIUsage) Score(t Tuning) []model.Account {
	acct := model.Account{
		Provider:  ProviderOpenAI,
		Account:   "openai-api",
		Email:     "api",
		ProfileID: "openai:default",
		Model:     orDefault(u.Model, defaultOpenAIModel),
	}

	if msg := strings.TrimSpace(string(u.Error)); msg != "" {
		acct.ResetsIn = "—"
		return []model.Account{acct.Blocked("Error: " + msg)}
	}

	acct.ResetsIn = "never"
	if u.Available != nil && !bool(*u.Available) {
		return []model.Account{acct.Blocked("API unavailable")}
	}

	p := t.PayPerUse
	acct.Available = true
	acct.Score = model.RoundScore(t.Weights.combine(p.Urgency, p.Availability, p.Proximity, t.Tier(ProviderOpenAI)))
	acct.Reason = fmt.Sprintf("API (%.0fK tokens today)", math.Floor(float64(u.TodayTokens)/1000))
	return []model.Account{acct}
}
