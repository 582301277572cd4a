package scoring

import (
	"encoding/json"
	"fmt"

	"github.com/theirongolddev/flowrank/internal/model"
)

// Meter is the usage meter of one model inside a bundled login.
type Meter struct {
	UsedPct  Number `json:"used_pct"`
	ResetsIn Text   `json:"resets_in"`
}

// UnmarshalJSON accepts only objects; any other value leaves the meter empty.
func (m *Meter) UnmarshalJSON(raw []byte) error {
	*m = Meter{}
	if !isObject(raw) {
		return nil
	}
	type plain Meter
	return json.Unmarshal(raw, (*plain)(m))
}

// bundledModel is one model slot of a bundled login.
type bundledModel struct {
	key   string
	model string
}

// bundledModels is the fixed order in which slots are emitted.
var bundledModels = []bundledModel{
	{"claude", "claude-opus-4-6-thinking"},
	{"gemini_pro", "gemini-3-pro-high"},
	{"gemini_flash", "gemini-3-flash"},
}

// bundledPrefixes maps a bundled provider tag to its router namespace.
var bundledPrefixes = map[string]string{
	ProviderGoogle:      "google-gemini-cli",
	ProviderAntigravity: "google-antigravity",
}

// BundledUsage is a single login that exposes several models, each with
// its own independent meter (Gemini CLI, Antigravity).
type BundledUsage struct {
	Provider    string `json:"-"`
	Email       Text   `json:"email"`
	Claude      Meter  `json:"claude"`
	GeminiPro   Meter  `json:"gemini_pro"`
	GeminiFlash Meter  `json:"gemini_flash"`
}

// ProviderTag implements Usage.
func (u *BundledUsage) ProviderTag() string { return u.Provider }

func (u *BundledUsage) meter(key string) Meter {
	switch key {
	case "claude":
		return u.Claude
	case "gemini_pro":
		return u.GeminiPro
	default:
		return u.GeminiFlash
	}
}

// Score implements Usage. It yields one account per model slot; meters are
// independent so no binding window is selected.
func (u *BundledUsage) Score(t Tuning) []model.Account {
	prefix, ok := bundledPrefixes[u.Provider]
	if !ok {
		prefix = u.Provider
	}
	email := orDefault(u.Email, "?")
	tier := t.Tier(u.Provider)

	out := make([]model.Account, 0, len(bundledModels))
	for _, bm := range bundledModels {
		m := u.meter(bm.key)
		util := float64(m.UsedPct)
		resets := orDefault(m.ResetsIn, "?")

		acct := model.Account{
			Provider:    u.Provider,
			Account:     u.Provider + "-" + bm.key,
			Email:       email,
			ProfileID:   prefix + ":" + email,
			Model:       prefix + "/" + bm.model,
			Utilization: util,
			ResetsIn:    resets,
		}

		if util >= 100 {
			out = append(out, acct.Blocked(fmt.Sprintf("Limit reached (resets in %s)", resets)))
			continue
		}

		hours := ParseResetHours(string(m.ResetsIn))
		acct.Available = true
		acct.Score = model.RoundScore(windowScore(t, util, hours, t.BundleWindowHours, tier))
		acct.Reason = fmt.Sprintf("%s%% used", formatPercent(util))
		out = append(out, acct)
	}
	return out
}
