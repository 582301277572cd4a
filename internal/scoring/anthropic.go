package scoring

import (
	"encoding/json"
	"fmt"

	"github.com/theirongolddev/flowrank/internal/model"
)

const defaultAnthropicModel = "anthropic/claude-opus-4-6"

// Window is one rate-limit window of a subscription account.
type Window struct {
	Utilization Number `json:"utilization"`
	ResetsIn    Text   `json:"resets_in"`
}

// UnmarshalJSON accepts only objects; any other value leaves the window empty.
func (w *Window) UnmarshalJSON(raw []byte) error {
	*w = Window{}
	if !isObject(raw) {
		return nil
	}
	type plain Window
	return json.Unmarshal(raw, (*plain)(w))
}

// Extra is the paid overflow allowance of a subscription account.
type Extra struct {
	Enabled     Flag   `json:"enabled"`
	Utilization Number `json:"utilization"`
}

// UnmarshalJSON accepts only objects; any other value leaves extra disabled.
func (e *Extra) UnmarshalJSON(raw []byte) error {
	*e = Extra{}
	if !isObject(raw) {
		return nil
	}
	type plain Extra
	return json.Unmarshal(raw, (*plain)(e))
}

// AnthropicUsage is a subscription login with a 5h session window and a 7d
// weekly window.
type AnthropicUsage struct {
	Account Text   `json:"account"`
	Email   Text   `json:"email"`
	Model   Text   `json:"model"`
	Session Window `json:"session"`
	Weekly  Window `json:"weekly"`
	Extra   Extra  `json:"extra"`
}

// ProviderTag implements Usage.
func (*AnthropicUsage) ProviderTag() string { return ProviderAnthropic }

// Score implements Usage. It yields exactly one account.
func (u *AnthropicUsage) Score(t Tuning) []model.Account {
	name := orDefault(u.Account, "?")
	base := model.Account{
		Provider:  ProviderAnthropic,
		Account:   name,
		Email:     orDefault(u.Email, "?"),
		ProfileID: "anthropic:" + name,
		Model:     orDefault(u.Model, defaultAnthropicModel),
	}

	sUtil, wUtil := float64(u.Session.Utilization), float64(u.Weekly.Utilization)
	sResets, wResets := orDefault(u.Session.ResetsIn, "?"), orDefault(u.Weekly.ResetsIn, "?")

	// Tightest window first.
	if sUtil >= 100 {
		base.Utilization, base.ResetsIn = sUtil, sResets
		return []model.Account{base.Blocked(fmt.Sprintf("5h session limit (resets in %s)", sResets))}
	}
	if wUtil >= 100 {
		base.Utilization, base.ResetsIn = wUtil, wResets
		return []model.Account{base.Blocked(fmt.Sprintf("7d weekly limit (resets in %s)", wResets))}
	}

	sHours := ParseResetHours(string(u.Session.ResetsIn))
	wHours := ParseResetHours(string(u.Weekly.ResetsIn))

	util, hours, window, resets := wUtil, wHours, t.WeeklyWindowHours, wResets
	if pressure(sUtil, sHours) > pressure(wUtil, wHours) {
		util, hours, window, resets = sUtil, sHours, t.SessionWindowHours, sResets
	}

	tier := t.Tier(ProviderAnthropic)
	if u.Extra.Enabled && float64(u.Extra.Utilization) >= 100 {
		tier += t.ExtraPenalty * t.ExtraPenaltyScale
	}

	base.Available = true
	base.Score = model.RoundScore(windowScore(t, util, hours, window, tier))
	base.Reason = fmt.Sprintf("5h:%s%% 7d:%s%%", formatPercent(sUtil), formatPercent(wUtil))
	base.Utilization = util
	base.ResetsIn = resets
	return []model.Account{base}
}
