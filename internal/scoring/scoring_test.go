package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/flowrank/internal/model"
)

func decode(t *testing.T, raw string) Usage {
	t.Helper()
	u, err := DecodeUsage(json.RawMessage(raw))
	require.NoError(t, err)
	return u
}

func scoreOne(t *testing.T, raw string) model.Account {
	t.Helper()
	out := decode(t, raw).Score(DefaultTuning())
	require.Len(t, out, 1)
	return out[0]
}

func TestAnthropic_SessionLimitBlocks(t *testing.T) {
	a := scoreOne(t, `{"provider":"anthropic","account":"test","email":"t@t.com",
		"session":{"utilization":100,"resets_in":"2h 30m"},
		"weekly":{"utilization":41,"resets_in":"6d 12h"},
		"extra":{"enabled":true,"utilization":100}}`)

	assert.False(t, a.Available)
	assert.Equal(t, 0.0, a.Score)
	assert.Contains(t, a.Reason, "session")
	assert.Contains(t, a.Reason, "2h 30m")
	assert.Equal(t, "2h 30m", a.ResetsIn)
	assert.Equal(t, 100.0, a.Utilization)
	assert.Equal(t, "anthropic:test", a.ProfileID)
}

func TestAnthropic_WeeklyLimitBlocks(t *testing.T) {
	a := scoreOne(t, `{"provider":"anthropic","account":"w",
		"session":{"utilization":10,"resets_in":"1h"},
		"weekly":{"utilization":100,"resets_in":"2d"}}`)

	assert.False(t, a.Available)
	assert.Equal(t, 0.0, a.Score)
	assert.Equal(t, "7d weekly limit (resets in 2d)", a.Reason)
	assert.Equal(t, "2d", a.ResetsIn)
}

func TestAnthropic_SoonerResetScoresHigher(t *testing.T) {
	soon := scoreOne(t, `{"provider":"anthropic","account":"soon",
		"session":{"utilization":50,"resets_in":"10m"},
		"weekly":{"utilization":20,"resets_in":"5d"},
		"extra":{"enabled":false}}`)
	late := scoreOne(t, `{"provider":"anthropic","account":"late",
		"session":{"utilization":50,"resets_in":"4h 50m"},
		"weekly":{"utilization":50,"resets_in":"6d"},
		"extra":{"enabled":false}}`)

	require.True(t, soon.Available)
	require.True(t, late.Available)
	assert.Greater(t, soon.Score, late.Score)
	assert.Equal(t, "5h:50% 7d:20%", soon.Reason)
}

func TestAnthropic_BindingWindowByPressure(t *testing.T) {
	// Weekly has the higher raw utilization but far less pressure.
	a := scoreOne(t, `{"provider":"anthropic","account":"p",
		"session":{"utilization":40,"resets_in":"1h"},
		"weekly":{"utilization":90,"resets_in":"6d"}}`)

	assert.Equal(t, 40.0, a.Utilization)
	assert.Equal(t, "1h", a.ResetsIn)

	// 0.4*0.6/1 + 0.3*sqrt(0.6) + 0.2*(1-1/5) + 0
	assert.InDelta(t, 0.6324, a.Score, 1e-4)
}

func TestAnthropic_ExtraPenalty(t *testing.T) {
	base := `{"provider":"anthropic","account":"x",
		"session":{"utilization":20,"resets_in":"3h"},
		"weekly":{"utilization":20,"resets_in":"3d"},
		"extra":{"enabled":%s,"utilization":100}}`

	on := scoreOne(t, fmt.Sprintf(base, "true"))
	off := scoreOne(t, fmt.Sprintf(base, "false"))

	assert.InDelta(t, 0.03, off.Score-on.Score, 1e-4)
}

func TestAnthropic_MissingFieldsDegrade(t *testing.T) {
	a := scoreOne(t, `{"provider":"anthropic"}`)

	assert.True(t, a.Available)
	assert.Equal(t, "?", a.Account)
	assert.Equal(t, "?", a.Email)
	assert.Equal(t, "anthropic/claude-opus-4-6", a.Model)
	assert.Equal(t, "?", a.ResetsIn)
	assert.Greater(t, a.Score, 0.0)
}

func TestBundled_MixedUsage(t *testing.T) {
	out := decode(t, `{"provider":"google","email":"t@t.com",
		"claude":{"used_pct":100,"resets_in":"3h"},
		"gemini_pro":{"used_pct":50,"resets_in":"6h"},
		"gemini_flash":{"used_pct":0,"resets_in":"12h"}}`).Score(DefaultTuning())

	require.Len(t, out, 3)
	assert.False(t, out[0].Available)
	assert.Equal(t, 0.0, out[0].Score)
	assert.Equal(t, "Limit reached (resets in 3h)", out[0].Reason)
	assert.True(t, out[1].Available)
	assert.True(t, out[2].Available)

	assert.Equal(t, model.FamilyOpus, out[0].Family())
	assert.Equal(t, model.FamilyGeminiPro, out[1].Family())
	assert.Equal(t, model.FamilyGeminiFlash, out[2].Family())

	for _, a := range out {
		assert.Equal(t, "google-gemini-cli:t@t.com", a.ProfileID)
	}
	assert.Equal(t, "google-claude", out[0].Account)
	assert.Equal(t, "50% used", out[1].Reason)
}

func TestBundled_FreeTierPositive(t *testing.T) {
	out := decode(t, `{"provider":"google","email":"t@t.com",
		"claude":{"used_pct":0,"resets_in":"12h"},
		"gemini_pro":{"used_pct":0,"resets_in":"12h"},
		"gemini_flash":{"used_pct":0,"resets_in":"12h"}}`).Score(DefaultTuning())

	require.Len(t, out, 3)
	for _, a := range out {
		assert.True(t, a.Available)
		assert.Greater(t, a.Score, 0.0)
	}
}

func TestBundled_Antigravity(t *testing.T) {
	out := decode(t, `{"provider":"antigravity","email":"a@t.com",
		"gemini_pro":{"used_pct":"25%","resets_in":"2h"}}`).Score(DefaultTuning())

	require.Len(t, out, 3)
	assert.Equal(t, "google-antigravity/gemini-3-pro-high", out[1].Model)
	assert.Equal(t, "google-antigravity:a@t.com", out[1].ProfileID)
	assert.Equal(t, 25.0, out[1].Utilization)

	// Missing meters read as unused with an unknown reset.
	assert.Equal(t, "?", out[0].ResetsIn)
	assert.True(t, out[0].Available)
}

func TestOpenAI_Available(t *testing.T) {
	a := scoreOne(t, `{"provider":"openai","source":"api","today_tokens":50000,"available":true}`)

	assert.True(t, a.Available)
	assert.InDelta(t, 0.5, a.Score, 1e-9)
	assert.Equal(t, "API (50K tokens today)", a.Reason)
	assert.Equal(t, "never", a.ResetsIn)
	assert.Equal(t, model.FamilyGPT5, a.Family())
}

func TestOpenAI_ErrorBlocks(t *testing.T) {
	a := scoreOne(t, `{"provider":"openai","error":"invalid api key (401)"}`)

	assert.False(t, a.Available)
	assert.Equal(t, 0.0, a.Score)
	assert.Contains(t, a.Reason, "invalid api key (401)")
	assert.Equal(t, "—", a.ResetsIn)
}

func TestOpenAI_UnavailableHasZeroScore(t *testing.T) {
	a := scoreOne(t, `{"provider":"openai","available":false}`)

	assert.False(t, a.Available)
	assert.Equal(t, 0.0, a.Score)
}

func TestOllama_FixedScore(t *testing.T) {
	a := scoreOne(t, `{"provider":"ollama","model":"qwen3:8b","size":"5.2GB"}`)

	assert.True(t, a.Available)
	assert.InDelta(t, 0.27, a.Score, 1e-9)
	assert.Equal(t, "ollama/qwen3:8b", a.Model)
	assert.Equal(t, "Local (5.2GB)", a.Reason)
	assert.Equal(t, model.FamilyLocal, a.Family())
}

func TestUnknownProviderScoresNothing(t *testing.T) {
	u := decode(t, `{"provider":"mistral","credits":12}`)

	assert.Equal(t, "mistral", u.ProviderTag())
	assert.Empty(t, u.Score(DefaultTuning()))
}

func TestDecodeUsage_RejectsNonObject(t *testing.T) {
	_, err := DecodeUsage(json.RawMessage(`"anthropic"`))
	assert.Error(t, err)
}

func TestUnknownResetKeepsUrgencyNearZero(t *testing.T) {
	tu := DefaultTuning()
	known := windowScore(tu, 0, ParseResetHours("1h"), tu.BundleWindowHours, 0)
	unknown := windowScore(tu, 0, ParseResetHours(""), tu.BundleWindowHours, 0)

	// Only the availability term survives an unknown reset.
	assert.InDelta(t, 0.3, unknown, 0.001)
	assert.Greater(t, known, unknown)
}

func TestAlternateTuning(t *testing.T) {
	tu := DefaultTuning()
	tu.TierBonus[ProviderOllama] = 0.5

	a := decode(t, `{"provider":"ollama","model":"m"}`).Score(tu)[0]
	assert.InDelta(t, 0.35, a.Score, 1e-9)

	// The default stays untouched.
	assert.Equal(t, -0.3, DefaultTuning().TierBonus[ProviderOllama])
}

func TestLenientScalars(t *testing.T) {
	a := scoreOne(t, `{"provider":"anthropic","account":42,
		"session":{"utilization":"35%","resets_in":"1h"},
		"weekly":"n/a","extra":[]}`)

	assert.Equal(t, "42", a.Account)
	assert.True(t, a.Available)
	assert.Equal(t, "5h:35% 7d:0%", a.Reason)
}

func TestLenientScalars_NonFinite(t *testing.T) {
	for _, raw := range []string{`"NaN"`, `"-Inf"`, `"Infinity"`, `"nan%"`} {
		var n Number
		require.NoError(t, json.Unmarshal([]byte(raw), &n))
		assert.Zero(t, float64(n), "Number(%s)", raw)
	}

	out := decode(t, `{"provider":"google","email":"g@t.com",
		"claude":{"used_pct":"NaN","resets_in":"3h"},
		"gemini_pro":{"used_pct":"-Inf","resets_in":"6h"},
		"gemini_flash":{"used_pct":"Inf","resets_in":"12h"}}`).Score(DefaultTuning())
	require.Len(t, out, 3)
	for _, a := range out {
		assert.True(t, a.Available, a.Account)
		assert.Zero(t, a.Utilization, a.Account)
		assert.False(t, math.IsNaN(a.Score) || math.IsInf(a.Score, 0), "%s score = %v", a.Account, a.Score)
		assert.Greater(t, a.Score, 0.0, a.Account)
	}
}
