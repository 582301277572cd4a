// Package selftest runs the built-in sanity checks behind `flowrank --test`.
package selftest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/theirongolddev/flowrank/internal/model"
	"github.com/theirongolddev/flowrank/internal/pipeline"
	"github.com/theirongolddev/flowrank/internal/scoring"
	"github.com/theirongolddev/flowrank/internal/source"
)

// ErrFailed is returned by Run when at least one check fails.
var ErrFailed = errors.New("selftest: checks failed")

// Check is a single named sanity check. Run returns a short detail shown
// next to the name, or an error describing the failure.
type Check struct {
	Name string
	Run  func(t scoring.Tuning) (string, error)
}

// Checks returns the built-in checks in display order.
func Checks() []Check {
	return []Check{
		{"Anthropic 100% session → blocked", checkSessionBlocked},
		{"50% used, resets in 10m beats resets in 4h 50m", checkSoonBeatsLate},
		{"Google 0% → free tier scores positive", checkFreeTier},
		{"Google mixed → Claude blocked, Gemini available", checkGoogleMixed},
		{"OpenAI API → available", checkOpenAI},
		{"OpenAI error → unavailable", checkOpenAIError},
		{"Model family classification", checkFamilies},
		{"Cross-provider family routing", checkCrossProvider},
		{"Family selector skips unavailable accounts", checkSelectorSkipsBlocked},
		{"Unknown reset text → far-future sentinel", checkUnknownReset},
	}
}

// Run executes every check with the given tuning, printing one line per
// check to w. It returns ErrFailed if any check failed.
func Run(w io.Writer, t scoring.Tuning) error {
	fmt.Fprintln(w, "Running scoring engine tests...")
	fmt.Fprintln(w)

	failed := 0
	for i, c := range Checks() {
		detail, err := c.Run(t)
		if err != nil {
			failed++
			fmt.Fprintf(w, "  ❌ Test %d: %s: %v\n", i+1, c.Name, err)
			continue
		}
		if detail != "" {
			fmt.Fprintf(w, "  ✅ Test %d: %s → %s\n", i+1, c.Name, detail)
		} else {
			fmt.Fprintf(w, "  ✅ Test %d: %s\n", i+1, c.Name)
		}
	}

	fmt.Fprintln(w)
	if failed > 0 {
		fmt.Fprintf(w, "❌ %d of %d tests failed\n", failed, len(Checks()))
		return fmt.Errorf("%w: %d of %d", ErrFailed, failed, len(Checks()))
	}
	fmt.Fprintln(w, "✅ All tests passed!")
	return nil
}

func score(t scoring.Tuning, raw string) ([]model.Account, error) {
	u, err := scoring.DecodeUsage(json.RawMessage(raw))
	if err != nil {
		return nil, err
	}
	return u.Score(t), nil
}

func scoreFirst(t scoring.Tuning, raw string) (model.Account, error) {
	out, err := score(t, raw)
	if err != nil {
		return model.Account{}, err
	}
	if len(out) == 0 {
		return model.Account{}, errors.New("no accounts scored")
	}
	return out[0], nil
}

func checkSessionBlocked(t scoring.Tuning) (string, error) {
	a, err := scoreFirst(t, `{"provider":"anthropic","account":"test","email":"t@t.com",
		"session":{"utilization":100,"resets_in":"2h 30m"},
		"weekly":{"utilization":41,"resets_in":"6d 12h"},
		"extra":{"enabled":true,"utilization":100}}`)
	if err != nil {
		return "", err
	}
	if a.Available || a.Score != 0 {
		return "", fmt.Errorf("available=%t score=%.4f, want blocked with score 0", a.Available, a.Score)
	}
	return "", nil
}

func checkSoonBeatsLate(t scoring.Tuning) (string, error) {
	soon, err := scoreFirst(t, `{"provider":"anthropic","account":"soon",
		"session":{"utilization":50,"resets_in":"10m"},
		"weekly":{"utilization":20,"resets_in":"5d"},
		"extra":{"enabled":false}}`)
	if err != nil {
		return "", err
	}
	late, err := scoreFirst(t, `{"provider":"anthropic","account":"late",
		"session":{"utilization":50,"resets_in":"4h 50m"},
		"weekly":{"utilization":50,"resets_in":"6d"},
		"extra":{"enabled":false}}`)
	if err != nil {
		return "", err
	}
	if soon.Score <= late.Score {
		return "", fmt.Errorf("soon=%.4f late=%.4f, want soon > late", soon.Score, late.Score)
	}
	return fmt.Sprintf("soon=%.4f late=%.4f", soon.Score, late.Score), nil
}

func checkFreeTier(t scoring.Tuning) (string, error) {
	out, err := score(t, `{"provider":"google","email":"t@t.com",
		"claude":{"used_pct":0,"resets_in":"12h"},
		"gemini_pro":{"used_pct":0,"resets_in":"12h"},
		"gemini_flash":{"used_pct":0,"resets_in":"12h"}}`)
	if err != nil {
		return "", err
	}
	if len(out) != 3 {
		return "", fmt.Errorf("got %d accounts, want 3", len(out))
	}
	if bad, found := lo.Find(out, func(a model.Account) bool { return !a.Available || a.Score <= 0 }); found {
		return "", fmt.Errorf("%s: available=%t score=%.4f", bad.Account, bad.Available, bad.Score)
	}
	scores := lo.Map(out, func(a model.Account, _ int) string { return fmt.Sprintf("%.4f", a.Score) })
	return "scores=[" + strings.Join(scores, " ") + "]", nil
}

func checkGoogleMixed(t scoring.Tuning) (string, error) {
	out, err := score(t, `{"provider":"google","email":"t@t.com",
		"claude":{"used_pct":100,"resets_in":"3h"},
		"gemini_pro":{"used_pct":50,"resets_in":"6h"},
		"gemini_flash":{"used_pct":0,"resets_in":"12h"}}`)
	if err != nil {
		return "", err
	}
	if len(out) != 3 {
		return "", fmt.Errorf("got %d accounts, want 3", len(out))
	}
	if out[0].Available {
		return "", errors.New("claude slice should be blocked")
	}
	if !out[1].Available || !out[2].Available {
		return "", errors.New("gemini slices should be available")
	}
	if !strings.Contains(out[0].ProfileID, "google-gemini-cli") {
		return "", fmt.Errorf("profile id %q lacks google-gemini-cli prefix", out[0].ProfileID)
	}
	return "", nil
}

func checkOpenAI(t scoring.Tuning) (string, error) {
	a, err := scoreFirst(t, `{"provider":"openai","source":"api","today_tokens":50000,"available":true}`)
	if err != nil {
		return "", err
	}
	if !a.Available || a.Score <= 0 {
		return "", fmt.Errorf("available=%t score=%.4f, want available with positive score", a.Available, a.Score)
	}
	return fmt.Sprintf("score=%.4f", a.Score), nil
}

func checkOpenAIError(t scoring.Tuning) (string, error) {
	a, err := scoreFirst(t, `{"provider":"openai","error":"rate limited"}`)
	if err != nil {
		return "", err
	}
	if a.Available || a.Score != 0 {
		return "", fmt.Errorf("available=%t score=%.4f, want unavailable with score 0", a.Available, a.Score)
	}
	if !strings.Contains(a.Reason, "rate limited") {
		return "", fmt.Errorf("reason %q does not carry the error", a.Reason)
	}
	return "", nil
}

func checkFamilies(scoring.Tuning) (string, error) {
	cases := map[string]string{
		"anthropic/claude-opus-4-6":                  model.FamilyOpus,
		"google-gemini-cli/claude-opus-4-6-thinking": model.FamilyOpus,
		"google-gemini-cli/gemini-3-pro-high":        model.FamilyGeminiPro,
		"openai/gpt-5.2":                             model.FamilyGPT5,
		"openai/gpt-5-mini":                          model.FamilyGPT5Mini,
	}
	keys := lo.Keys(cases)
	slices.Sort(keys)
	for _, m := range keys {
		if got := model.Classify(m); got != cases[m] {
			return "", fmt.Errorf("Classify(%q) = %q, want %q", m, got, cases[m])
		}
	}
	return "", nil
}

func checkCrossProvider(t scoring.Tuning) (string, error) {
	snap, err := source.Parse(strings.NewReader(`{"providers":[
		{"provider":"anthropic","account":"work","email":"w@t.com",
		 "session":{"utilization":80,"resets_in":"1h"},
		 "weekly":{"utilization":60,"resets_in":"3d"},
		 "extra":{"enabled":false}},
		{"provider":"google","email":"g@t.com",
		 "claude":{"used_pct":10,"resets_in":"12h"},
		 "gemini_pro":{"used_pct":5,"resets_in":"12h"},
		 "gemini_flash":{"used_pct":0,"resets_in":"12h"}}
	]}`), source.FormatJSON)
	if err != nil {
		return "", err
	}

	ranked := pipeline.ScoreAll(snap, t)
	best := pipeline.BestPerFamily(ranked)
	for _, fam := range []string{model.FamilyOpus, model.FamilyGeminiPro} {
		if _, ok := best[fam]; !ok {
			return "", fmt.Errorf("no %s recommendation", fam)
		}
	}
	return "[" + strings.Join(pipeline.FamilyOrder(ranked, best), " ") + "]", nil
}

func checkSelectorSkipsBlocked(t scoring.Tuning) (string, error) {
	snap, err := source.Parse(strings.NewReader(`{"providers":[
		{"provider":"anthropic","account":"blocked",
		 "session":{"utilization":100,"resets_in":"1h"},
		 "weekly":{"utilization":10,"resets_in":"3d"}},
		{"provider":"anthropic","account":"open",
		 "session":{"utilization":90,"resets_in":"4h"},
		 "weekly":{"utilization":90,"resets_in":"6d"}}
	]}`), source.FormatJSON)
	if err != nil {
		return "", err
	}

	best := pipeline.BestPerFamily(pipeline.ScoreAll(snap, t))
	winner, ok := best[model.FamilyOpus]
	if !ok {
		return "", errors.New("no opus recommendation")
	}
	if winner.Account != "open" {
		return "", fmt.Errorf("opus → %s, want open", winner.Account)
	}
	return "", nil
}

func checkUnknownReset(scoring.Tuning) (string, error) {
	for _, s := range []string{"", "—", "?", "unknown"} {
		if h := scoring.ParseResetHours(s); h != scoring.UnknownResetHours {
			return "", fmt.Errorf("ParseResetHours(%q) = %g, want %g", s, h, scoring.UnknownResetHours)
		}
	}
	return "", nil
}
