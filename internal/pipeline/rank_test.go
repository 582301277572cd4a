package pipeline

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/theirongolddev/flowrank/internal/model"
	"github.com/theirongolddev/flowrank/internal/scoring"
)

func snapshotOf(t *testing.T, entries ...string) scoring.Snapshot {
	t.Helper()
	var snap scoring.Snapshot
	for _, e := range entries {
		u, err := scoring.DecodeUsage(json.RawMessage(e))
		if err != nil {
			t.Fatalf("DecodeUsage(%s): %v", e, err)
		}
		snap.Entries = append(snap.Entries, u)
	}
	return snap
}

const (
	workAccount = `{"provider":"anthropic","account":"work","email":"w@t.com",
		"session":{"utilization":80,"resets_in":"1h"},
		"weekly":{"utilization":60,"resets_in":"3d"},
		"extra":{"enabled":false}}`
	googleAccount = `{"provider":"google","email":"g@t.com",
		"claude":{"used_pct":10,"resets_in":"12h"},
		"gemini_pro":{"used_pct":5,"resets_in":"12h"},
		"gemini_flash":{"used_pct":0,"resets_in":"12h"}}`
)

func TestScoreAll_CrossProviderFamilies(t *testing.T) {
	ranked := ScoreAll(snapshotOf(t, workAccount, googleAccount), scoring.DefaultTuning())
	if len(ranked) != 4 {
		t.Fatalf("len(ranked) = %d, want 4", len(ranked))
	}

	best := BestPerFamily(ranked)
	for _, fam := range []string{model.FamilyOpus, model.FamilyGeminiPro, model.FamilyGeminiFlash} {
		if _, ok := best[fam]; !ok {
			t.Errorf("BestPerFamily missing family %q", fam)
		}
	}
}

func TestScoreAll_SortedDescending(t *testing.T) {
	ranked := ScoreAll(snapshotOf(t,
		`{"provider":"ollama","model":"llama3"}`,
		workAccount,
		`{"provider":"openai","error":"boom"}`,
		googleAccount,
	), scoring.DefaultTuning())

	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Fatalf("ranked[%d].Score = %v > ranked[%d].Score = %v", i, ranked[i].Score, i-1, ranked[i-1].Score)
		}
	}
	if last := ranked[len(ranked)-1]; last.Available {
		t.Errorf("last entry = %+v, want the unavailable openai account", last)
	}
}

func TestScoreAll_StableTies(t *testing.T) {
	ranked := ScoreAll(snapshotOf(t,
		`{"provider":"ollama","model":"first"}`,
		`{"provider":"ollama","model":"second"}`,
		`{"provider":"ollama","model":"third"}`,
	), scoring.DefaultTuning())

	want := []string{"local-first", "local-second", "local-third"}
	for i, a := range ranked {
		if a.Account != want[i] {
			t.Errorf("ranked[%d].Account = %q, want %q", i, a.Account, want[i])
		}
	}
}

func TestScoreAll_SkipsUnknownProviders(t *testing.T) {
	ranked := ScoreAll(snapshotOf(t,
		`{"provider":"mistral"}`,
		`{"no_provider":true}`,
		`{"provider":"ollama","model":"m"}`,
	), scoring.DefaultTuning())

	if len(ranked) != 1 || ranked[0].Provider != scoring.ProviderOllama {
		t.Fatalf("ranked = %+v, want only the ollama account", ranked)
	}
}

func TestScoreAll_Deterministic(t *testing.T) {
	snap := snapshotOf(t, workAccount, googleAccount, `{"provider":"openai","today_tokens":1234}`)
	a := ScoreAll(snap, scoring.DefaultTuning())
	b := ScoreAll(snap, scoring.DefaultTuning())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("ScoreAll not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestBestPerFamily_SkipsUnavailable(t *testing.T) {
	ranked := []model.Account{
		{Account: "blocked", Model: "anthropic/claude-opus-4-6", Available: false},
		{Account: "spare", Model: "google-gemini-cli/claude-opus-4-6-thinking", Score: 0.4, Available: true},
		{Account: "later", Model: "anthropic/claude-opus-4-6", Score: 0.2, Available: true},
	}

	best := BestPerFamily(ranked)
	if got := best[model.FamilyOpus].Account; got != "spare" {
		t.Fatalf("best opus = %q, want spare", got)
	}
}

func TestBestPerFamily_AllUnavailable(t *testing.T) {
	best := BestPerFamily([]model.Account{{Model: "openai/gpt-5.2"}})
	if len(best) != 0 {
		t.Fatalf("BestPerFamily = %+v, want empty", best)
	}
}

func TestFamilyOrderFollowsRanking(t *testing.T) {
	ranked := []model.Account{
		{Account: "g", Model: "x/gemini-3-flash", Score: 0.9, Available: true},
		{Account: "o", Model: "x/claude-opus-4-6", Score: 0.5, Available: false},
		{Account: "o2", Model: "y/claude-opus-4-6", Score: 0.4, Available: true},
		{Account: "l", Model: "ollama/m", Score: 0.27, Available: true},
	}
	got := FamilyOrder(ranked, BestPerFamily(ranked))
	want := []string{model.FamilyGeminiFlash, model.FamilyOpus, model.FamilyLocal}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FamilyOrder = %v, want %v", got, want)
	}
}

func TestPrimaryAndProfileOrder(t *testing.T) {
	ranked := []model.Account{
		{Provider: "anthropic", ProfileID: "anthropic:a", Available: false},
		{Provider: "google", ProfileID: "google-gemini-cli:g", Model: "g/m", Available: true},
		{Provider: "anthropic", ProfileID: "anthropic:b", Available: true},
	}

	p, ok := Primary(ranked)
	if !ok || p.ProfileID != "google-gemini-cli:g" {
		t.Fatalf("Primary = %+v, %v", p, ok)
	}
	if _, ok := Primary(ranked[:1]); ok {
		t.Fatal("Primary found an account among unavailable ones")
	}

	order := ProfileOrder(ranked, "anthropic")
	if !reflect.DeepEqual(order, []string{"anthropic:a", "anthropic:b"}) {
		t.Fatalf("ProfileOrder = %v", order)
	}
}
