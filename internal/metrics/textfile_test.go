package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/flowrank/internal/model"
	"github.com/theirongolddev/flowrank/internal/report"
)

func sampleResult() report.Result {
	return report.Build([]model.Account{
		{Provider: "ollama", Account: "local-llama3", ProfileID: "ollama:llama3",
			Model: "ollama/llama3", Score: 0.27, Available: true},
		{Provider: "anthropic", Account: "work", ProfileID: "anthropic:work",
			Model: "anthropic/claude-opus-4-6", Available: false, Utilization: 100},
	}, report.Options{})
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowrank.prom")
	if err := WriteTextfile(path, sampleResult()); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		"# TYPE flowrank_account_score gauge",
		`flowrank_account_score{account="local-llama3",family="local",model="ollama/llama3",profile_id="ollama:llama3",provider="ollama"} 0.27`,
		`flowrank_account_available{account="work",family="opus",model="anthropic/claude-opus-4-6",profile_id="anthropic:work",provider="anthropic"} 0`,
		`flowrank_account_utilization_percent{account="work",family="opus",model="anthropic/claude-opus-4-6",profile_id="anthropic:work",provider="anthropic"} 100`,
		`flowrank_family_best_score{family="local"} 0.27`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, `flowrank_family_best_score{family="opus"}`) {
		t.Errorf("blocked family exported as best:\n%s", out)
	}
	if strings.Contains(out, "go_goroutines") {
		t.Error("runtime collectors leaked into textfile")
	}
}

func TestExporter_RecordReplaces(t *testing.T) {
	e := NewExporter()
	e.Record(sampleResult())
	e.Record(report.Build(nil, report.Options{}))

	families, err := e.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if n := len(mf.GetMetric()); n != 0 {
			t.Errorf("%s has %d series after empty record, want 0", mf.GetName(), n)
		}
	}
}

func TestWriteTextfile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "flowrank.prom")
	if err := WriteTextfile(path, sampleResult()); err == nil {
		t.Error("WriteTextfile into missing dir returned nil error")
	}
}

func TestExporter_SameAccountTwoLogins(t *testing.T) {
	r := report.Build([]model.Account{
		{Provider: "google", Account: "google-claude", ProfileID: "google-gemini-cli:a@x",
			Model: "google-gemini-cli/claude-opus-4-6-thinking", Score: 0.5, Available: true},
		{Provider: "google", Account: "google-claude", ProfileID: "google-gemini-cli:b@x",
			Model: "google-gemini-cli/claude-opus-4-6-thinking", Score: 0.4, Available: true},
	}, report.Options{})

	e := NewExporter()
	e.Record(r)
	families, err := e.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	for _, mf := range families {
		if mf.GetName() != "flowrank_account_score" {
			continue
		}
		if n := len(mf.GetMetric()); n != len(r.Ranked) {
			t.Errorf("flowrank_account_score has %d series, want %d", n, len(r.Ranked))
		}
		return
	}
	t.Error("flowrank_account_score not gathered")
}
