package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/theirongolddev/flowrank/internal/model"
	"github.com/theirongolddev/flowrank/internal/report"
)

func TestFormatScore(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0000"},
		{0.45, "0.4500"},
		{0.27, "0.2700"},
		{1.23456, "1.2346"},
	}
	for _, tt := range tests {
		if got := FormatScore(tt.in); got != tt.want {
			t.Errorf("FormatScore(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatUtilization(t *testing.T) {
	if got := FormatUtilization(42); got != "42%" {
		t.Errorf("FormatUtilization(42) = %q", got)
	}
	if got := FormatUtilization(12.5); got != "12.5%" {
		t.Errorf("FormatUtilization(12.5) = %q", got)
	}
}

func TestPadRight_CellWidth(t *testing.T) {
	got := PadRight("✅", 4)
	if w := ansi.StringWidth(got); w != 4 {
		t.Errorf("PadRight(emoji, 4) width = %d, want 4", w)
	}
	if got := PadRight("toolong", 3); got != "toolong" {
		t.Errorf("PadRight should not truncate, got %q", got)
	}
	if got := PadLeft("7", 3); got != "  7" {
		t.Errorf("PadLeft(7, 3) = %q", got)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("RenderTable(empty) = %q, want empty", got)
	}
}

func TestRenderTable_AlignsRows(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Family", "Score"},
		Rows:    [][]string{{"opus", "0.4500"}, {"gemini-flash", "0.7100"}},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}
	width := ansi.StringWidth(lines[0])
	for i, l := range lines {
		if w := ansi.StringWidth(l); w != width {
			t.Errorf("line %d width = %d, want %d: %q", i, w, width, ansi.Strip(l))
		}
	}
}

func ranking() report.Result {
	return report.Build([]model.Account{
		{Provider: "anthropic", Account: "work", ProfileID: "anthropic:work",
			Model: "anthropic/claude-opus-4-6", Score: 0.45, Available: true,
			Reason: "5h:80% 7d:60%", Utilization: 80, ResetsIn: "1h"},
		{Provider: "ollama", Account: "local-llama3", ProfileID: "ollama:llama3",
			Model: "ollama/llama3", Score: 0.27, Available: true,
			Reason: "Local (4.7GB)", ResetsIn: "never"},
		{Provider: "anthropic", Account: "personal", ProfileID: "anthropic:personal",
			Model: "anthropic/claude-opus-4-6", Available: false,
			Reason: "5h session limit (resets in 2h)", ResetsIn: "2h"},
	}, report.Options{})
}

func TestRenderRanking(t *testing.T) {
	out := ansi.Strip(RenderRanking(ranking()))

	for _, want := range []string{
		"#1",
		"✅ work",
		"[opus        ]",
		"score=0.4500",
		"5h:80% 7d:60%",
		"model: anthropic/claude-opus-4-6",
		"████████░░ 80%  profile: anthropic:work  resets: 1h",
		"🚫 personal",
		"score=0.0000",
		"🎯 Recommended: work (anthropic/claude-opus-4-6)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "work") > strings.Index(out, "personal") {
		t.Error("ranked order not preserved")
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "profile: ollama:llama3") && strings.Contains(line, "%") {
			t.Errorf("local model shows a usage bar: %q", line)
		}
	}
}

func TestRenderRanking_Exhausted(t *testing.T) {
	r := report.Build([]model.Account{
		{Provider: "anthropic", Account: "a", Model: "anthropic/claude-opus-4-6"},
	}, report.Options{})

	out := ansi.Strip(RenderRanking(r))
	if !strings.Contains(out, "⚠️  All accounts exhausted!") {
		t.Errorf("missing exhausted line:\n%s", out)
	}
	if strings.Contains(out, "Recommended") {
		t.Errorf("unexpected recommendation:\n%s", out)
	}
}

func TestRenderFamilies(t *testing.T) {
	out := ansi.Strip(RenderFamilies(ranking()))
	if !strings.Contains(out, "opus") || !strings.Contains(out, "work") {
		t.Errorf("families table missing winner:\n%s", out)
	}
	if strings.Contains(out, "personal") {
		t.Errorf("blocked account listed as winner:\n%s", out)
	}

	empty := ansi.Strip(RenderFamilies(report.Build(nil, report.Options{})))
	if !strings.Contains(empty, "No family") {
		t.Errorf("empty families output = %q", empty)
	}
}

func TestRenderUtilBar(t *testing.T) {
	out := ansi.Strip(RenderUtilBar(30, 10))
	if !strings.HasPrefix(out, "███░░░░░░░") || !strings.HasSuffix(out, "30%") {
		t.Errorf("RenderUtilBar(30, 10) = %q", out)
	}
	if RenderUtilBar(50, 0) != "" {
		t.Error("zero width should render nothing")
	}
}
