package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/flowrank/internal/report"
)

// RenderRanking renders the human-readable ranking: one block per account,
// best first, followed by the recommendation line.
func RenderRanking(r report.Result) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🧠 flowrank scoring"))
	b.WriteString("\n\n")

	for _, e := range r.Ranked {
		account := PadRight(e.Account, 15)
		if !e.Available {
			account = blockedStyle.Render(account)
		} else {
			account = valueStyle.Render(account)
		}

		fmt.Fprintf(&b, "  %s  %s %s  %s  %s  %s\n",
			mutedStyle.Render(fmt.Sprintf("#%d", e.Rank)),
			StatusGlyph(e.Available),
			account,
			familyStyle.Render("["+PadRight(e.Family, 12)+"]"),
			scoreStyle.Render("score="+FormatScore(e.Score)),
			e.Reason,
		)
		fmt.Fprintf(&b, "       %s\n", mutedStyle.Render("model: "+e.Model))
		profile := mutedStyle.Render("profile: " + e.ProfileID + "  resets: " + e.ResetsIn)
		if e.ResetsIn != "never" {
			// Only rate-windowed accounts have a meaningful utilization.
			profile = RenderUtilBar(e.Utilization, 10) + "  " + profile
		}
		fmt.Fprintf(&b, "       %s\n\n", profile)
	}

	if best, ok := primary(r); ok {
		b.WriteString("  ")
		b.WriteString(recommendStyle.Render(fmt.Sprintf("🎯 Recommended: %s (%s)", best.Account, best.Model)))
	} else {
		b.WriteString("  ")
		b.WriteString(warnStyle.Render("⚠️  All accounts exhausted!"))
	}
	b.WriteString("\n")

	return b.String()
}

// RenderFamilies renders the per-family winners as a table.
func RenderFamilies(r report.Result) string {
	fams := r.Families()
	if len(fams) == 0 {
		return "  " + warnStyle.Render("No family has an available account.") + "\n"
	}

	rows := make([][]string, 0, len(fams))
	for _, e := range fams {
		rows = append(rows, []string{e.Family, e.Account, e.Model, FormatScore(e.Score)})
	}
	return RenderTable(Table{
		Title:   "Best account per family",
		Headers: []string{"Family", "Account", "Model", "Score"},
		Rows:    rows,
	})
}

func primary(r report.Result) (report.Entry, bool) {
	for _, e := range r.Ranked {
		if e.Available {
			return e, true
		}
	}
	return report.Entry{}, false
}
