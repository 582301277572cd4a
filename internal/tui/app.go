// Package tui provides the interactive Bubble Tea browser for a ranking.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/flowrank/internal/cli"
	"github.com/theirongolddev/flowrank/internal/report"
	"github.com/theirongolddev/flowrank/internal/tui/components"
	"github.com/theirongolddev/flowrank/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	tabRanking = iota
	tabFamilies
)

const (
	minTerminalWidth = 60
	compactWidth     = 120
	maxContentWidth  = 180

	headerHeight    = 1
	statusBarHeight = 1
	metricRowHeight = 4 // bordered card: 2 border + label + value
	minTableHeight  = 3
)

// App is the root Bubble Tea model. It shows one already scored ranking
// and never re-reads the snapshot.
type App struct {
	result report.Result
	source string

	table table.Model

	width     int
	height    int
	activeTab int
	showHelp  bool
}

// NewApp creates the browser for r. source labels where the snapshot
// came from in the status bar.
func NewApp(r report.Result, source string) App {
	tbl := table.New(
		table.WithColumns(rankingColumns(minTerminalWidth)),
		table.WithRows(rankingRows(r)),
		table.WithFocused(true),
		table.WithHeight(minTableHeight),
	)
	tbl.SetStyles(tableStyles())

	return App{
		result: r,
		source: source,
		table:  tbl,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.EnableMouseCellMotion
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || msg.Action != tea.MouseActionPress {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.table.MoveUp(1)
		case tea.MouseButtonWheelDown:
			a.table.MoveDown(1)
		case tea.MouseButtonLeft:
			if msg.Y < headerHeight {
				if tab := components.TabAtX(msg.X, a.activeTab); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" || key == "q" {
			return a, tea.Quit
		}

		// Dismiss help
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "?":
			a.showHelp = true
			return a, nil
		case "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		case "shift+tab":
			a.activeTab = (a.activeTab + len(components.Tabs) - 1) % len(components.Tabs)
			return a, nil
		}

		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
				return a, nil
			}
		}

		if a.activeTab == tabRanking {
			var cmd tea.Cmd
			a.table, cmd = a.table.Update(msg)
			return a, cmd
		}
	}

	return a, nil
}

func (a *App) resize() {
	tw := a.tableWidth()
	a.table.SetColumns(rankingColumns(tw))
	a.table.SetWidth(tw)
	a.table.SetHeight(max(a.height-headerHeight-statusBarHeight-metricRowHeight-2, minTableHeight))
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

func (a App) tableWidth() int {
	cw := a.contentWidth()
	if a.isCompactLayout() {
		return cw
	}
	return cw * 3 / 5
}

// Selected returns the ranked entry under the cursor.
func (a App) Selected() (report.Entry, bool) {
	i := a.table.Cursor()
	if i < 0 || i >= len(a.result.Ranked) {
		return report.Entry{}, false
	}
	return a.result.Ranked[i], true
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	t := theme.Active
	msg := lipgloss.NewStyle().Foreground(t.Orange).
		Render(fmt.Sprintf("Terminal too narrow (%d cols, need %d)", a.width, minTerminalWidth))
	return lipgloss.Place(a.width, max(a.height, 3), lipgloss.Center, lipgloss.Center, msg)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	bindings := []struct{ key, desc string }{
		{"r f", "Jump to view"},
		{"tab", "Next view"},
		{"j k", "Move through the ranking"},
		{"g G", "First / last account"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-6s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewMain() string {
	cw := a.contentWidth()

	var body string
	switch a.activeTab {
	case tabFamilies:
		body = a.renderFamilies(cw)
	default:
		body = a.renderRanking(cw)
	}

	header := components.RenderTabBar(a.activeTab, a.width)
	status := components.RenderStatusBar(a.width, a.source)

	bodyHeight := max(a.height-headerHeight-statusBarHeight, 0)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (a App) renderRanking(cw int) string {
	t := theme.Active
	r := a.result

	available := 0
	for _, e := range r.Ranked {
		if e.Available {
			available++
		}
	}
	primary := "none"
	if r.RecommendedPrimary != nil {
		primary = *r.RecommendedPrimary
	}

	summary := components.MetricRow([]components.Metric{
		{Label: "Accounts", Value: strconv.Itoa(len(r.Ranked))},
		{Label: "Available", Value: strconv.Itoa(available)},
		{Label: "Families", Value: strconv.Itoa(len(r.RecommendedPerFamily))},
		{Label: "Recommended", Value: primary},
	}, cw)

	if len(r.Ranked) == 0 {
		empty := lipgloss.NewStyle().Foreground(t.TextMuted).Render("  Snapshot has no scorable accounts.")
		return summary + "\n" + empty
	}

	tbl := a.table.View()
	detail := a.renderDetail(cw - a.tableWidth())
	if a.isCompactLayout() {
		detail = a.renderDetail(cw)
		return lipgloss.JoinVertical(lipgloss.Left, summary, tbl, detail)
	}
	return lipgloss.JoinVertical(lipgloss.Left, summary, components.CardRow([]string{tbl, detail}))
}

func (a App) renderDetail(w int) string {
	t := theme.Active

	e, ok := a.Selected()
	if !ok {
		return components.ContentCard("Account", "No selection", w)
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	scoreStyle := lipgloss.NewStyle().Foreground(t.Green).Bold(true)
	status := "available"
	if !e.Available {
		status = "blocked"
	}
	status = lipgloss.NewStyle().Foreground(t.Status(e.Available)).Render(status)

	rows := []struct{ label, value string }{
		{"Provider", valueStyle.Render(e.Provider)},
		{"Email", valueStyle.Render(e.Email)},
		{"Profile", valueStyle.Render(e.ProfileID)},
		{"Model", valueStyle.Render(e.Model)},
		{"Family", lipgloss.NewStyle().Foreground(t.Family(e.Family)).Render(e.Family)},
		{"Score", scoreStyle.Render(cli.FormatScore(e.Score))},
		{"Status", status},
		{"Reason", valueStyle.Render(e.Reason)},
	}

	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-9s", row.label)), row.value)
	}
	inner := components.CardInnerWidth(w)
	b.WriteString(components.UtilBar("Usage", e.Utilization, e.ResetsIn, 9, max(inner-30, 8)))

	return components.ContentCard(fmt.Sprintf("#%d %s", e.Rank, e.Account), b.String(), w)
}

func (a App) renderFamilies(cw int) string {
	t := theme.Active

	fams := a.result.Families()
	if len(fams) == 0 {
		msg := lipgloss.NewStyle().Foreground(t.Orange).Render("⚠️  All accounts exhausted!")
		return components.ContentCard("Best account per family", msg, cw)
	}

	acctStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	scoreStyle := lipgloss.NewStyle().Foreground(t.Green)

	var b strings.Builder
	for i, e := range fams {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s %s %s",
			lipgloss.NewStyle().Foreground(t.Family(e.Family)).Bold(true).Render(cli.PadRight(e.Family, 14)),
			acctStyle.Render(cli.PadRight(e.Account, 24)),
			scoreStyle.Render(cli.FormatScore(e.Score)),
			mutedStyle.Render(e.Model))
	}
	return components.ContentCard("Best account per family", b.String(), cw)
}

func rankingColumns(width int) []table.Column {
	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "", Width: 1},
		{Title: "Account", Width: 20},
		{Title: "Family", Width: 12},
		{Title: "Score", Width: 6},
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 2 // cell padding
	}
	return append(cols, table.Column{Title: "Reason", Width: max(width-used-2, 10)})
}

func rankingRows(r report.Result) []table.Row {
	rows := make([]table.Row, 0, len(r.Ranked))
	for _, e := range r.Ranked {
		mark := "✓"
		if !e.Available {
			mark = "✗"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(e.Rank),
			mark,
			e.Account,
			e.Family,
			cli.FormatScore(e.Score),
			e.Reason,
		})
	}
	return rows
}

func tableStyles() table.Styles {
	t := theme.Active
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(t.TextPrimary).
		Background(t.SurfaceHover).
		Bold(true)
	return s
}
