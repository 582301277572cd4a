package components

import (
	"strings"

	"github.com/theirongolddev/flowrank/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// the snapshot source on the right.
func RenderStatusBar(width int, source string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " [tab]view  [j/k]move  [?]help  [q]uit"
	right := ""
	if source != "" {
		right = source + " "
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
