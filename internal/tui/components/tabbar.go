package components

import (
	"strings"

	"github.com/theirongolddev/flowrank/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name
}

// Tabs defines all available views.
var Tabs = []Tab{
	{Name: "Ranking", Key: 'r', KeyPos: 0},
	{Name: "Families", Key: 'f', KeyPos: 0},
}

const tabSeparator = " "

// TabWidth returns the rendered cell width of tab i.
func TabWidth(i, activeIdx int) int {
	w := lipgloss.Width(Tabs[i].Name) + 2 // horizontal padding
	if i != activeIdx {
		w += 2 // "[" and "]" around the shortcut
	}
	return w
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	dimKeyStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tab.Name))
			continue
		}
		before := tab.Name[:tab.KeyPos]
		key := string(tab.Name[tab.KeyPos])
		after := tab.Name[tab.KeyPos+1:]
		parts = append(parts, " "+inactiveStyle.Render(before)+
			dimKeyStyle.Render("[")+keyStyle.Render(key)+dimKeyStyle.Render("]")+
			inactiveStyle.Render(after)+" ")
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(parts, tabSeparator))
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}

// TabAtX returns the tab under column x of the tab bar, or -1.
func TabAtX(x, activeIdx int) int {
	pos := 0
	for i := range Tabs {
		w := TabWidth(i, activeIdx)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + len(tabSeparator)
	}
	return -1
}
