package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/homebudget/homebudget/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // byte offset of the shortcut letter in Name
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Listings", Key: 'l', KeyPos: 0},
	{Name: "Neighbourhoods", Key: 'n', KeyPos: 0},
	{Name: "Districts", Key: 'd', KeyPos: 0},
}

func tabStyles() (active, inactive, key lipgloss.Style) {
	t := theme.Active
	active = lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)
	inactive = lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, 1)
	key = lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)
	return active, inactive, key
}

func renderTab(tab Tab, active bool) string {
	activeStyle, inactiveStyle, keyStyle := tabStyles()
	if active {
		return activeStyle.Render(tab.Name)
	}
	before := tab.Name[:tab.KeyPos]
	k := string(tab.Name[tab.KeyPos])
	after := tab.Name[tab.KeyPos+1:]
	plain := inactiveStyle.UnsetPadding()
	pad := lipgloss.NewStyle().Background(theme.Active.Surface).Render(" ")
	return pad + plain.Render(before) + keyStyle.Render(k) + plain.Render(after) + pad
}

// TabVisualWidth returns the rendered width of a tab.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tab bar with the given active index, padded to
// width.
func RenderTabBar(activeIdx, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	bar := strings.Join(parts, sep)

	fill := max(width-lipgloss.Width(bar), 0)
	return bar + lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", fill))
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
