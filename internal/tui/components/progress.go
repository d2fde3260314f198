package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/homebudget/homebudget/internal/tui/theme"
)

// ShareBar renders a gauge of the share of listings within budget. pct is
// 0-100.
func ShareBar(pct float64, width int) string {
	t := theme.Active
	filled := min(max(int(pct/100*float64(width)), 0), width)

	barColor := ColorForShare(pct)
	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct))
}

// ColorForShare grades a within-budget share: a larger share is better.
func ColorForShare(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 50:
		return t.Within
	case pct >= 20:
		return t.Warning
	default:
		return t.Over
	}
}
