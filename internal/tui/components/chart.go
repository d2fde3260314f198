package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/homebudget/homebudget/internal/tui/theme"
)

// HBar is one row of a horizontal bar chart.
type HBar struct {
	Label     string
	Value     float64
	Display   string
	Highlight bool
}

// HBarChart renders labelled horizontal bars scaled to the largest value.
// Labels are padded by display width so Hangul names line up.
func HBarChart(bars []HBar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, displayW := 0, 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		displayW = max(displayW, lipgloss.Width(b.Display))
		peak = max(peak, b.Value)
	}
	labelW = min(labelW, width/3)
	barW := max(width-labelW-displayW-2, 5)

	bg := lipgloss.NewStyle().Background(t.Surface)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	hiStyle := lipgloss.NewStyle().Foreground(t.Within).Background(t.Surface).Bold(true)
	barStyle := lipgloss.NewStyle().Foreground(t.Bar).Background(t.Surface)
	hiBarStyle := lipgloss.NewStyle().Foreground(t.Within).Background(t.Surface)
	dispStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		label := truncateWidth(b.Label, labelW)
		label += strings.Repeat(" ", labelW-lipgloss.Width(label))

		n := 0
		if peak > 0 && b.Value > 0 {
			n = min(int(b.Value/peak*float64(barW)), barW)
		}

		ls, bs := labelStyle, barStyle
		if b.Highlight {
			ls, bs = hiStyle, hiBarStyle
		}
		lines = append(lines, ls.Render(label)+bg.Render(" ")+
			bs.Render(strings.Repeat("█", n))+bg.Render(strings.Repeat(" ", barW-n)+" ")+
			dispStyle.Render(padLeft(b.Display, displayW)))
	}
	return strings.Join(lines, "\n")
}

func truncateWidth(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if lipgloss.Width(b.String()+string(r)+"…") > w {
			break
		}
		b.WriteRune(r)
	}
	return b.String() + "…"
}

func padLeft(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return strings.Repeat(" ", w-n) + s
	}
	return s
}
