package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/homebudget/homebudget/internal/cli"
	"github.com/homebudget/homebudget/internal/tui/components"
	"github.com/homebudget/homebudget/internal/tui/theme"
)

func (a App) renderNeighbourhoodsTab(cw int) string {
	t := theme.Active
	stats := a.report.ByDong

	if len(stats) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Neighbourhoods", muted.Render("No trades for this region and period."), cw)
	}

	headers := []string{"Dong", "Trades", "Within", "Lowest", "Mean"}
	rows := make([][]string, len(stats))
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for i, s := range stats {
		name := s.Dong
		if name == "" {
			name = "(unknown)"
		}
		rows[i] = []string{
			name,
			fmt.Sprintf("%d", s.Listings),
			fmt.Sprintf("%d", s.WithinBudget),
			cli.FormatWon(s.MinPrice),
			cli.FormatWonFloat(s.MeanPrice),
		}
		for c, cell := range rows[i] {
			widths[c] = max(widths[c], lipgloss.Width(cell))
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	hiStyle := lipgloss.NewStyle().Foreground(t.Within).Background(t.Surface)

	var table strings.Builder
	table.WriteString(headerStyle.Render(formatRow(headers, widths)))
	for i, r := range rows {
		table.WriteString("\n")
		style := rowStyle
		if stats[i].WithinBudget > 0 {
			style = hiStyle
		}
		table.WriteString(style.Render(formatRow(r, widths)))
	}

	bars := make([]components.HBar, len(stats))
	for i, s := range stats {
		bars[i] = components.HBar{
			Label:     rows[i][0],
			Value:     s.MeanPrice,
			Display:   cli.FormatEok(s.MeanPrice),
			Highlight: s.WithinBudget > 0,
		}
	}

	halves := components.LayoutRow(cw, 2)
	return components.CardRow([]string{
		components.ContentCard("Neighbourhoods", table.String(), halves[0]),
		components.ContentCard("Mean price", components.HBarChart(bars, components.CardInnerWidth(halves[1])), halves[1]),
	})
}
