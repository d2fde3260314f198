package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/homebudget/homebudget/internal/cli"
	"github.com/homebudget/homebudget/internal/region"
	"github.com/homebudget/homebudget/internal/source"
	"github.com/homebudget/homebudget/internal/tui/components"
	"github.com/homebudget/homebudget/internal/tui/theme"
)

func (a App) renderDistrictsTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	title := "Districts"
	if r, ok := region.ByCode(a.req.Query.RegionCode); ok {
		title = "Districts of " + r.Province
	}

	switch {
	case a.compareLoading:
		return components.ContentCard(title, a.spinner.View()+muted.Render(" Comparing districts…"), cw)
	case a.compareErr != nil:
		errStyle := lipgloss.NewStyle().Foreground(t.Over).Background(t.Surface)
		return components.ContentCard(title, errStyle.Render(a.compareErr.Error()), cw)
	case len(a.compare) == 0:
		return components.ContentCard(title, muted.Render("Open this tab after a run to compare districts."), cw)
	}

	bars := make([]components.HBar, len(a.compare))
	var notLive []string
	for i, s := range a.compare {
		display := fmt.Sprintf("%d/%d within", s.WithinBudget, s.Listings)
		if s.Listings > 0 {
			display += "  " + cli.FormatEok(s.MedianPrice)
		}
		bars[i] = components.HBar{
			Label:     s.Region.District,
			Value:     s.MedianPrice,
			Display:   display,
			Highlight: s.Region.Code == a.req.Query.RegionCode,
		}
		if s.Origin != source.OriginLive && s.Origin != source.OriginCache {
			notLive = append(notLive, s.Region.District)
		}
	}

	var b strings.Builder
	if a.report != nil {
		b.WriteString(muted.Render(fmt.Sprintf("Median trade price in %s against a budget of %s",
			a.req.Query.YearMonth, cli.FormatEok(a.report.Budget.BuyablePrice))))
		b.WriteString("\n\n")
	}
	b.WriteString(components.HBarChart(bars, components.CardInnerWidth(cw)))
	if len(notLive) > 0 {
		warn := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)
		b.WriteString("\n\n")
		b.WriteString(warn.Render(fmt.Sprintf("Not live data for %d of %d districts", len(notLive), len(a.compare))))
	}
	return components.ContentCard(title, b.String(), cw)
}
