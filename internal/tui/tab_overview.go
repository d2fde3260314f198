package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/homebudget/homebudget/internal/cli"
	"github.com/homebudget/homebudget/internal/model"
	"github.com/homebudget/homebudget/internal/tui/components"
	"github.com/homebudget/homebudget/internal/tui/theme"
)

func (a App) listings() []model.ClassifiedListing {
	if a.report == nil {
		return nil
	}
	return a.report.Result.Listings
}

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	rep := a.report
	est := rep.Budget
	sum := rep.Result.Summary

	shareNote := "no listings"
	shareColor := t.TextMuted
	if sum.WithinPct != nil {
		shareNote = cli.FormatPercent(sum.WithinPct) + " of trades"
		shareColor = components.ColorForShare(*sum.WithinPct)
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Buyable price", Value: cli.FormatWonFloat(est.BuyablePrice), Note: cli.FormatEok(est.BuyablePrice), Color: t.AccentBright},
		{Label: "Max loan", Value: cli.FormatWonFloat(est.MaxLoanPrincipal), Note: fmt.Sprintf("%d months", est.TermMonths)},
		{Label: "Cash", Value: cli.FormatWonFloat(est.TotalCash), Note: fmt.Sprintf("%d item(s)", len(a.req.Profile.CashComponents))},
		{Label: "Within budget", Value: fmt.Sprintf("%d / %d", sum.WithinBudget, sum.Total), Note: shareNote, Color: shareColor},
	}, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	val := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	kv := func(rows [][2]string) string {
		lw := 0
		for _, r := range rows {
			lw = max(lw, lipgloss.Width(r[0]))
		}
		lines := make([]string, len(rows))
		for i, r := range rows {
			lines[i] = muted.Render(r[0]+strings.Repeat(" ", lw-lipgloss.Width(r[0]))+"  ") + val.Render(r[1])
		}
		return strings.Join(lines, "\n")
	}

	place := "-"
	if rep.Region != nil {
		place = rep.Region.Label()
	}
	budgetBody := kv([][2]string{
		{"Salary", cli.FormatWonFloat(a.req.Profile.Salary)},
		{"Rate", cli.FormatRate(a.req.Profile.AnnualRatePct)},
		{"Debt service ratio", fmt.Sprintf("%.0f%%", est.DebtServiceRatio*100)},
		{"Annual repayment cap", cli.FormatWonFloat(est.MaxAnnualDebtService)},
		{"Monthly payment", cli.FormatWonFloat(est.MonthlyPayment)},
		{"Region", place},
		{"Period", rep.Query.YearMonth},
	})
	budgetCard := components.ContentCard("Budget", budgetBody, halves[0])

	var right strings.Builder
	if sum.WithinPct != nil {
		right.WriteString(components.ShareBar(*sum.WithinPct, max(components.CardInnerWidth(halves[1])-6, 10)))
		right.WriteString("\n")
		right.WriteString(kv([][2]string{
			{"Median price", cli.FormatWonFloat(sum.MedianPrice)},
			{"Mean price", cli.FormatWonFloat(sum.MeanPrice)},
			{"Excluded rows", fmt.Sprintf("%d", sum.Excluded)},
		}))
	} else {
		right.WriteString(muted.Render(cli.FormatNoTrades(sum.Excluded)))
	}
	if tg := rep.Target; tg != nil {
		style := lipgloss.NewStyle().Foreground(t.Over).Background(t.Surface).Bold(true)
		verdict := "short by " + cli.FormatWon(-tg.Gap)
		if tg.Affordable {
			style = style.Foreground(t.Within)
			verdict = "affordable, " + cli.FormatWon(tg.Gap) + " to spare"
		}
		right.WriteString("\n\n")
		right.WriteString(muted.Render(tg.Name+" ("+cli.FormatWon(tg.Price)+")") + "\n")
		right.WriteString(style.Render(verdict))
	}
	marketCard := components.ContentCard("Market", right.String(), halves[1])

	b.WriteString(components.CardRow([]string{budgetCard, marketCard}))
	b.WriteString("\n")

	if bars := discountBars(rep.Result.Listings); len(bars) > 0 {
		b.WriteString(components.ContentCard("Discount from peak",
			components.HBarChart(bars, components.CardInnerWidth(cw)), cw))
	}

	return b.String()
}

// discountBars lists listings that carry a discount, in input order.
func discountBars(listings []model.ClassifiedListing) []components.HBar {
	var bars []components.HBar
	for _, l := range listings {
		if l.DiscountPct == nil {
			continue
		}
		bars = append(bars, components.HBar{
			Label:     l.Name,
			Value:     *l.DiscountPct,
			Display:   fmt.Sprintf("%.1f%%", *l.DiscountPct),
			Highlight: l.WithinBudget,
		})
	}
	return bars
}
