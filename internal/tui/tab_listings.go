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

const listingsOverhead = 6 // card border, title, header, rule, footer

func listingCells(l model.ClassifiedListing) []string {
	floor := "-"
	if l.Floor != nil {
		floor = fmt.Sprintf("%d", *l.Floor)
	}
	date := "-"
	if l.DealDate != nil {
		date = l.DealDate.String()
	}
	disc := "-"
	if l.DiscountPct != nil {
		disc = fmt.Sprintf("%.1f%%", *l.DiscountPct)
	}
	return []string{
		l.Name,
		l.Dong,
		cli.FormatArea(l.AreaM2),
		floor,
		date,
		cli.FormatWon(l.Price),
		disc,
		cli.FormatSignedWon(l.GapToBudget),
	}
}

func (a App) renderListingsTab(cw, h int) string {
	t := theme.Active
	listings := a.listings()
	innerW := components.CardInnerWidth(cw)

	if len(listings) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Listings", muted.Render(cli.FormatNoTrades(a.report.Result.Summary.Excluded)), cw)
	}

	headers := []string{"Complex", "Dong", "Area", "Floor", "Date", "Price", "Off peak", "Gap"}
	rows := make([][]string, len(listings))
	widths := make([]int, len(headers))
	for i, hdr := range headers {
		widths[i] = lipgloss.Width(hdr)
	}
	for i, l := range listings {
		rows[i] = listingCells(l)
		for c, cell := range rows[i] {
			widths[c] = max(widths[c], lipgloss.Width(cell))
		}
	}
	fixed := 0
	for _, w := range widths[1:] {
		fixed += w + 1
	}
	widths[0] = max(min(widths[0], innerW-fixed), 8)

	visible := max(h-listingsOverhead, 1)
	offset := 0
	if a.cursor >= visible {
		offset = a.cursor - visible + 1
	}
	end := min(offset+visible, len(rows))

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	ruleStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	footStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var body strings.Builder
	body.WriteString(headerStyle.Render(formatRow(headers, widths)))
	body.WriteString("\n")
	body.WriteString(ruleStyle.Render(strings.Repeat("─", min(lipgloss.Width(formatRow(headers, widths)), innerW))))
	body.WriteString("\n")

	for i := offset; i < end; i++ {
		style := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
		if listings[i].WithinBudget {
			style = style.Foreground(t.Within).Bold(true)
		}
		if i == a.cursor {
			style = style.Background(t.SurfaceHover)
		}
		body.WriteString(style.Render(formatRow(rows[i], widths)))
		body.WriteString("\n")
	}

	sum := a.report.Result.Summary
	body.WriteString(footStyle.Render(fmt.Sprintf("%d-%d of %d · %d within budget · %d excluded",
		offset+1, end, len(rows), sum.WithinBudget, sum.Excluded)))

	return components.ContentCard("Listings", body.String(), cw)
}

// formatRow pads cells by display width; the first column is left-aligned.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		c = truncateCell(c, widths[i])
		pad := strings.Repeat(" ", max(widths[i]-lipgloss.Width(c), 0))
		if i == 0 {
			parts[i] = c + pad
		} else {
			parts[i] = pad + c
		}
	}
	return strings.Join(parts, " ")
}

func truncateCell(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if lipgloss.Width(b.String()+string(r)) >= w {
			break
		}
		b.WriteRune(r)
	}
	return b.String() + "…"
}
