package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/homebudget/homebudget/internal/tui/theme"
)

// Status is what the bottom bar reports about the latest run.
type Status struct {
	Origin  string // live, cache, sample, empty
	Warning string
	RunID   string
	Busy    bool
}

// RenderStatusBar renders the bottom status bar. A warning takes the
// middle of the bar; key hints stay on the left.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface).Bold(true)
	originStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	left := base.Render(" [?]help [e]dit [r]erun [q]uit ")

	right := ""
	if s.Busy {
		right = base.Render("running… ")
	} else if s.Origin != "" {
		right = base.Render("data: ") + originStyle.Render(s.Origin)
		if s.RunID != "" {
			right += base.Render(" · " + s.RunID)
		}
		right += base.Render(" ")
	}

	mid := ""
	if s.Warning != "" {
		room := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
		if room > 3 {
			mid = warn.Render(truncateWidth("! "+s.Warning, room))
		}
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(mid)-lipgloss.Width(right), 0)
	return left + mid + base.Render(strings.Repeat(" ", padding)) + right
}
