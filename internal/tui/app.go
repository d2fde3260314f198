// Package tui provides the interactive Bubble Tea dashboard for homebudget.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/homebudget/homebudget/internal/analysis"
	"github.com/homebudget/homebudget/internal/tui/components"
	"github.com/homebudget/homebudget/internal/tui/theme"
)

// Analyzer runs analyses for the dashboard. *analysis.Runner satisfies it.
type Analyzer interface {
	Run(ctx context.Context, req analysis.Request) (analysis.Report, error)
	Compare(ctx context.Context, req analysis.Request, codes []string) ([]analysis.RegionStat, error)
}

// reportMsg carries a finished run. seq identifies the run so a stale
// result never replaces a newer one.
type reportMsg struct {
	seq    int
	report analysis.Report
	err    error
}

type compareMsg struct {
	seq   int
	stats []analysis.RegionStat
	err   error
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
	runTimeout       = 30 * time.Second
)

const (
	tabOverview = iota
	tabListings
	tabNeighbourhoods
	tabDistricts
)

// App is the root Bubble Tea model.
type App struct {
	analyzer Analyzer
	req      analysis.Request

	// Latest run
	report  *analysis.Report
	runErr  error
	running bool
	seq     int

	// District comparison is loaded lazily per run
	compare        []analysis.RegionStat
	compareErr     error
	compareLoading bool
	compareSeq     int

	// Input form
	form *huh.Form
	vals *formValues

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	cursor    int
	spinner   spinner.Model
}

// NewApp creates the dashboard model. With editFirst the input form opens
// before the first run; otherwise req runs immediately.
func NewApp(analyzer Analyzer, req analysis.Request, editFirst bool) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		analyzer: analyzer,
		req:      req,
		spinner:  sp,
	}
	if editFirst {
		a.openForm()
	} else {
		a.seq = 1
		a.running = true
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion, a.spinner.Tick}
	if a.form != nil {
		cmds = append(cmds, a.form.Init())
	} else {
		cmds = append(cmds, runCmd(a.analyzer, a.req, a.seq))
	}
	return tea.Batch(cmds...)
}

func (a *App) openForm() {
	a.vals = valuesFromRequest(a.req)
	a.form = newInputForm(a.vals)
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.width, 100)).WithHeight(a.height)
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width, 100)).WithHeight(msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		if a.form != nil {
			return a.updateForm(msg)
		}
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateKeys(msg)

	case tea.MouseMsg:
		if a.form != nil || a.showHelp {
			return a, nil
		}
		return a.updateMouse(msg)

	case reportMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		a.running = false
		a.runErr = msg.err
		if msg.err == nil {
			r := msg.report
			a.report = &r
			a.cursor = 0
		}
		if a.activeTab == tabDistricts && msg.err == nil {
			return a, a.loadCompare()
		}
		return a, nil

	case compareMsg:
		if msg.seq != a.compareSeq {
			return a, nil
		}
		a.compareLoading = false
		a.compare = msg.stats
		a.compareErr = msg.err
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		req, err := a.vals.toRequest(a.req)
		a.form = nil
		if err != nil {
			a.runErr = err
			return a, nil
		}
		a.req = req
		a.seq++
		a.running = true
		a.compare, a.compareErr, a.compareLoading = nil, nil, false
		return a, runCmd(a.analyzer, a.req, a.seq)

	case huh.StateAborted:
		a.form = nil
		if a.report == nil && !a.running {
			return a, tea.Quit
		}
		return a, nil
	}

	return a, cmd
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "e":
		a.openForm()
		return a, a.form.Init()
	case "r":
		if a.running {
			return a, nil
		}
		a.seq++
		a.running = true
		a.compare, a.compareErr, a.compareLoading = nil, nil, false
		return a, runCmd(a.analyzer, a.req, a.seq)
	case "left", "shift+tab":
		return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	case "right", "tab":
		return a.switchTab((a.activeTab + 1) % len(components.Tabs))
	case "j", "down":
		a.moveCursor(1)
		return a, nil
	case "k", "up":
		a.moveCursor(-1)
		return a, nil
	case "g":
		a.cursor = 0
		return a, nil
	case "G":
		a.moveCursor(len(a.listings()))
		return a, nil
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			return a.switchTab(idx)
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		a.moveCursor(1)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				return a.switchTab(tab)
			}
		}
	}
	return a, nil
}

func (a App) switchTab(idx int) (tea.Model, tea.Cmd) {
	a.activeTab = idx
	if idx == tabDistricts && a.report != nil && a.compare == nil && !a.compareLoading && !a.running {
		return a, a.loadCompare()
	}
	return a, nil
}

func (a *App) loadCompare() tea.Cmd {
	a.compareSeq++
	a.compareLoading = true
	return compareCmd(a.analyzer, a.req, a.compareSeq)
}

func (a *App) moveCursor(delta int) {
	if a.activeTab != tabListings {
		return
	}
	n := len(a.listings())
	a.cursor = min(max(a.cursor+delta, 0), max(n-1, 0))
}

// ─── Commands ───────────────────────────────────────────────────

func runCmd(an Analyzer, req analysis.Request, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		rep, err := an.Run(ctx, req)
		return reportMsg{seq: seq, report: rep, err: err}
	}
}

// compareCmd compares every district of the selected province.
func compareCmd(an Analyzer, req analysis.Request, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		stats, err := an.Compare(ctx, req, analysis.Neighbours(req.Query.RegionCode))
		return compareMsg{seq: seq, stats: stats, err: err}
	}
}

// ─── Views ──────────────────────────────────────────────────────

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.form != nil {
		return a.form.View()
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  homebudget needs at least %d columns.\n",
		a.width, minTerminalWidth)
	h := max(a.height, 5)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	bindings := []struct{ key, desc string }{
		{"o l n d", "Overview / Listings / Neighbourhoods / Districts"},
		{"← → tab", "Previous / next tab"},
		{"j k", "Move through listings"},
		{"e", "Edit salary, rate, cash, region"},
		{"r", "Re-run the analysis"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "%s  %s\n", keyStyle.Render(fmt.Sprintf("%-8s", bind.key)), descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.status())

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.report == nil && a.running:
		content = a.viewRunning(cw)
	case a.report == nil:
		content = a.renderError(cw)
	default:
		switch a.activeTab {
		case tabOverview:
			content = a.renderOverviewTab(cw)
		case tabListings:
			content = a.renderListingsTab(cw, contentH)
		case tabNeighbourhoods:
			content = a.renderNeighbourhoodsTab(cw)
		case tabDistricts:
			content = a.renderDistrictsTab(cw)
		}
		if a.runErr != nil {
			content = a.renderError(cw) + "\n" + content
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (a App) viewRunning(cw int) string {
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	return components.ContentCard("", a.spinner.View()+style.Render(" Estimating budget and loading trades…"), cw)
}

func (a App) renderError(cw int) string {
	t := theme.Active
	msg := "No analysis yet. Press e to enter your details."
	if a.runErr != nil {
		msg = a.runErr.Error()
	}
	style := lipgloss.NewStyle().Foreground(t.Over).Background(t.Surface)
	return components.ContentCard("Cannot analyze", style.Render(msg), cw)
}

func (a App) status() components.Status {
	s := components.Status{Busy: a.running}
	if a.report != nil {
		s.Origin = string(a.report.Origin)
		s.Warning = a.report.Warning
		s.RunID = a.report.RunID.String()[:8]
	}
	return s
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
