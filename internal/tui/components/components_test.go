package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/homebudget/homebudget/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	w := LayoutRow(10, 3)
	if len(w) != 3 || w[0]+w[1]+w[2] != 10 || w[0] != 4 {
		t.Fatalf("LayoutRow(10,3) = %v", w)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowPadsShorterCards(t *testing.T) {
	theme.SetActive("flexoki-dark")

	short := ContentCard("Short", "Content", 22)
	tall := ContentCard("Tall", "1\n2\n3\n4\n5", 22)

	joined := CardRow([]string{tall, short})
	lines := strings.Split(joined, "\n")
	if len(lines) != lipgloss.Height(tall) {
		t.Fatalf("joined height %d, want %d", len(lines), lipgloss.Height(tall))
	}
	for i, line := range lines {
		if lipgloss.Width(line) != 44 {
			t.Errorf("line %d width %d, want 44", i, lipgloss.Width(line))
		}
		if !strings.Contains(line, "\x1b[") {
			t.Errorf("line %d has no styling", i)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "예산", Value: "8억 2,000만원"},
		{Label: "Within", Value: "3 / 4", Color: theme.Active.Within},
		{Label: "Share", Value: "75.0%", Note: "of 4 trades"},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width %d, want 90", i, w)
		}
	}
}

func TestHBarChartAlignsHangulLabels(t *testing.T) {
	out := HBarChart([]HBar{
		{Label: "중계주공5단지", Value: 13.3, Display: "13.3%", Highlight: true},
		{Label: "a", Value: 6.7, Display: "6.7%"},
		{Label: "b", Value: -2, Display: "-2.0%"},
	}, 60)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	for i, l := range lines {
		if lipgloss.Width(l) != lipgloss.Width(lines[0]) {
			t.Errorf("line %d width %d differs from %d", i, lipgloss.Width(l), lipgloss.Width(lines[0]))
		}
	}
}

func TestTabBarWidthAndKeys(t *testing.T) {
	bar := RenderTabBar(0, 80)
	if lipgloss.Width(bar) != 80 {
		t.Fatalf("tab bar width %d, want 80", lipgloss.Width(bar))
	}
	if TabIdxByKey('d') != 3 || TabIdxByKey('z') != -1 {
		t.Fatal("TabIdxByKey mismatch")
	}
}

func TestStatusBarShowsWarning(t *testing.T) {
	s := RenderStatusBar(120, Status{Origin: "sample", Warning: "No service key configured", RunID: "1a2b3c4d"})
	if !strings.Contains(s, "No service key") || !strings.Contains(s, "sample") {
		t.Fatalf("status bar missing content: %q", s)
	}
	if lipgloss.Width(s) != 120 {
		t.Fatalf("status bar width %d, want 120", lipgloss.Width(s))
	}
}

func TestColorForShare(t *testing.T) {
	if ColorForShare(80) != theme.Active.Within || ColorForShare(10) != theme.Active.Over {
		t.Fatal("share colours inverted")
	}
}
