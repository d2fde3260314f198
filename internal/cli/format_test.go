package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:          "0",
		999:        "999",
		1000:       "1,000",
		1234567:    "1,234,567",
		-780000000: "-780,000,000",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatWon(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{780_000_000, "7억 8,000만원"},
		{1_100_000_000, "11억원"},
		{50_000, "5만원"},
		{1_234, "1,234원"},
		{0, "0원"},
		{-20_000_000, "-2,000만원"},
		{123_456_789_000, "1,234억 5,678만원"},
	}
	for _, tt := range tests {
		if got := FormatWon(tt.in); got != tt.want {
			t.Errorf("FormatWon(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(nil); got != "n/a" {
		t.Fatalf("nil percent = %q", got)
	}
	p := 66.6666
	if got := FormatPercent(&p); got != "66.7%" {
		t.Fatalf("FormatPercent = %q", got)
	}
}

func TestFormatSignedWonAndEok(t *testing.T) {
	if got := FormatSignedWon(20_000_000); got != "+2,000만원" {
		t.Fatalf("FormatSignedWon = %q", got)
	}
	if got := FormatEok(780_000_000); got != "7.80억" {
		t.Fatalf("FormatEok = %q", got)
	}
	if got := FormatRate(4.5); got != "4.5%" {
		t.Fatalf("FormatRate = %q", got)
	}
}

func TestRenderTable_AlignsWideRunes(t *testing.T) {
	out := RenderTable(Table{
		Headers:   []string{"단지", "가격"},
		Rows:      [][]string{{"중계무지개", "6억 5,000만원"}, {"a", "1원"}},
		Highlight: []bool{true, false},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != w {
			t.Errorf("line %d width %d, want %d: %q", i, lipgloss.Width(l), w, l)
		}
	}
}

func TestRenderBarChart(t *testing.T) {
	out := RenderBarChart("할인율", []Bar{
		{Label: "A", Value: 10, Display: "10%"},
		{Label: "B", Value: 5, Display: "5%"},
		{Label: "C", Value: -3, Display: "-3%"},
	}, 10)

	if !strings.Contains(out, strings.Repeat("█", 10)) {
		t.Errorf("largest bar should fill the width:\n%s", out)
	}
	if strings.Count(out, "\n") != 4 {
		t.Errorf("want title plus three rows:\n%s", out)
	}
}

func TestFormatNoTrades(t *testing.T) {
	if got := FormatNoTrades(0); got != "No trades for this region and period." {
		t.Errorf("FormatNoTrades(0) = %q", got)
	}
	if got := FormatNoTrades(4); !strings.Contains(got, "Excluded rows: 4") {
		t.Errorf("FormatNoTrades(4) = %q", got)
	}
}
