package cmd

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homebudget/homebudget/internal/analysis"
	"github.com/homebudget/homebudget/internal/listing"
	"github.com/homebudget/homebudget/internal/model"
	"github.com/homebudget/homebudget/internal/molit"
	"github.com/homebudget/homebudget/internal/source"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	done := make(chan string)
	go func() {
		b, _ := io.ReadAll(r)
		done <- string(b)
	}()
	fn()
	require.NoError(t, w.Close())
	return <-done
}

func TestPrintReport_AllRowsExcluded(t *testing.T) {
	rep := analysis.Report{
		Budget: model.BudgetResult{BuyablePrice: 820_000_000, DebtServiceRatio: 0.4, TermMonths: 360},
		Result: listing.Classify(listing.Batch{
			Schema: listing.SchemaBaseCurrency,
			Rows: []model.RawListing{
				{Name: "a", Fields: map[string]string{model.ColumnPrice: "abc"}},
				{Name: "b", Fields: map[string]string{model.ColumnPrice: "-"}},
				{Name: "c", Fields: map[string]string{}},
			},
		}, 820_000_000),
		Origin: source.OriginLive,
		Query:  molit.Query{RegionCode: "11350", YearMonth: "202403"},
	}
	require.True(t, rep.Result.Summary.NoData)

	out := captureStdout(t, func() { printReport(rep) })
	assert.Contains(t, out, "Excluded rows: 3")
	assert.Contains(t, out, "Source: live")
}
