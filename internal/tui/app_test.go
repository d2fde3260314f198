package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homebudget/homebudget/internal/analysis"
	"github.com/homebudget/homebudget/internal/budget"
	"github.com/homebudget/homebudget/internal/listing"
	"github.com/homebudget/homebudget/internal/model"
	"github.com/homebudget/homebudget/internal/molit"
	"github.com/homebudget/homebudget/internal/source"
	"github.com/homebudget/homebudget/internal/tui/components"
)

type fakeAnalyzer struct {
	mu       sync.Mutex
	runs     int
	compares int
	runner   *analysis.Runner
}

func newFake() *fakeAnalyzer {
	p := source.NewProvider(nil, zerolog.Nop())
	return &fakeAnalyzer{runner: analysis.NewRunner(budget.DefaultPolicy(), p, zerolog.Nop())}
}

func (f *fakeAnalyzer) Run(ctx context.Context, req analysis.Request) (analysis.Report, error) {
	f.mu.Lock()
	f.runs++
	f.mu.Unlock()
	return f.runner.Run(ctx, req)
}

func (f *fakeAnalyzer) Compare(ctx context.Context, req analysis.Request, codes []string) ([]analysis.RegionStat, error) {
	f.mu.Lock()
	f.compares++
	f.mu.Unlock()
	return f.runner.Compare(ctx, req, codes)
}

func request() analysis.Request {
	return analysis.Request{
		Profile: model.FinancialProfile{Salary: 60_000_000, CashComponents: []float64{100_000_000}},
		Query: molit.Query{
			Category: molit.CategoryApartment, TradeKind: molit.TradeSale,
			RegionCode: "11350", YearMonth: "202403",
		},
		Target: &listing.Target{Name: "휘경SK뷰", Price: 950_000_000},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ready returns an app that has received its first report.
func ready(t *testing.T, f *fakeAnalyzer) App {
	t.Helper()
	a := NewApp(f, request(), false)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = m.(App)

	msg := runCmd(f, a.req, a.seq)()
	m, _ = a.Update(msg)
	a = m.(App)
	require.NotNil(t, a.report)
	require.False(t, a.running)
	return a
}

func TestApp_FirstRunPopulatesReport(t *testing.T) {
	a := ready(t, newFake())

	assert.Equal(t, source.OriginSample, a.report.Origin)
	assert.Equal(t, 3, a.report.Result.Summary.WithinBudget)

	view := a.View()
	assert.Contains(t, view, "Buyable price")
	assert.Contains(t, view, "8억 2,000만원")
	assert.Contains(t, view, "sample")
}

func TestApp_StaleReportIsDropped(t *testing.T) {
	f := newFake()
	a := ready(t, f)
	first := a.report.RunID

	m, cmd := a.Update(key("r"))
	a = m.(App)
	require.NotNil(t, cmd)
	assert.True(t, a.running)
	assert.Equal(t, 2, a.seq)

	m, _ = a.Update(reportMsg{seq: 1, err: errors.New("old")})
	a = m.(App)
	assert.True(t, a.running)
	assert.NoError(t, a.runErr)

	m, _ = a.Update(cmd())
	a = m.(App)
	assert.False(t, a.running)
	assert.NotEqual(t, first, a.report.RunID)
}

func TestApp_RunErrorKeepsPreviousReport(t *testing.T) {
	a := ready(t, newFake())
	prev := a.report

	m, _ := a.Update(key("r"))
	a = m.(App)
	m, _ = a.Update(reportMsg{seq: a.seq, err: errors.New("salary: must not be negative")})
	a = m.(App)

	assert.Same(t, prev, a.report)
	assert.Contains(t, a.View(), "must not be negative")
}

func TestApp_DistrictsLoadOnTabEntry(t *testing.T) {
	f := newFake()
	a := ready(t, f)

	m, cmd := a.Update(key("d"))
	a = m.(App)
	require.NotNil(t, cmd)
	assert.Equal(t, tabDistricts, a.activeTab)
	assert.True(t, a.compareLoading)

	m, _ = a.Update(cmd())
	a = m.(App)
	assert.False(t, a.compareLoading)
	require.Len(t, a.compare, 25)
	assert.Equal(t, "11350", a.compare[0].Region.Code)
	assert.Contains(t, a.View(), "Districts of 서울특별시")

	// Re-entering the tab does not reload.
	m, _ = a.Update(key("o"))
	a = m.(App)
	_, cmd = a.Update(key("d"))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, f.compares)
}

func TestApp_ListingsCursorClamps(t *testing.T) {
	a := ready(t, newFake())
	m, _ := a.Update(key("l"))
	a = m.(App)

	for i := 0; i < 10; i++ {
		m, _ = a.Update(key("j"))
		a = m.(App)
	}
	assert.Equal(t, 3, a.cursor)

	m, _ = a.Update(key("g"))
	a = m.(App)
	assert.Equal(t, 0, a.cursor)
	assert.Contains(t, a.View(), "중계주공5단지")
}

func TestApp_EditOpensForm(t *testing.T) {
	a := ready(t, newFake())
	m, _ := a.Update(key("e"))
	a = m.(App)

	require.NotNil(t, a.form)
	assert.Equal(t, "60000000", a.vals.salary)
	assert.Equal(t, "노원구", a.vals.district)
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1
		}
	}
}

func TestFormValues_RoundTrip(t *testing.T) {
	req := request()
	req.Profile.CashComponents = []float64{200_000_000, 50_000_000}
	v := valuesFromRequest(req)
	assert.Equal(t, "200000000 + 50000000", v.cash)

	v.salary = "7000만"
	v.rate = "3.5%"
	v.targetPrice = ""
	got, err := v.toRequest(req)
	require.NoError(t, err)

	assert.Equal(t, 70_000_000.0, got.Profile.Salary)
	assert.Equal(t, 3.5, got.Profile.AnnualRatePct)
	assert.Equal(t, []float64{200_000_000, 50_000_000}, got.Profile.CashComponents)
	assert.Equal(t, "11350", got.Query.RegionCode)
	assert.Equal(t, molit.CategoryApartment, got.Query.Category)
	assert.Nil(t, got.Target)
}

func TestFormValidators(t *testing.T) {
	assert.NoError(t, validateSalary("6,330만"))
	assert.Error(t, validateSalary("-5"))
	assert.NoError(t, validateRate("4.5"))
	assert.Error(t, validateRate("101"))
	assert.NoError(t, validateCash("2억 + 3000만"))
	assert.Error(t, validateCash("2억 + x"))
	assert.NoError(t, validatePeriod("202403"))
	assert.Error(t, validatePeriod("202413"))
	assert.NoError(t, validateOptionalAmount(""))
	assert.Error(t, validateOptionalAmount("0"))
}

func TestDistrictOptionsFollowProvince(t *testing.T) {
	opts := districtOptions("서울특별시")
	require.Len(t, opts, 25)
	assert.Empty(t, districtOptions("nowhere"))
	assert.True(t, strings.Contains(opts[0].Key, "("))
}

func TestApp_AllRowsExcludedShowsCount(t *testing.T) {
	a := ready(t, newFake())

	rep := *a.report
	rep.Result = listing.Classify(listing.Batch{
		Schema: listing.SchemaTenThousand,
		Rows: []model.RawListing{
			{Name: "a", Fields: map[string]string{model.ColumnDealAmount: "abc"}},
			{Name: "b", Fields: map[string]string{model.ColumnDealAmount: "?"}},
		},
	}, rep.Budget.BuyablePrice)
	require.True(t, rep.Result.Summary.NoData)

	m, _ := a.Update(reportMsg{seq: a.seq, report: rep})
	a = m.(App)
	assert.Contains(t, a.View(), "Excluded rows: 2")

	m, _ = a.Update(key("l"))
	a = m.(App)
	assert.Contains(t, a.View(), "Excluded rows: 2")
}
