package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homebudget/homebudget/internal/budget"
	"github.com/homebudget/homebudget/internal/listing"
	"github.com/homebudget/homebudget/internal/model"
	"github.com/homebudget/homebudget/internal/molit"
	"github.com/homebudget/homebudget/internal/source"
)

type stubLoader struct {
	mu      sync.Mutex
	out     source.Outcome
	queries []molit.Query
}

func (s *stubLoader) Load(_ context.Context, q molit.Query) source.Outcome {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()
	return s.out
}

type failingFetcher struct{}

func (failingFetcher) FetchTrades(context.Context, molit.Query) ([]model.RawListing, error) {
	return nil, errors.New("connection reset")
}

// 60,000,000 * 0.4 / 12 * 360 = 720,000,000 at a zero rate.
func zeroRateRequest(cash float64) Request {
	return Request{
		Profile: model.FinancialProfile{Salary: 60_000_000, CashComponents: []float64{cash}},
		Query: molit.Query{
			Category: molit.CategoryApartment, TradeKind: molit.TradeSale,
			RegionCode: "11350", YearMonth: "202403",
		},
	}
}

func TestRun_SampleFallbackOnFetchFailure(t *testing.T) {
	p := source.NewProvider(failingFetcher{}, zerolog.Nop())
	r := NewRunner(budget.DefaultPolicy(), p, zerolog.Nop())

	rep, err := r.Run(context.Background(), zeroRateRequest(100_000_000))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, rep.RunID)
	assert.Equal(t, 820_000_000.0, rep.Budget.BuyablePrice)
	assert.Equal(t, source.OriginSample, rep.Origin)
	assert.Equal(t, source.ReasonUnknown, rep.Reason)
	assert.NotEmpty(t, rep.Warning)
	assert.Equal(t, 4, rep.Result.Summary.Total)
	assert.Equal(t, 3, rep.Result.Summary.WithinBudget)
	require.NotNil(t, rep.Region)
	assert.Equal(t, "노원구", rep.Region.District)
}

func TestRun_ValidationErrorStopsRun(t *testing.T) {
	loader := &stubLoader{}
	r := NewRunner(budget.DefaultPolicy(), loader, zerolog.Nop())

	req := zeroRateRequest(0)
	req.Profile.Salary = -1
	_, err := r.Run(context.Background(), req)

	assert.ErrorIs(t, err, budget.ErrInvalidInput)
	assert.Empty(t, loader.queries)
}

func TestRun_TargetGap(t *testing.T) {
	loader := &stubLoader{out: source.Outcome{Batch: source.SampleBatch(), Origin: source.OriginLive}}
	r := NewRunner(budget.DefaultPolicy(), loader, zerolog.Nop())

	req := zeroRateRequest(0)
	req.Target = &listing.Target{Name: "휘경SK뷰", Price: 950_000_000}
	rep, err := r.Run(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, rep.Target)
	assert.False(t, rep.Target.Affordable)
	assert.Equal(t, int64(-230_000_000), rep.Target.Gap)
	assert.Empty(t, rep.Warning)
	assert.Equal(t, 1, rep.Result.Summary.WithinBudget)
}

func TestRun_IndependentRunIDs(t *testing.T) {
	loader := &stubLoader{out: source.Outcome{Batch: source.SampleBatch(), Origin: source.OriginLive}}
	r := NewRunner(budget.DefaultPolicy(), loader, zerolog.Nop())

	a, err := r.Run(context.Background(), zeroRateRequest(0))
	require.NoError(t, err)
	b, err := r.Run(context.Background(), zeroRateRequest(0))
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Result, b.Result)
}

func TestGroupByDong(t *testing.T) {
	stats := GroupByDong(listing.Classify(source.SampleBatch(), 720_000_000).Listings)

	require.Len(t, stats, 3)
	assert.Equal(t, "중계동", stats[0].Dong)
	assert.Equal(t, 2, stats[0].Listings)
	assert.Equal(t, 1, stats[0].WithinBudget)
	assert.Equal(t, int64(650_000_000), stats[0].MinPrice)
	assert.Equal(t, 715_000_000.0, stats[0].MeanPrice)

	assert.Nil(t, GroupByDong(nil))
}

func TestGroupByDong_MostListingsFirstThenName(t *testing.T) {
	at := func(dong string, price int64) model.ClassifiedListing {
		return model.ClassifiedListing{Listing: model.Listing{Dong: dong, Price: price}}
	}
	stats := GroupByDong([]model.ClassifiedListing{
		at("휘경동", 500),
		at("상계동", 100),
		at("중계동", 300),
		at("상계동", 200),
		at("공릉동", 400),
	})

	got := make([]string, len(stats))
	for i, s := range stats {
		got[i] = s.Dong
	}
	assert.Equal(t, []string{"상계동", "공릉동", "중계동", "휘경동"}, got)
	assert.Equal(t, int64(100), stats[0].MinPrice)
	assert.Equal(t, 150.0, stats[0].MeanPrice)
}

func TestCompare_KeepsRegionOrder(t *testing.T) {
	loader := &stubLoader{out: source.Outcome{Batch: source.SampleBatch(), Origin: source.OriginLive}}
	r := NewRunner(budget.DefaultPolicy(), loader, zerolog.Nop())

	codes := []string{"11350", "11230", "11260"}
	stats, err := r.Compare(context.Background(), zeroRateRequest(0), codes)
	require.NoError(t, err)

	require.Len(t, stats, 3)
	for i, s := range stats {
		assert.Equal(t, codes[i], s.Region.Code)
		assert.Equal(t, 4, s.Listings)
		assert.Equal(t, 1, s.WithinBudget)
		require.NotNil(t, s.WithinPct)
		assert.Equal(t, 25.0, *s.WithinPct)
		assert.Equal(t, 780_000_000.0, s.MedianPrice)
	}
	require.Len(t, loader.queries, 3)
	for _, q := range loader.queries {
		assert.Equal(t, "202403", q.YearMonth)
	}
}

func TestCompare_RejectsBadInput(t *testing.T) {
	r := NewRunner(budget.DefaultPolicy(), &stubLoader{}, zerolog.Nop())

	_, err := r.Compare(context.Background(), zeroRateRequest(0), nil)
	assert.Error(t, err)

	_, err = r.Compare(context.Background(), zeroRateRequest(0), []string{"99999"})
	assert.Error(t, err)

	req := zeroRateRequest(0)
	req.Profile.Salary = -1
	_, err = r.Compare(context.Background(), req, []string{"11350"})
	assert.ErrorIs(t, err, budget.ErrInvalidInput)
}

func TestNeighbours(t *testing.T) {
	codes := Neighbours("11350")
	require.Len(t, codes, 25)
	assert.Equal(t, "11350", codes[0])
	assert.NotContains(t, codes[1:], "11350")

	assert.Nil(t, Neighbours("00000"))
}
