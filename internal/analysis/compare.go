package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/homebudget/homebudget/internal/budget"
	"github.com/homebudget/homebudget/internal/listing"
	"github.com/homebudget/homebudget/internal/region"
	"github.com/homebudget/homebudget/internal/source"
)

// MaxCompareRegions bounds one comparison.
const MaxCompareRegions = 30

// RegionStat is the classification summary of one district.
type RegionStat struct {
	Region       region.Region `json:"region"`
	Origin       source.Origin `json:"origin"`
	Reason       source.Reason `json:"reason,omitempty"`
	Listings     int           `json:"listings"`
	WithinBudget int           `json:"within_budget"`
	WithinPct    *float64      `json:"within_pct,omitempty"`
	MedianPrice  float64       `json:"median_price"`
}

// Compare classifies the same period across several districts against one
// budget, in the order given. Loads run on a bounded worker pool.
func (r *Runner) Compare(ctx context.Context, req Request, codes []string) ([]RegionStat, error) {
	if len(codes) == 0 || len(codes) > MaxCompareRegions {
		return nil, fmt.Errorf("analysis: compare needs 1..%d regions, got %d", MaxCompareRegions, len(codes))
	}
	regions := make([]region.Region, len(codes))
	for i, c := range codes {
		reg, ok := region.ByCode(c)
		if !ok {
			return nil, fmt.Errorf("analysis: unknown region code %q", c)
		}
		regions[i] = reg
	}
	est, err := budget.Estimate(req.Profile, r.policy)
	if err != nil {
		return nil, err
	}

	numWorkers := min(runtime.GOMAXPROCS(0), 4, len(regions))

	work := make(chan int, len(regions))
	for i := range regions {
		work <- i
	}
	close(work)

	results := make([]RegionStat, len(regions))
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				q := req.Query
				q.RegionCode = regions[idx].Code
				out := r.loader.Load(ctx, q)
				res := listing.Classify(out.Batch, est.BuyablePrice)
				st := RegionStat{
					Region:       regions[idx],
					Origin:       out.Origin,
					Listings:     res.Summary.Total,
					WithinBudget: res.Summary.WithinBudget,
					WithinPct:    res.Summary.WithinPct,
					MedianPrice:  res.Summary.MedianPrice,
				}
				if out.Failure != nil {
					st.Reason = out.Failure.Reason
				}
				results[idx] = st
			}
		}()
	}
	wg.Wait()

	r.log.Debug().Int("regions", len(regions)).Str("period", req.Query.YearMonth).Msg("comparison complete")
	return results, nil
}

// Neighbours returns the codes of every district in the province of code,
// with code first.
func Neighbours(code string) []string {
	reg, ok := region.ByCode(code)
	if !ok {
		return nil
	}
	codes := []string{reg.Code}
	for _, d := range region.Districts(reg.Province) {
		if d.Code != reg.Code {
			codes = append(codes, d.Code)
		}
	}
	return codes
}
