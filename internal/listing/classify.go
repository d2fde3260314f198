package listing

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/homebudget/homebudget/internal/model"
)

// Exclusion records a row dropped before classification.
type Exclusion struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Result is the output of one classification run.
type Result struct {
	Listings   []model.ClassifiedListing `json:"listings"`
	Summary    model.Summary             `json:"summary"`
	Exclusions []Exclusion               `json:"exclusions,omitempty"`
}

// Classify normalizes every row of the batch and marks the ones priced at
// or below buyablePrice. Rows whose price cannot be read are excluded and
// counted; they never fail the batch. Output order follows input order.
func Classify(batch Batch, buyablePrice float64) Result {
	res := Result{Listings: make([]model.ClassifiedListing, 0, len(batch.Rows))}

	for i, row := range batch.Rows {
		l, err := Normalize(row, batch.Schema)
		if err != nil {
			res.Exclusions = append(res.Exclusions, Exclusion{Index: i, Name: row.Name, Reason: err.Error()})
			continue
		}
		res.Listings = append(res.Listings, classifyOne(l, buyablePrice))
	}

	res.Summary = summarize(res.Listings, len(res.Exclusions))
	return res
}

func classifyOne(l model.Listing, buyablePrice float64) model.ClassifiedListing {
	c := model.ClassifiedListing{
		Listing:      l,
		WithinBudget: float64(l.Price) <= buyablePrice,
		GapToBudget:  int64(math.Floor(buyablePrice)) - l.Price,
	}
	if l.PeakPrice != nil {
		c.DiscountPct = DiscountPct(*l.PeakPrice, l.Price)
	}
	return c
}

// DiscountPct returns the drop from peak to current as a percentage rounded
// to one decimal place, or nil when peak is zero.
func DiscountPct(peak, current int64) *float64 {
	if peak == 0 {
		return nil
	}
	d := decimal.NewFromInt(peak - current).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(peak)).
		Round(1)
	f, _ := d.Float64()
	return &f
}

func summarize(listings []model.ClassifiedListing, excluded int) model.Summary {
	s := model.Summary{
		Total:    len(listings),
		Excluded: excluded,
		NoData:   len(listings) == 0,
	}
	if s.NoData {
		return s
	}

	prices := make([]float64, len(listings))
	for i, l := range listings {
		if l.WithinBudget {
			s.WithinBudget++
		}
		prices[i] = float64(l.Price)
	}

	pct := float64(s.WithinBudget) / float64(s.Total) * 100
	s.WithinPct = &pct

	sort.Float64s(prices)
	s.MeanPrice = stat.Mean(prices, nil)
	s.MedianPrice = stat.Quantile(0.5, stat.Empirical, prices, nil)
	return s
}
