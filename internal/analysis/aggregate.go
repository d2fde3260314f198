package analysis

import (
	"sort"

	"github.com/homebudget/homebudget/internal/model"
)

// DongStat summarizes the listings of one neighbourhood.
type DongStat struct {
	Dong         string  `json:"dong"`
	Listings     int     `json:"listings"`
	WithinBudget int     `json:"within_budget"`
	MinPrice     int64   `json:"min_price"`
	MeanPrice    float64 `json:"mean_price"`
}

// GroupByDong aggregates listings per dong, most listings first. Listings
// without a dong are grouped under "".
func GroupByDong(listings []model.ClassifiedListing) []DongStat {
	if len(listings) == 0 {
		return nil
	}

	byDong := make(map[string]*DongStat)
	sums := make(map[string]float64)
	for _, l := range listings {
		ds, ok := byDong[l.Dong]
		if !ok {
			ds = &DongStat{Dong: l.Dong, MinPrice: l.Price}
			byDong[l.Dong] = ds
		}
		ds.Listings++
		if l.WithinBudget {
			ds.WithinBudget++
		}
		if l.Price < ds.MinPrice {
			ds.MinPrice = l.Price
		}
		sums[l.Dong] += float64(l.Price)
	}

	stats := make([]DongStat, 0, len(byDong))
	for dong, ds := range byDong {
		ds.MeanPrice = sums[dong] / float64(ds.Listings)
		stats = append(stats, *ds)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Listings != stats[j].Listings {
			return stats[i].Listings > stats[j].Listings
		}
		return stats[i].Dong < stats[j].Dong
	})
	return stats
}
