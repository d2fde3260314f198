package listing

import "math"

// Target is a listing the user is aiming for, priced in won.
type Target struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// TargetGap compares a Target with the buyable price.
// Gap is positive when the budget exceeds the target price.
type TargetGap struct {
	Target
	Gap        int64 `json:"gap"`
	Affordable bool  `json:"affordable"`
}

// CompareTarget reports how far the buyable price is from a target.
func CompareTarget(t Target, buyablePrice float64) TargetGap {
	return TargetGap{
		Target:     t,
		Gap:        int64(math.Floor(buyablePrice)) - t.Price,
		Affordable: float64(t.Price) <= buyablePrice,
	}
}
