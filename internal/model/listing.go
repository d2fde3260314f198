package model

import "cloud.google.com/go/civil"

// Column names a source may use for a listing's price.
const (
	ColumnPrice      = "price"       // base currency (won)
	ColumnDealAmount = "deal_amount" // ten-thousand won units
	ColumnPeakPrice  = "peak_price"  // prior peak, same unit as the price column
)

// RawListing is a listing row as a source delivered it. Price text lives in
// Fields under whichever column the source used.
type RawListing struct {
	Name     string            `json:"name"`
	Dong     string            `json:"dong,omitempty"`
	AreaM2   *float64          `json:"area_m2,omitempty"`
	Floor    *int              `json:"floor,omitempty"`
	DealDate *civil.Date       `json:"deal_date,omitempty"`
	Fields   map[string]string `json:"fields"`
}

// Listing is a normalized listing with a single price in won.
type Listing struct {
	Name      string      `json:"name"`
	Dong      string      `json:"dong,omitempty"`
	AreaM2    *float64    `json:"area_m2,omitempty"`
	Floor     *int        `json:"floor,omitempty"`
	DealDate  *civil.Date `json:"deal_date,omitempty"`
	Price     int64       `json:"price"`
	PeakPrice *int64      `json:"peak_price,omitempty"`
}

// ClassifiedListing annotates a Listing against a buyable price.
type ClassifiedListing struct {
	Listing
	WithinBudget bool     `json:"within_budget"`
	DiscountPct  *float64 `json:"discount_pct,omitempty"`
	GapToBudget  int64    `json:"gap_to_budget"`
}

// Summary aggregates a classification run.
// WithinPct is nil when there were no classified listings.
type Summary struct {
	Total        int      `json:"total"`
	WithinBudget int      `json:"within_budget"`
	Excluded     int      `json:"excluded"`
	WithinPct    *float64 `json:"within_pct,omitempty"`
	NoData       bool     `json:"no_data"`
	MeanPrice    float64  `json:"mean_price"`
	MedianPrice  float64  `json:"median_price"`
}
