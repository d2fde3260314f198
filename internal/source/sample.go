package source

import (
	"github.com/homebudget/homebudget/internal/listing"
	"github.com/homebudget/homebudget/internal/model"
)

type sampleRow struct {
	name  string
	dong  string
	area  float64
	price string
	peak  string
}

// Illustrative trades around 노원구 중계동, 동대문구 휘경동, and 구리시 인창동.
var sampleRows = []sampleRow{
	{"중계주공5단지", "중계동", 59, "780000000", "900000000"},
	{"휘경SK뷰", "휘경동", 84, "950000000", "1100000000"},
	{"구리더샵그리니티", "인창동", 84, "820000000", "950000000"},
	{"중계무지개", "중계동", 59, "650000000", "800000000"},
}

// SampleBatch returns the fixed fallback dataset in won. Each call returns
// fresh rows so callers may not alias one another.
func SampleBatch() listing.Batch {
	rows := make([]model.RawListing, 0, len(sampleRows))
	for _, s := range sampleRows {
		area := s.area
		rows = append(rows, model.RawListing{
			Name:   s.name,
			Dong:   s.dong,
			AreaM2: &area,
			Fields: map[string]string{
				model.ColumnPrice:     s.price,
				model.ColumnPeakPrice: s.peak,
			},
		})
	}
	return listing.Batch{Schema: listing.SchemaBaseCurrency, Rows: rows}
}
