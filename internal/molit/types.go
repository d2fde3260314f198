package molit

import (
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

// Category is the property category of a lookup.
type Category string

// TradeKind is the transaction category of a lookup.
type TradeKind string

const (
	CategoryApartment Category = "apartment"
	CategoryOfficetel Category = "officetel"

	TradeSale TradeKind = "sale"
	TradeRent TradeKind = "rent"
)

// Query scopes one lookup.
type Query struct {
	Category   Category  `json:"category"`
	TradeKind  TradeKind `json:"trade_kind"`
	RegionCode string    `json:"region_code"`
	YearMonth  string    `json:"year_month"`
}

// ParseYearMonth parses a YYYYMM period into the first day of that month.
func ParseYearMonth(s string) (civil.Date, error) {
	if len(s) != 6 || !allDigits(s) {
		return civil.Date{}, fmt.Errorf("molit: period %q is not YYYYMM", s)
	}
	year, _ := strconv.Atoi(s[:4])
	month, _ := strconv.Atoi(s[4:])
	if month < 1 || month > 12 {
		return civil.Date{}, fmt.Errorf("molit: period %q has invalid month", s)
	}
	return civil.Date{Year: year, Month: time.Month(month), Day: 1}, nil
}

// FormatYearMonth renders a date as YYYYMM.
func FormatYearMonth(d civil.Date) string {
	return fmt.Sprintf("%04d%02d", d.Year, int(d.Month))
}

// PreviousMonth returns the YYYYMM of the month before now; the service
// publishes a month's trades with a lag.
func PreviousMonth(now time.Time) string {
	d := civil.DateOf(now)
	d.Day = 1
	return FormatYearMonth(d.AddDays(-1))
}

// Validate checks the query is one the client can send.
func (q Query) Validate() error {
	if q.Category != CategoryApartment || q.TradeKind != TradeSale {
		return fmt.Errorf("%w: %s/%s", ErrUnsupported, q.Category, q.TradeKind)
	}
	if len(q.RegionCode) != 5 || !allDigits(q.RegionCode) {
		return fmt.Errorf("molit: region code %q must have 5 digits", q.RegionCode)
	}
	_, err := ParseYearMonth(q.YearMonth)
	return err
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
