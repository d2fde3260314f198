// Package listing normalizes property listings to a single won price and
// classifies them against a buyable price.
package listing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/homebudget/homebudget/internal/model"
)

// Schema declares which price column and unit a batch uses.
type Schema int

const (
	// SchemaBaseCurrency carries prices in won under model.ColumnPrice.
	SchemaBaseCurrency Schema = iota + 1
	// SchemaTenThousand carries prices in 10,000-won units under
	// model.ColumnDealAmount.
	SchemaTenThousand
)

// TenThousand is the multiplier for SchemaTenThousand prices.
const TenThousand = 10_000

var (
	// ErrAmbiguousSchema is returned when a column set matches zero or both
	// price schemas.
	ErrAmbiguousSchema = errors.New("listing: cannot determine price schema")
	// ErrUnparseablePrice marks price text that is not an integer amount.
	ErrUnparseablePrice = errors.New("listing: unparseable price")
	// ErrNegativePrice marks a parsed price below zero.
	ErrNegativePrice = errors.New("listing: negative price")
	// ErrPriceOverflow marks a price too large to hold in won.
	ErrPriceOverflow = errors.New("listing: price out of range")
)

// Column returns the price column name the schema reads.
func (s Schema) Column() string {
	switch s {
	case SchemaBaseCurrency:
		return model.ColumnPrice
	case SchemaTenThousand:
		return model.ColumnDealAmount
	default:
		return ""
	}
}

// Scale returns the multiplier that converts a schema price to won.
func (s Schema) Scale() int64 {
	if s == SchemaTenThousand {
		return TenThousand
	}
	return 1
}

func (s Schema) String() string {
	switch s {
	case SchemaBaseCurrency:
		return "won"
	case SchemaTenThousand:
		return "10k-won"
	default:
		return "unknown"
	}
}

// DetectSchema picks a schema from the column names present in a batch.
// Exactly one of the two price columns must be present.
func DetectSchema(columns []string) (Schema, error) {
	var hasPrice, hasDeal bool
	for _, c := range columns {
		switch c {
		case model.ColumnPrice:
			hasPrice = true
		case model.ColumnDealAmount:
			hasDeal = true
		}
	}
	switch {
	case hasPrice && !hasDeal:
		return SchemaBaseCurrency, nil
	case hasDeal && !hasPrice:
		return SchemaTenThousand, nil
	default:
		return 0, fmt.Errorf("%w: columns %v", ErrAmbiguousSchema, columns)
	}
}

// Batch is an ordered set of raw listings sharing one declared schema.
type Batch struct {
	Schema Schema
	Rows   []model.RawListing
}

// Columns returns the union of field names across the batch, in first-seen
// order.
func (b Batch) Columns() []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, r := range b.Rows {
		for k := range r.Fields {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}

// ParsePrice parses integer price text, tolerating surrounding whitespace
// and comma thousands separators.
func ParsePrice(text string) (int64, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty", ErrUnparseablePrice)
	}
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseablePrice, text)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNegativePrice, text)
	}
	return v, nil
}

// Normalize converts one raw row to a Listing in won.
func Normalize(row model.RawListing, schema Schema) (model.Listing, error) {
	col := schema.Column()
	if col == "" {
		return model.Listing{}, ErrAmbiguousSchema
	}

	text, ok := row.Fields[col]
	if !ok {
		return model.Listing{}, fmt.Errorf("%w: missing %s", ErrUnparseablePrice, col)
	}
	price, err := ParsePrice(text)
	if err != nil {
		return model.Listing{}, err
	}
	price, err = scale(price, schema)
	if err != nil {
		return model.Listing{}, fmt.Errorf("%w: %q", err, text)
	}

	l := model.Listing{
		Name:     row.Name,
		Dong:     row.Dong,
		AreaM2:   row.AreaM2,
		Floor:    row.Floor,
		DealDate: row.DealDate,
		Price:    price,
	}

	// An unreadable peak only drops the discount, never the listing.
	if peakText, ok := row.Fields[model.ColumnPeakPrice]; ok {
		if peak, err := ParsePrice(peakText); err == nil {
			if scaled, err := scale(peak, schema); err == nil {
				l.PeakPrice = &scaled
			}
		}
	}
	return l, nil
}

// scale converts a non-negative amount in schema units to won.
func scale(v int64, schema Schema) (int64, error) {
	if v > math.MaxInt64/schema.Scale() {
		return 0, ErrPriceOverflow
	}
	return v * schema.Scale(), nil
}
