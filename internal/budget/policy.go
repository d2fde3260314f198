package budget

import "fmt"

// Lending policy defaults. Both have changed between revisions of the
// dashboard; they are named here and overridable through config.
const (
	// DefaultDebtServiceRatio caps annual loan repayment as a share of salary.
	DefaultDebtServiceRatio = 0.40
	// DefaultTermMonths is a 30-year amortization.
	DefaultTermMonths = 360

	// MaxAnnualRatePct bounds the accepted interest rate input.
	MaxAnnualRatePct = 100.0
	// MaxTermMonths bounds the accepted loan term (50 years).
	MaxTermMonths = 600

	// MaxBuyablePrice is the first price that no longer fits an int64 won
	// amount. Estimates at or above it are rejected.
	MaxBuyablePrice float64 = 1 << 63
)

// Policy holds the lending rules applied to every estimate.
type Policy struct {
	DebtServiceRatio float64
	TermMonths       int
}

// DefaultPolicy returns the built-in lending rules.
func DefaultPolicy() Policy {
	return Policy{
		DebtServiceRatio: DefaultDebtServiceRatio,
		TermMonths:       DefaultTermMonths,
	}
}

// Validate checks the policy is usable.
func (p Policy) Validate() error {
	if p.DebtServiceRatio <= 0 || p.DebtServiceRatio > 1 {
		return &ValidationError{Field: "debt_service_ratio", Reason: fmt.Sprintf("must be in (0, 1], got %v", p.DebtServiceRatio)}
	}
	if p.TermMonths <= 0 || p.TermMonths > MaxTermMonths {
		return &ValidationError{Field: "term_months", Reason: fmt.Sprintf("must be in [1, %d], got %d", MaxTermMonths, p.TermMonths)}
	}
	return nil
}
