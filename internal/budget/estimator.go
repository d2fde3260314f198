// Package budget converts salary, interest rate, and cash into the maximum
// purchase price a buyer can afford.
package budget

import (
	"fmt"
	"math"

	"github.com/homebudget/homebudget/internal/model"
)

// EstimateBudget returns the buyable price under the default debt-service
// ratio for the given term.
func EstimateBudget(salary, annualRatePct float64, termMonths int, totalCash float64) (float64, error) {
	policy := DefaultPolicy()
	policy.TermMonths = termMonths

	res, err := estimate(salary, annualRatePct, totalCash, policy)
	if err != nil {
		return 0, err
	}
	return res.BuyablePrice, nil
}

// Estimate computes the full BudgetResult for a profile. A non-zero
// profile.TermMonths overrides the policy term.
func Estimate(p model.FinancialProfile, policy Policy) (model.BudgetResult, error) {
	if p.TermMonths != 0 {
		policy.TermMonths = p.TermMonths
	}
	for i, c := range p.CashComponents {
		if c < 0 || math.IsNaN(c) {
			return model.BudgetResult{}, &ValidationError{
				Field:  fmt.Sprintf("cash[%d]", i),
				Reason: "must be a non-negative amount",
			}
		}
	}
	return estimate(p.Salary, p.AnnualRatePct, p.TotalCash(), policy)
}

func estimate(salary, annualRatePct, totalCash float64, policy Policy) (model.BudgetResult, error) {
	if salary < 0 || math.IsNaN(salary) || math.IsInf(salary, 0) {
		return model.BudgetResult{}, &ValidationError{Field: "salary", Reason: "must be a non-negative amount"}
	}
	if totalCash < 0 || math.IsNaN(totalCash) || math.IsInf(totalCash, 0) {
		return model.BudgetResult{}, &ValidationError{Field: "cash", Reason: "must be a non-negative amount"}
	}
	if annualRatePct < 0 || annualRatePct > MaxAnnualRatePct || math.IsNaN(annualRatePct) {
		return model.BudgetResult{}, &ValidationError{
			Field:  "interest_rate",
			Reason: fmt.Sprintf("must be between 0 and %.0f percent", MaxAnnualRatePct),
		}
	}
	if err := policy.Validate(); err != nil {
		return model.BudgetResult{}, err
	}

	maxAnnual := salary * policy.DebtServiceRatio
	monthly := maxAnnual / 12
	principal := LoanPrincipal(monthly, annualRatePct, policy.TermMonths)
	buyable := principal + totalCash
	if math.IsNaN(buyable) || math.IsInf(buyable, 0) || buyable >= MaxBuyablePrice {
		return model.BudgetResult{}, &ValidationError{
			Field:  "budget",
			Reason: "salary and cash are too large to estimate",
		}
	}

	return model.BudgetResult{
		DebtServiceRatio:     policy.DebtServiceRatio,
		TermMonths:           policy.TermMonths,
		MaxAnnualDebtService: maxAnnual,
		MonthlyPayment:       monthly,
		MaxLoanPrincipal:     principal,
		TotalCash:            totalCash,
		BuyablePrice:         buyable,
	}, nil
}

// LoanPrincipal inverts the fixed-rate amortization formula: the principal
// that a monthly payment retires over n months at the given annual rate.
// A zero rate degenerates to payment * n, which also bounds every positive
// rate from above.
func LoanPrincipal(monthlyPayment, annualRatePct float64, n int) float64 {
	r := annualRatePct / 100 / 12
	flat := monthlyPayment * float64(n)
	if r == 0 {
		return flat
	}
	// (1+r)^n - 1 via Expm1/Log1p keeps precision when r is tiny.
	x := float64(n) * math.Log1p(r)
	return min(monthlyPayment*math.Expm1(x)/(r*math.Exp(x)), flat)
}
