// Package model defines the value types shared by the estimator, the
// classifier, and the presentation layers.
package model

// FinancialProfile is the user's input snapshot for one analysis run.
// It is passed by value; nothing holds it between runs.
type FinancialProfile struct {
	Salary         float64   `json:"salary" toml:"salary"`
	AnnualRatePct  float64   `json:"annual_rate_pct" toml:"annual_rate_pct"`
	TermMonths     int       `json:"term_months" toml:"term_months"`
	CashComponents []float64 `json:"cash_components" toml:"cash_components"`
}

// TotalCash sums every liquid-asset line item.
func (p FinancialProfile) TotalCash() float64 {
	var total float64
	for _, c := range p.CashComponents {
		total += c
	}
	return total
}

// BudgetResult is the derived affordability for a FinancialProfile.
type BudgetResult struct {
	DebtServiceRatio     float64 `json:"debt_service_ratio"`
	TermMonths           int     `json:"term_months"`
	MaxAnnualDebtService float64 `json:"max_annual_debt_service"`
	MonthlyPayment       float64 `json:"monthly_payment"`
	MaxLoanPrincipal     float64 `json:"max_loan_principal"`
	TotalCash            float64 `json:"total_cash"`
	BuyablePrice         float64 `json:"buyable_price"`
}
