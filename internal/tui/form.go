package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/homebudget/homebudget/internal/analysis"
	"github.com/homebudget/homebudget/internal/budget"
	"github.com/homebudget/homebudget/internal/cli"
	"github.com/homebudget/homebudget/internal/listing"
	"github.com/homebudget/homebudget/internal/model"
	"github.com/homebudget/homebudget/internal/molit"
	"github.com/homebudget/homebudget/internal/region"
)

// formValues holds the raw text bound to the input form. It lives behind a
// pointer because huh writes through the bound addresses.
type formValues struct {
	salary      string
	rate        string
	cash        string
	province    string
	district    string
	period      string
	targetName  string
	targetPrice string
}

func valuesFromRequest(req analysis.Request) *formValues {
	v := &formValues{
		salary: strconv.FormatFloat(req.Profile.Salary, 'f', -1, 64),
		rate:   strconv.FormatFloat(req.Profile.AnnualRatePct, 'f', -1, 64),
		period: req.Query.YearMonth,
	}
	cash := make([]string, len(req.Profile.CashComponents))
	for i, c := range req.Profile.CashComponents {
		cash[i] = strconv.FormatFloat(c, 'f', -1, 64)
	}
	v.cash = strings.Join(cash, " + ")

	if r, ok := region.ByCode(req.Query.RegionCode); ok {
		v.province, v.district = r.Province, r.District
	} else if provs := region.Provinces(); len(provs) > 0 {
		v.province = provs[0]
	}
	if req.Target != nil {
		v.targetName = req.Target.Name
		v.targetPrice = strconv.FormatInt(req.Target.Price, 10)
	}
	return v
}

func validateSalary(s string) error {
	v, err := cli.ParseAmount(s)
	if err != nil {
		return err
	}
	if v < 0 {
		return errors.New("salary must not be negative")
	}
	return nil
}

func validateRate(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return errors.New("enter a number such as 4.5")
	}
	if v < 0 || v > budget.MaxAnnualRatePct {
		return errors.New("rate must be between 0 and 100")
	}
	return nil
}

func validateCash(s string) error {
	vals, err := cli.ParseAmounts(s)
	if err != nil {
		return err
	}
	for _, v := range vals {
		if v < 0 {
			return errors.New("cash must not be negative")
		}
	}
	return nil
}

func validatePeriod(s string) error {
	_, err := molit.ParseYearMonth(strings.TrimSpace(s))
	return err
}

func validateOptionalAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := cli.ParseAmount(s)
	if err != nil {
		return err
	}
	if v <= 0 {
		return errors.New("target price must be positive")
	}
	return nil
}

func districtOptions(province string) []huh.Option[string] {
	districts := region.Districts(province)
	opts := make([]huh.Option[string], len(districts))
	for i, d := range districts {
		opts[i] = huh.NewOption(d.District+" ("+d.Code+")", d.District)
	}
	return opts
}

func newInputForm(v *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("homebudget").
				Description("How much home can you afford, and which recent trades fit?"),
			huh.NewInput().
				Title("Annual salary (won)").
				Description("e.g. 63,300,000 or 6330만").
				Value(&v.salary).
				Validate(validateSalary),
			huh.NewInput().
				Title("Annual interest rate (%)").
				Value(&v.rate).
				Validate(validateRate),
			huh.NewInput().
				Title("Cash on hand (won)").
				Description("Separate multiple assets with +, e.g. 2억 + 3000만").
				Value(&v.cash).
				Validate(validateCash),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Province").
				Options(huh.NewOptions(region.Provinces()...)...).
				Value(&v.province),
			huh.NewSelect[string]().
				Title("District").
				OptionsFunc(func() []huh.Option[string] { return districtOptions(v.province) }, &v.province).
				Value(&v.district),
			huh.NewInput().
				Title("Period (YYYYMM)").
				Value(&v.period).
				Validate(validatePeriod),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Target listing (optional)").
				Value(&v.targetName),
			huh.NewInput().
				Title("Target price (won, optional)").
				Value(&v.targetPrice).
				Validate(validateOptionalAmount),
		),
	).WithShowHelp(true)
}

// toRequest converts validated form text into a run request. Category and
// trade kind carry over from base.
func (v *formValues) toRequest(base analysis.Request) (analysis.Request, error) {
	salary, err := cli.ParseAmount(v.salary)
	if err != nil {
		return base, err
	}
	rate, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v.rate), "%"), 64)
	if err != nil {
		return base, err
	}
	cash, err := cli.ParseAmounts(v.cash)
	if err != nil {
		return base, err
	}
	r, ok := region.Lookup(v.province, v.district)
	if !ok {
		return base, errors.New("select a district")
	}

	req := base
	req.Profile = model.FinancialProfile{
		Salary:         salary,
		AnnualRatePct:  rate,
		TermMonths:     base.Profile.TermMonths,
		CashComponents: cash,
	}
	req.Query.RegionCode = r.Code
	req.Query.YearMonth = strings.TrimSpace(v.period)
	req.Target = nil

	if strings.TrimSpace(v.targetPrice) != "" {
		price, err := cli.ParseAmount(v.targetPrice)
		if err != nil {
			return base, err
		}
		name := strings.TrimSpace(v.targetName)
		if name == "" {
			name = "target"
		}
		req.Target = &listing.Target{Name: name, Price: int64(price)}
	}
	return req, nil
}
