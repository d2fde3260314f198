package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/homebudget/homebudget/internal/cli"
	"github.com/homebudget/homebudget/internal/config"
	"github.com/homebudget/homebudget/internal/region"
	"github.com/homebudget/homebudget/internal/source"
	"github.com/homebudget/homebudget/internal/tui/theme"
)

// ErrSetupAborted is returned when the user leaves the wizard.
var ErrSetupAborted = errors.New("setup aborted")

type setupValues struct {
	formValues
	serviceKey string
	fallback   string
	theme      string
	logLevel   string
}

func setupFromConfig(cfg config.Config) *setupValues {
	v := &setupValues{
		fallback: cfg.DataSource.Fallback,
		theme:    cfg.Appearance.Theme,
		logLevel: cfg.Log.Level,
	}
	v.salary = strconv.FormatFloat(cfg.Finance.Salary, 'f', -1, 64)
	v.rate = strconv.FormatFloat(cfg.Finance.AnnualRatePct, 'f', -1, 64)
	cash := make([]string, len(cfg.Finance.Cash))
	for i, c := range cfg.Finance.Cash {
		cash[i] = strconv.FormatFloat(c, 'f', -1, 64)
	}
	v.cash = strings.Join(cash, " + ")
	if r, err := region.Parse(cfg.General.Region); err == nil {
		v.province, v.district = r.Province, r.District
	} else if provs := region.Provinces(); len(provs) > 0 {
		v.province = provs[0]
	}
	v.targetName = cfg.Finance.TargetName
	if cfg.Finance.TargetPrice > 0 {
		v.targetPrice = strconv.FormatInt(cfg.Finance.TargetPrice, 10)
	}
	return v
}

// apply writes validated wizard input onto cfg. An empty service key
// keeps the existing one.
func (v *setupValues) apply(cfg config.Config) (config.Config, error) {
	salary, err := cli.ParseAmount(v.salary)
	if err != nil {
		return cfg, fmt.Errorf("salary: %w", err)
	}
	rate, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v.rate), "%"), 64)
	if err != nil {
		return cfg, fmt.Errorf("interest rate: %w", err)
	}
	cash, err := cli.ParseAmounts(v.cash)
	if err != nil {
		return cfg, fmt.Errorf("cash: %w", err)
	}
	r, ok := region.Lookup(v.province, v.district)
	if !ok {
		return cfg, errors.New("select a district")
	}

	cfg.Finance.Salary = salary
	cfg.Finance.AnnualRatePct = rate
	cfg.Finance.Cash = cash
	cfg.General.Region = r.Province + "/" + r.District
	cfg.Finance.TargetName = strings.TrimSpace(v.targetName)
	cfg.Finance.TargetPrice = 0
	if strings.TrimSpace(v.targetPrice) != "" {
		price, err := cli.ParseAmount(v.targetPrice)
		if err != nil {
			return cfg, fmt.Errorf("target price: %w", err)
		}
		cfg.Finance.TargetPrice = int64(price)
	}

	if key := strings.TrimSpace(v.serviceKey); key != "" {
		cfg.DataSource.ServiceKey = key
	}
	cfg.DataSource.Fallback = v.fallback
	cfg.Appearance.Theme = v.theme
	cfg.Log.Level = v.logLevel
	return cfg, nil
}

func newSetupForm(v *setupValues, hasKey bool) *huh.Form {
	keyDesc := "From the public data portal. Leave empty to use sample listings."
	if hasKey {
		keyDesc = "A key is configured. Leave empty to keep it."
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to homebudget").
				Description("These answers become the defaults for every command."),
			huh.NewInput().
				Title("Transaction service key").
				Description(keyDesc).
				EchoMode(huh.EchoModePassword).
				Value(&v.serviceKey),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Annual salary (won)").
				Value(&v.salary).
				Validate(validateSalary),
			huh.NewInput().
				Title("Annual interest rate (%)").
				Value(&v.rate).
				Validate(validateRate),
			huh.NewInput().
				Title("Cash on hand (won)").
				Description("Separate multiple assets with +").
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
				Title("Target listing (optional)").
				Value(&v.targetName),
			huh.NewInput().
				Title("Target price (won, optional)").
				Value(&v.targetPrice).
				Validate(validateOptionalAmount),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("When the lookup fails").
				Options(
					huh.NewOption("Show sample listings", string(source.FallbackSample)),
					huh.NewOption("Show nothing", string(source.FallbackEmpty)),
				).
				Value(&v.fallback),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.theme),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error", "disabled")...).
				Value(&v.logLevel),
		),
	).WithShowHelp(true)
}

// RunSetup runs the setup wizard and returns the updated config. It does
// not save.
func RunSetup(cfg config.Config) (config.Config, error) {
	v := setupFromConfig(cfg)
	form := newSetupForm(v, config.GetServiceKey(cfg) != "")
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return cfg, ErrSetupAborted
		}
		return cfg, err
	}
	return v.apply(cfg)
}
