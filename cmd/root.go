// Package cmd implements the homebudget CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/homebudget/homebudget/internal/analysis"
	"github.com/homebudget/homebudget/internal/budget"
	"github.com/homebudget/homebudget/internal/cli"
	"github.com/homebudget/homebudget/internal/config"
	"github.com/homebudget/homebudget/internal/listing"
	"github.com/homebudget/homebudget/internal/logging"
	"github.com/homebudget/homebudget/internal/molit"
	"github.com/homebudget/homebudget/internal/region"
	"github.com/homebudget/homebudget/internal/source"
	"github.com/homebudget/homebudget/internal/store"
)

var (
	flagSalary      string
	flagRate        float64
	flagCash        []string
	flagRegion      string
	flagPeriod      string
	flagTargetName  string
	flagTargetPrice string
	flagNoCache     bool
	flagOffline     bool
	flagQuiet       bool
	flagLogLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "homebudget",
	Short: "Home purchase budget estimator",
	Long: "Estimate how much home you can afford from salary, interest rate, and cash,\n" +
		"then check recent apartment trades in a district against that budget.",
	RunE: runAnalyze,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagSalary, "salary", "", "Annual salary in won (e.g. 63300000 or 6330만)")
	pf.Float64Var(&flagRate, "rate", 0, "Annual interest rate in percent")
	pf.StringArrayVar(&flagCash, "cash", nil, "Liquid asset amount in won (repeatable)")
	pf.StringVar(&flagRegion, "region", "", `District as "province/district" or a 5-digit code`)
	pf.StringVar(&flagPeriod, "period", "", "Trade month as YYYYMM (default: last month)")
	pf.StringVar(&flagTargetName, "target-name", "", "Name of the listing you are aiming for")
	pf.StringVar(&flagTargetPrice, "target-price", "", "Price of the listing you are aiming for")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite lookup cache")
	pf.BoolVar(&flagOffline, "offline", false, "Skip the live lookup and use sample listings")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress warnings and progress output")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error, disabled")
}

// loadConfig reads .env and the config file and builds the logger.
func loadConfig() (config.Config, zerolog.Logger, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	cfg, err := config.Load()
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	log := logging.New(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	return cfg, log, nil
}

// buildRequest starts from the configured defaults and applies every flag
// the user set.
func buildRequest(cfg config.Config, changed func(string) bool, now time.Time) (analysis.Request, error) {
	req := analysis.Request{
		Profile: cfg.Profile(),
		Query: molit.Query{
			Category:  molit.CategoryApartment,
			TradeKind: molit.TradeSale,
		},
	}
	req.Profile.TermMonths = cfg.Policy.TermMonths

	if changed("salary") {
		v, err := cli.ParseAmount(flagSalary)
		if err != nil {
			return req, fmt.Errorf("--salary: %w", err)
		}
		req.Profile.Salary = v
	}
	if changed("rate") {
		req.Profile.AnnualRatePct = flagRate
	}
	if changed("cash") {
		req.Profile.CashComponents = nil
		for _, c := range flagCash {
			vals, err := cli.ParseAmounts(c)
			if err != nil {
				return req, fmt.Errorf("--cash %q: %w", c, err)
			}
			req.Profile.CashComponents = append(req.Profile.CashComponents, vals...)
		}
	}

	sel := cfg.General.Region
	if changed("region") {
		sel = flagRegion
	}
	r, err := region.Parse(sel)
	if err != nil {
		return req, err
	}
	req.Query.RegionCode = r.Code

	period := cfg.General.Period
	if changed("period") {
		period = flagPeriod
	}
	if period == "" {
		period = molit.PreviousMonth(now)
	}
	if _, err := molit.ParseYearMonth(period); err != nil {
		return req, err
	}
	req.Query.YearMonth = period

	name, price := cfg.Finance.TargetName, cfg.Finance.TargetPrice
	if changed("target-name") {
		name = flagTargetName
	}
	if changed("target-price") {
		v, err := cli.ParseAmount(flagTargetPrice)
		if err != nil {
			return req, fmt.Errorf("--target-price: %w", err)
		}
		if v >= budget.MaxBuyablePrice {
			return req, fmt.Errorf("--target-price: %q is out of range", flagTargetPrice)
		}
		price = int64(v)
	}
	if price > 0 {
		if strings.TrimSpace(name) == "" {
			name = "target"
		}
		req.Target = &listing.Target{Name: name, Price: price}
	}
	return req, nil
}

// wiring holds the components built from config for one command.
type wiring struct {
	runner   *analysis.Runner
	provider *source.Provider
	cache    *store.Cache // nil when caching is off or unavailable
}

func (w wiring) Close() {
	if w.cache != nil {
		_ = w.cache.Close()
	}
}

// newWiring connects the lookup client, cache, and fallback policy to a
// Runner.
func newWiring(cfg config.Config, log zerolog.Logger) wiring {
	var w wiring

	var fetcher source.Fetcher
	if key := config.GetServiceKey(cfg); key != "" {
		opts := []molit.Option{
			molit.WithTimeout(cfg.DataSource.Timeout()),
			molit.WithLogger(log),
		}
		if cfg.DataSource.BaseURL != "" {
			opts = append(opts, molit.WithBaseURL(cfg.DataSource.BaseURL))
		}
		fetcher = molit.NewClient(key, opts...)
	}

	opts := []source.Option{
		source.WithFallback(source.Fallback(cfg.DataSource.Fallback)),
		source.WithOffline(flagOffline),
	}
	if ttl := cfg.DataSource.CacheTTL(); !flagNoCache && !flagOffline && ttl > 0 {
		cache, err := store.Open(config.CachePath(), ttl)
		if err != nil {
			log.Warn().Err(err).Msg("lookup cache unavailable")
		} else {
			w.cache = cache
			opts = append(opts, source.WithCache(cache))
		}
	}

	w.provider = source.NewProvider(fetcher, log, opts...)
	w.runner = analysis.NewRunner(cfg.BudgetPolicy(), w.provider, log)
	return w
}

// prepare is the shared setup path for commands that run analyses.
func prepare(cmd *cobra.Command) (config.Config, analysis.Request, zerolog.Logger, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return cfg, analysis.Request{}, log, err
	}
	req, err := buildRequest(cfg, cmd.Flags().Changed, time.Now())
	return cfg, req, log, err
}

func warn(msg string) {
	if flagQuiet || msg == "" {
		return
	}
	fmt.Fprintln(os.Stderr, cli.RenderWarning(msg))
}
