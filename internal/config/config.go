// Package config loads and saves the homebudget TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/homebudget/homebudget/internal/budget"
	"github.com/homebudget/homebudget/internal/model"
)

// ServiceKeyEnv overrides the configured service key.
const ServiceKeyEnv = "HOMEBUDGET_SERVICE_KEY"

// Config holds all homebudget configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Finance    FinanceConfig    `toml:"finance"`
	Policy     PolicyConfig     `toml:"policy"`
	DataSource DataSourceConfig `toml:"data_source"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds the default lookup selection.
type GeneralConfig struct {
	Region string `toml:"region"`
	Period string `toml:"period,omitempty"`
}

// FinanceConfig holds the default financial profile.
type FinanceConfig struct {
	Salary        float64   `toml:"salary"`
	AnnualRatePct float64   `toml:"annual_rate_pct"`
	Cash          []float64 `toml:"cash"`
	TargetName    string    `toml:"target_name,omitempty"`
	TargetPrice   int64     `toml:"target_price,omitempty"`
}

// PolicyConfig holds the lending policy constants.
type PolicyConfig struct {
	DebtServiceRatio float64 `toml:"debt_service_ratio"`
	TermMonths       int     `toml:"term_months"`
}

// DataSourceConfig holds transaction lookup settings.
type DataSourceConfig struct {
	ServiceKey  string `toml:"service_key,omitempty"`
	BaseURL     string `toml:"base_url,omitempty"`
	TimeoutSec  int    `toml:"timeout_sec"`
	CacheTTLMin int    `toml:"cache_ttl_min"`
	Fallback    string `toml:"fallback"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Region: "서울특별시/노원구",
		},
		Finance: FinanceConfig{
			Salary:        63_300_000,
			AnnualRatePct: 4.5,
			Cash:          []float64{200_000_000},
		},
		Policy: PolicyConfig{
			DebtServiceRatio: budget.DefaultDebtServiceRatio,
			TermMonths:       budget.DefaultTermMonths,
		},
		DataSource: DataSourceConfig{
			TimeoutSec:  10,
			CacheTTLMin: 720,
			Fallback:    "sample",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level:  "warn",
			Pretty: true,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "homebudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "homebudget")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CachePath returns the location of the lookup cache database.
func CachePath() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "homebudget", "trades.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "homebudget", "trades.db")
}

// LoadDotEnv loads a .env file from the working directory if present.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// GetServiceKey returns the service key from env var or config, in that order.
func GetServiceKey(cfg Config) string {
	if key := os.Getenv(ServiceKeyEnv); key != "" {
		return key
	}
	return cfg.DataSource.ServiceKey
}

// BudgetPolicy converts the [policy] section, filling zero values with
// the defaults.
func (c Config) BudgetPolicy() budget.Policy {
	p := budget.DefaultPolicy()
	if c.Policy.DebtServiceRatio != 0 {
		p.DebtServiceRatio = c.Policy.DebtServiceRatio
	}
	if c.Policy.TermMonths != 0 {
		p.TermMonths = c.Policy.TermMonths
	}
	return p
}

// Profile returns the configured financial profile.
func (c Config) Profile() model.FinancialProfile {
	cash := make([]float64, len(c.Finance.Cash))
	copy(cash, c.Finance.Cash)
	return model.FinancialProfile{
		Salary:         c.Finance.Salary,
		AnnualRatePct:  c.Finance.AnnualRatePct,
		CashComponents: cash,
	}
}

// Timeout returns the lookup timeout.
func (d DataSourceConfig) Timeout() time.Duration {
	if d.TimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(d.TimeoutSec) * time.Second
}

// CacheTTL returns how long cached lookups stay fresh. Zero disables the cache.
func (d DataSourceConfig) CacheTTL() time.Duration {
	if d.CacheTTLMin < 0 {
		return 0
	}
	return time.Duration(d.CacheTTLMin) * time.Minute
}
