package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homebudget/homebudget/internal/budget"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, Exists())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Finance.Salary = 80_000_000
	cfg.Finance.Cash = []float64{150_000_000, 50_000_000}
	cfg.Policy.DebtServiceRatio = 0.5
	cfg.DataSource.ServiceKey = "from-file"
	require.NoError(t, Save(cfg))
	require.True(t, Exists())

	info, err := os.Stat(Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, os.MkdirAll(Dir(), 0o755))
	require.NoError(t, os.WriteFile(Path(), []byte("[finance]\nsalary = 90000000\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90_000_000.0, cfg.Finance.Salary)
	assert.Equal(t, 4.5, cfg.Finance.AnnualRatePct)
	assert.Equal(t, budget.DefaultPolicy(), cfg.BudgetPolicy())
}

func TestLoad_InvalidToml(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, os.MkdirAll(Dir(), 0o755))
	require.NoError(t, os.WriteFile(Path(), []byte("[finance\n"), 0o600))

	_, err := Load()
	assert.Error(t, err)
}

func TestGetServiceKey_EnvWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataSource.ServiceKey = "from-file"

	t.Setenv(ServiceKeyEnv, "")
	assert.Equal(t, "from-file", GetServiceKey(cfg))

	t.Setenv(ServiceKeyEnv, "from-env")
	assert.Equal(t, "from-env", GetServiceKey(cfg))
}

func TestBudgetPolicy_Overrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy = PolicyConfig{DebtServiceRatio: 0.5}

	p := cfg.BudgetPolicy()
	assert.Equal(t, 0.5, p.DebtServiceRatio)
	assert.Equal(t, budget.DefaultTermMonths, p.TermMonths)
}

func TestProfile_CopiesCash(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.Profile()
	p.CashComponents[0] = 1

	assert.Equal(t, 200_000_000.0, cfg.Finance.Cash[0])
	assert.Equal(t, 200_000_000.0, cfg.Profile().TotalCash())
	assert.Equal(t, 63_300_000.0, p.Salary)
}

func TestDataSourceDurations(t *testing.T) {
	d := DataSourceConfig{}
	assert.Equal(t, 10*time.Second, d.Timeout())
	assert.Equal(t, time.Duration(0), d.CacheTTL())

	d = DataSourceConfig{TimeoutSec: 3, CacheTTLMin: 90}
	assert.Equal(t, 3*time.Second, d.Timeout())
	assert.Equal(t, 90*time.Minute, d.CacheTTL())
}
