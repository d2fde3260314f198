package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homebudget/homebudget/internal/config"
	"github.com/homebudget/homebudget/internal/tui/theme"
)

func TestSetupValues_RoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataSource.ServiceKey = "existing-key"
	cfg.Finance.TargetName = "휘경SK뷰"
	cfg.Finance.TargetPrice = 950_000_000

	v := setupFromConfig(cfg)
	assert.Equal(t, "서울특별시", v.province)
	assert.Equal(t, "노원구", v.district)
	assert.Empty(t, v.serviceKey)

	got, err := v.apply(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestSetupValues_ApplyEdits(t *testing.T) {
	cfg := config.DefaultConfig()
	v := setupFromConfig(cfg)
	v.serviceKey = "  new-key  "
	v.salary = "7000만"
	v.rate = "3.9%"
	v.cash = "2억 + 3000만"
	v.district = "강남구"
	v.targetName = ""
	v.targetPrice = ""
	v.fallback = "empty"
	v.theme = "tokyo-night"
	v.logLevel = "debug"

	got, err := v.apply(cfg)
	require.NoError(t, err)
	assert.Equal(t, "new-key", got.DataSource.ServiceKey)
	assert.Equal(t, 70_000_000.0, got.Finance.Salary)
	assert.Equal(t, 3.9, got.Finance.AnnualRatePct)
	assert.Equal(t, []float64{200_000_000, 30_000_000}, got.Finance.Cash)
	assert.Equal(t, "서울특별시/강남구", got.General.Region)
	assert.Zero(t, got.Finance.TargetPrice)
	assert.Equal(t, "empty", got.DataSource.Fallback)
	assert.Equal(t, "tokyo-night", got.Appearance.Theme)
	assert.Equal(t, "debug", got.Log.Level)
}

func TestSetupValues_ApplyRejectsUnknownDistrict(t *testing.T) {
	v := setupFromConfig(config.DefaultConfig())
	v.district = "없는구"
	_, err := v.apply(config.DefaultConfig())
	assert.Error(t, err)
}

func TestSetupThemeChoicesCoverDefault(t *testing.T) {
	names := theme.Names()
	assert.Len(t, names, len(theme.All))
	assert.Contains(t, names, config.DefaultConfig().Appearance.Theme)
}
