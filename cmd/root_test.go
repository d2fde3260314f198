package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homebudget/homebudget/internal/config"
)

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func resetFlags(t *testing.T) {
	t.Helper()
	flagSalary, flagRate, flagCash = "", 0, nil
	flagRegion, flagPeriod = "", ""
	flagTargetName, flagTargetPrice = "", ""
	t.Cleanup(func() {
		flagSalary, flagRate, flagCash = "", 0, nil
		flagRegion, flagPeriod = "", ""
		flagTargetName, flagTargetPrice = "", ""
	})
}

func TestBuildRequest_Defaults(t *testing.T) {
	resetFlags(t)
	cfg := config.DefaultConfig()
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	req, err := buildRequest(cfg, changedSet(), now)
	require.NoError(t, err)
	assert.Equal(t, cfg.Finance.Salary, req.Profile.Salary)
	assert.Equal(t, cfg.Finance.Cash, req.Profile.CashComponents)
	assert.Equal(t, "11350", req.Query.RegionCode)
	assert.Equal(t, "202402", req.Query.YearMonth)
	assert.NoError(t, req.Query.Validate())
	assert.Nil(t, req.Target)
}

func TestBuildRequest_FlagsOverrideConfig(t *testing.T) {
	resetFlags(t)
	flagSalary = "7000만"
	flagRate = 3.5
	flagCash = []string{"2억", "3000만 + 500만"}
	flagRegion = "11680"
	flagPeriod = "202312"
	flagTargetPrice = "9억 5000만"

	req, err := buildRequest(config.DefaultConfig(),
		changedSet("salary", "rate", "cash", "region", "period", "target-price"), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 70_000_000.0, req.Profile.Salary)
	assert.Equal(t, 3.5, req.Profile.AnnualRatePct)
	assert.Equal(t, []float64{200_000_000, 30_000_000, 5_000_000}, req.Profile.CashComponents)
	assert.Equal(t, "11680", req.Query.RegionCode)
	assert.Equal(t, "202312", req.Query.YearMonth)
	require.NotNil(t, req.Target)
	assert.Equal(t, "target", req.Target.Name)
	assert.Equal(t, int64(950_000_000), req.Target.Price)
}

func TestBuildRequest_UnsetFlagsAreIgnored(t *testing.T) {
	resetFlags(t)
	flagSalary = "not a number"

	req, err := buildRequest(config.DefaultConfig(), changedSet(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Finance.Salary, req.Profile.Salary)
}

func TestBuildRequest_RejectsBadInput(t *testing.T) {
	cases := map[string]struct {
		set     func()
		changed []string
	}{
		"salary":          {func() { flagSalary = "lots" }, []string{"salary"}},
		"cash":            {func() { flagCash = []string{"-1억"} }, []string{"cash"}},
		"region":          {func() { flagRegion = "서울특별시/없는구" }, []string{"region"}},
		"period":          {func() { flagPeriod = "2024-03" }, []string{"period"}},
		"negative target": {func() { flagTargetPrice = "-5" }, []string{"target-price"}},
		"infinite target": {func() { flagTargetPrice = "Inf" }, []string{"target-price"}},
		"huge target":     {func() { flagTargetPrice = "100000000000억" }, []string{"target-price"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resetFlags(t)
			tc.set()
			_, err := buildRequest(config.DefaultConfig(), changedSet(tc.changed...), time.Now())
			assert.Error(t, err)
		})
	}
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "abcdefgh...wxyz", maskKey("abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "abcd...", maskKey("abcdefg"))
	assert.Equal(t, "****", maskKey("abc"))
}
