package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/homebudget/homebudget/internal/cli"
	"github.com/homebudget/homebudget/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Region: %s\n", cfg.General.Region)
	if cfg.General.Period != "" {
		fmt.Printf("    Period: %s\n", cfg.General.Period)
	} else {
		fmt.Println("    Period: last month")
	}
	fmt.Println()

	fmt.Println("  [Finance]")
	fmt.Printf("    Salary:        %s\n", cli.FormatWonFloat(cfg.Finance.Salary))
	fmt.Printf("    Interest rate: %s\n", cli.FormatRate(cfg.Finance.AnnualRatePct))
	cash := make([]string, len(cfg.Finance.Cash))
	for i, c := range cfg.Finance.Cash {
		cash[i] = cli.FormatWonFloat(c)
	}
	fmt.Printf("    Cash:          %s\n", strings.Join(cash, " + "))
	if cfg.Finance.TargetPrice > 0 {
		fmt.Printf("    Target:        %s %s\n", cfg.Finance.TargetName, cli.FormatWon(cfg.Finance.TargetPrice))
	}
	fmt.Println()

	policy := cfg.BudgetPolicy()
	fmt.Println("  [Policy]")
	fmt.Printf("    Debt service ratio: %.0f%%\n", policy.DebtServiceRatio*100)
	fmt.Printf("    Term:               %d months\n", policy.TermMonths)
	fmt.Println()

	fmt.Println("  [Data source]")
	if key := config.GetServiceKey(cfg); key != "" {
		fmt.Printf("    Service key: %s\n", maskKey(key))
	} else {
		fmt.Printf("    Service key: not configured (set %s or run setup)\n", config.ServiceKeyEnv)
	}
	if cfg.DataSource.BaseURL != "" {
		fmt.Printf("    Base URL:    %s\n", cfg.DataSource.BaseURL)
	}
	fmt.Printf("    Timeout:     %s\n", cfg.DataSource.Timeout())
	if ttl := cfg.DataSource.CacheTTL(); ttl > 0 {
		fmt.Printf("    Cache TTL:   %s (%s)\n", ttl, config.CachePath())
	} else {
		fmt.Println("    Cache:       disabled")
	}
	fmt.Printf("    Fallback:    %s\n", cfg.DataSource.Fallback)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Pretty: %v\n", cfg.Log.Pretty)
	fmt.Println()

	fmt.Println("  Run `homebudget setup` to reconfigure.")
	return nil
}

func maskKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
