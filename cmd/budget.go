package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homebudget/homebudget/internal/budget"
	"github.com/homebudget/homebudget/internal/cli"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Estimate the buyable price only",
	RunE:  runBudget,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(cmd *cobra.Command, _ []string) error {
	cfg, req, _, err := prepare(cmd)
	if err != nil {
		return err
	}

	res, err := budget.Estimate(req.Profile, cfg.BudgetPolicy())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("HOME BUDGET"))
	fmt.Println()
	fmt.Print(cli.RenderKV([][2]string{
		{"Salary", cli.FormatWonFloat(req.Profile.Salary)},
		{"Interest rate", cli.FormatRate(req.Profile.AnnualRatePct)},
	}))
	fmt.Println()
	printBudget(res)
	return nil
}
