package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/homebudget/homebudget/internal/analysis"
	"github.com/homebudget/homebudget/internal/cli"
	"github.com/homebudget/homebudget/internal/model"
)

var (
	flagJSON    bool
	flagCompare bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Estimate the budget and classify recent trades (default)",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the report as JSON")
	analyzeCmd.Flags().BoolVar(&flagCompare, "compare", false, "Also compare every district of the same province")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, req, log, err := prepare(cmd)
	if err != nil {
		return err
	}
	w := newWiring(cfg, log)
	defer w.Close()
	runner := w.runner

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if !flagQuiet && !flagJSON {
		fmt.Fprintf(os.Stderr, "  Looking up trades for %s...\n", req.Query.YearMonth)
	}

	rep, err := runner.Run(ctx, req)
	if err != nil {
		return err
	}

	var compare []analysis.RegionStat
	if flagCompare {
		compare, err = runner.Compare(ctx, req, analysis.Neighbours(req.Query.RegionCode))
		if err != nil {
			return err
		}
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if compare != nil {
			return enc.Encode(struct {
				analysis.Report
				Compare []analysis.RegionStat `json:"compare"`
			}{rep, compare})
		}
		return enc.Encode(rep)
	}

	printReport(rep)
	if compare != nil {
		printCompare(compare, req.Query.RegionCode)
	}
	warn(rep.Warning)
	return nil
}

func printReport(rep analysis.Report) {
	place := rep.Query.RegionCode
	if rep.Region != nil {
		place = rep.Region.Label()
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("HOME BUDGET  %s  %s", place, rep.Query.YearMonth)))
	fmt.Println()
	printBudget(rep.Budget)

	if rep.Target != nil {
		verdict := "within budget"
		if !rep.Target.Affordable {
			verdict = "over budget"
		}
		fmt.Print(cli.RenderKV([][2]string{
			{"Target", rep.Target.Name + "  " + cli.FormatWon(rep.Target.Price)},
			{"Gap", cli.FormatSignedWon(rep.Target.Gap) + "  (" + verdict + ")"},
		}))
		fmt.Println()
	}

	sum := rep.Result.Summary
	if sum.NoData {
		fmt.Println("  " + cli.RenderMuted(cli.FormatNoTrades(sum.Excluded)))
		fmt.Println("  " + cli.RenderMuted("Source: "+string(rep.Origin)))
		fmt.Println()
		return
	}

	fmt.Println(cli.RenderTable(listingTable(rep.Result.Listings)))
	fmt.Println()

	if bars := priceBars(rep.Result.Listings); len(bars) > 0 {
		fmt.Print(cli.RenderBarChart("Price vs budget", bars, 30))
		fmt.Println()
	}

	fmt.Print(cli.RenderKV([][2]string{
		{"Listings", cli.FormatNumber(int64(sum.Total))},
		{"Within budget", fmt.Sprintf("%d (%s)", sum.WithinBudget, cli.FormatPercent(sum.WithinPct))},
		{"Mean price", cli.FormatWonFloat(sum.MeanPrice)},
		{"Median price", cli.FormatWonFloat(sum.MedianPrice)},
		{"Excluded rows", cli.FormatNumber(int64(sum.Excluded))},
		{"Source", string(rep.Origin)},
	}))
	fmt.Println()

	if len(rep.ByDong) > 1 {
		rows := make([][]string, 0, len(rep.ByDong))
		for _, d := range rep.ByDong {
			rows = append(rows, []string{
				d.Dong,
				cli.FormatNumber(int64(d.Listings)),
				cli.FormatNumber(int64(d.WithinBudget)),
				cli.FormatWon(d.MinPrice),
				cli.FormatWonFloat(d.MeanPrice),
			})
		}
		fmt.Println(cli.RenderTable(cli.Table{
			Title:   "By neighbourhood",
			Headers: []string{"Dong", "Trades", "Within", "Lowest", "Mean"},
			Rows:    rows,
		}))
		fmt.Println()
	}
}

func printBudget(b model.BudgetResult) {
	fmt.Print(cli.RenderKV([][2]string{
		{"Buyable price", cli.FormatWonFloat(b.BuyablePrice) + "  (" + cli.FormatEok(b.BuyablePrice) + ")"},
		{"Max loan", cli.FormatWonFloat(b.MaxLoanPrincipal)},
		{"Total cash", cli.FormatWonFloat(b.TotalCash)},
		{"Monthly payment", cli.FormatWonFloat(b.MonthlyPayment)},
		{"Annual repayment", cli.FormatWonFloat(b.MaxAnnualDebtService)},
		{"Policy", fmt.Sprintf("DSR %.0f%%, %d months", b.DebtServiceRatio*100, b.TermMonths)},
	}))
	fmt.Println()
}

func listingTable(listings []model.ClassifiedListing) cli.Table {
	t := cli.Table{
		Headers: []string{"Name", "Dong", "Area", "Floor", "Deal date", "Price", "Discount", "Gap"},
	}
	for _, l := range listings {
		floor := "-"
		if l.Floor != nil {
			floor = fmt.Sprintf("%d", *l.Floor)
		}
		date := "-"
		if l.DealDate != nil {
			date = l.DealDate.String()
		}
		t.Rows = append(t.Rows, []string{
			l.Name,
			l.Dong,
			cli.FormatArea(l.AreaM2),
			floor,
			date,
			cli.FormatWon(l.Price),
			cli.FormatPercent(l.DiscountPct),
			cli.FormatSignedWon(l.GapToBudget),
		})
		t.Highlight = append(t.Highlight, l.WithinBudget)
	}
	return t
}

func priceBars(listings []model.ClassifiedListing) []cli.Bar {
	bars := make([]cli.Bar, 0, len(listings))
	for _, l := range listings {
		display := cli.FormatEok(float64(l.Price))
		if l.DiscountPct != nil {
			display += fmt.Sprintf("  %.1f%% off peak", *l.DiscountPct)
		}
		bars = append(bars, cli.Bar{
			Label:     l.Name,
			Value:     float64(l.Price),
			Display:   display,
			Highlight: l.WithinBudget,
		})
	}
	return bars
}

func printCompare(stats []analysis.RegionStat, selected string) {
	rows := make([][]string, 0, len(stats))
	bars := make([]cli.Bar, 0, len(stats))
	hi := make([]bool, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, []string{
			st.Region.District,
			cli.FormatNumber(int64(st.Listings)),
			cli.FormatNumber(int64(st.WithinBudget)),
			cli.FormatPercent(st.WithinPct),
			cli.FormatWonFloat(st.MedianPrice),
			string(st.Origin),
		})
		hi = append(hi, st.Region.Code == selected)
		bars = append(bars, cli.Bar{
			Label:     st.Region.District,
			Value:     st.MedianPrice,
			Display:   cli.FormatEok(st.MedianPrice),
			Highlight: st.WithinBudget > 0,
		})
	}
	fmt.Println(cli.RenderTable(cli.Table{
		Title:     "Districts",
		Headers:   []string{"District", "Trades", "Within", "Share", "Median", "Source"},
		Rows:      rows,
		Highlight: hi,
	}))
	fmt.Println()
	fmt.Print(cli.RenderBarChart("Median price", bars, 30))
	fmt.Println()
}
