package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homebudget/homebudget/internal/cli"
	"github.com/homebudget/homebudget/internal/region"
)

var regionsCmd = &cobra.Command{
	Use:   "regions [province]",
	Short: "List district codes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRegions,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}

func runRegions(_ *cobra.Command, args []string) error {
	provinces := region.Provinces()
	if len(args) == 1 {
		if len(region.Districts(args[0])) == 0 {
			return fmt.Errorf("unknown province %q", args[0])
		}
		provinces = []string{args[0]}
	}

	for _, prov := range provinces {
		districts := region.Districts(prov)
		rows := make([][]string, 0, len(districts))
		for _, d := range districts {
			rows = append(rows, []string{d.District, d.Code})
		}
		fmt.Println(cli.RenderTable(cli.Table{
			Title:   prov,
			Headers: []string{"District", "Code"},
			Rows:    rows,
		}))
		fmt.Println()
	}
	return nil
}
