package cli

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/allotment/internal/roster"
	"github.com/katalvlaran/allotment/network"
)

func newDimacsCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "dimacs",
		Short: "Print the flow network of a category in DIMACS min-cost format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			setup, err := a.setup()
			if err != nil {
				return err
			}
			cats, err := roster.Load(setup)
			if err != nil {
				return err
			}
			cats, err = selectCategory(cats, category)
			if err != nil {
				return err
			}
			c := cats[0]
			n, err := network.Build(c.Preferences, c.Capacities, c.Costs)
			if err != nil {
				return err
			}

			return n.WriteDIMACS(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category to export")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}
