package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/allotment/advisor"
	"github.com/katalvlaran/allotment/allocation"
	"github.com/katalvlaran/allotment/internal/roster"
)

func newAdviseCmd(a *app) *cobra.Command {
	var (
		joint    bool
		category string
	)
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Suggest capacity increases for infeasible categories",
		Long: `advise probes each infeasible category for the smallest capacity increase
on a single option that makes it feasible. With --joint it instead computes
one combined set of increases with the fewest extra seats overall.`,
		Args: cobra.NoArgs,
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

			adv := newAdvisor(a, setup)
			out := cmd.OutOrStdout()
			for _, c := range cats {
				var s []advisor.Suggestion
				if joint {
					s, err = adv.SuggestJoint(cmd.Context(), c.Preferences, c.Capacities, c.Costs)
				} else {
					s, err = adv.Suggest(cmd.Context(), c.Preferences, c.Capacities, c.Costs)
				}
				switch {
				case errors.Is(err, advisor.ErrFeasible):
					fmt.Fprintln(out, titleStyle.Render(titleCase.String(c.Name))+" "+passStyle.Render("feasible"))
					continue
				case err != nil:
					return fmt.Errorf("category %q: %w", c.Name, err)
				}
				fmt.Fprintln(out, titleStyle.Render(titleCase.String(c.Name))+" "+failStyle.Render("infeasible"))
				for _, line := range renderSuggestions(s, joint) {
					fmt.Fprintln(out, line)
				}
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&joint, "joint", false, "combine increases across options")
	cmd.Flags().StringVar(&category, "category", "", "only this category")

	return cmd
}

// selectCategory narrows cats to name; an empty name keeps all.
func selectCategory(cats []allocation.Category, name string) ([]allocation.Category, error) {
	if name == "" {
		return cats, nil
	}
	for _, c := range cats {
		if c.Name == name {
			return []allocation.Category{c}, nil
		}
	}

	return nil, fmt.Errorf("unknown category %q", name)
}
