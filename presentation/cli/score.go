package cli

import (
	"fmt"

	"request_verifier/domain/scoring"

	"github.com/spf13/cobra"
)

func (a *app) scoreCommand() *cobra.Command {
	var (
		impact  int
		urgency int
		effort  string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print the priority score the form should show",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := scoring.ParseEffort(effort)
			if err != nil {
				return err
			}
			score, err := scoring.Expected(impact, urgency, size)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), score)
			return nil
		},
	}

	cmd.Flags().IntVar(&impact, "impact", 5, "impact, 1 to 5")
	cmd.Flags().IntVar(&urgency, "urgency", 4, "urgency, 1 to 5")
	cmd.Flags().StringVar(&effort, "effort", string(scoring.EffortS), "effort size: S, M, L or XL")

	return cmd
}
