package cli

import (
	"request_verifier/infrastructure/scenario"

	"github.com/spf13/cobra"
)

func (a *app) scenarioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario",
		Short: "Print the effective scenario as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(a.v.GetString("scenario"))
			if err != nil {
				return err
			}
			return scenario.Write(cmd.OutOrStdout(), s)
		},
	}
}
