package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"request_verifier/infrastructure/storage"
	"request_verifier/presentation/terminal"

	"github.com/spf13/cobra"
)

func (a *app) reportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the report of the last verification run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.v.GetString("screenshot_dir")
			store, err := storage.NewArtifactStore(dir)
			if err != nil {
				return err
			}
			report, err := store.LoadReport()
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("no run report in %s; run verify first", store.Dir())
			}
			if err != nil {
				return err
			}
			terminal.NewTerminalInterface(cmd.OutOrStdout()).Describe(report)
			return nil
		},
	}
}
