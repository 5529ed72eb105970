package cli

import (
	"github.com/spf13/cobra"

	"inkwell.dev/inkwell/internal/output"
)

// newListCmd creates the list command
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the live activities on the shared remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, splog, err := newEngine()
			if err != nil {
				return err
			}
			defer splog.Close()

			activities, err := engine.List(cmd.Context())
			if err != nil {
				renderError(splog, err)
				return err
			}

			if len(activities) == 0 {
				splog.Info("No live activities")
				return nil
			}

			for _, act := range activities {
				desc := act.Metadata.TaskDescription
				if desc == "" {
					desc = output.ColorDim("(no description)")
				}
				splog.Info("%s  %s", output.ColorBranchName(act.BranchName), desc)
			}
			return nil
		},
	}

	return cmd
}
