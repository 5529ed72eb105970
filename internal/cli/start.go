package cli

import (
	"github.com/spf13/cobra"

	"inkwell.dev/inkwell/internal/output"
)

// newStartCmd creates the start command
func newStartCmd() *cobra.Command {
	var (
		actor       string
		beneficiary string
	)

	cmd := &cobra.Command{
		Use:   "start <description>",
		Short: "Start a new activity for an editorial task",
		Long: `Start a new activity for an editorial task.

A branch named after the task is created on the shared remote, carrying
a metadata record that describes the task and its author. The activity
does not exist until the branch is confirmed on the remote.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, splog, err := newEngine()
			if err != nil {
				return err
			}
			defer splog.Close()

			author, err := resolveActor(actor)
			if err != nil {
				return err
			}

			act, err := engine.Start(cmd.Context(), args[0], beneficiary, author)
			if err != nil {
				renderError(splog, err)
				return err
			}

			splog.Info("Started activity %s", output.ColorBranchName(act.BranchName))
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "email of the acting user (defaults to $INKWELL_ACTOR)")
	cmd.Flags().StringVarP(&beneficiary, "for", "f", "", "who the task is being done for")

	return cmd
}
