package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"inkwell.dev/inkwell/internal/output"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "status <branch>",
		Short: "Show the review state of an activity",
		Long: `Show the review state of an activity.

The state is derived from the branch's commit trail against the shared
remote, so the answer reflects what every collaborator sees.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, splog, err := newEngine()
			if err != nil {
				return err
			}
			defer splog.Close()

			actorEmail, err := resolveActor(actor)
			if err != nil {
				return err
			}

			status, err := engine.ReviewState(cmd.Context(), args[0], actorEmail)
			if err != nil {
				renderError(splog, err)
				return err
			}

			splog.Info("%s  %s", output.ColorBranchName(status.BranchName),
				output.ColorState(string(status.State)))
			if status.DefaultTip != "" {
				splog.Info("  tip:    %s", output.ColorDim(status.DefaultTip))
			}
			if status.Metadata.TaskDescription != "" {
				splog.Info("  task:   %s", status.Metadata.TaskDescription)
			}
			if status.Metadata.AuthorEmail != "" {
				splog.Info("  author: %s", status.Metadata.AuthorEmail)
			}
			if status.LastActor != "" {
				splog.Info("  state set by %s", status.LastActor)
			}
			if len(status.AuthorizedActions) > 0 {
				var names []string
				for _, a := range status.AuthorizedActions {
					names = append(names, string(a))
				}
				splog.Info("  you may: %s", output.ColorDim(strings.Join(names, ", ")))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "email of the acting user (defaults to $INKWELL_ACTOR)")

	return cmd
}
