package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"inkwell.dev/inkwell/internal/activity"
	inkwellerrors "inkwell.dev/inkwell/internal/errors"
	"inkwell.dev/inkwell/internal/output"
)

// newActCmd creates the act command
func newActCmd() *cobra.Command {
	var (
		actor     string
		comment   string
		expected  string
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:   "act <branch> <action>",
		Short: "Apply a review or terminal action to an activity",
		Long: `Apply a review or terminal action to an activity.

Actions: request_feedback, endorse, comment, merge, abandon, clobber.

Merge publishes the activity onto the default branch and retires it.
Abandon discards the activity entirely. Clobber force-publishes the
activity's content over the default branch after a failed merge and is
restricted to operators.`,
		Args: cobra.ExactArgs(2),
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

			branch := args[0]
			action := activity.Action(args[1])

			if isDestructive(action) && !assumeYes {
				confirmed, err := confirmAction(branch, action)
				if err != nil {
					return err
				}
				if !confirmed {
					splog.Info("Cancelled")
					return nil
				}
			}

			// Merge and clobber land on the default branch, so pin them to
			// the tip observed now unless the caller pinned an earlier one.
			if expected == "" && (action == activity.ActionMerge || action == activity.ActionClobber) {
				status, err := engine.ReviewState(cmd.Context(), branch, actorEmail)
				if err != nil {
					renderError(splog, err)
					return err
				}
				expected = status.DefaultTip
			}

			outcome, err := engine.Act(cmd.Context(), activity.ActRequest{
				Branch:             branch,
				Action:             action,
				ActorEmail:         actorEmail,
				Comment:            comment,
				ExpectedDefaultTip: expected,
			})
			if err != nil {
				var conflict *inkwellerrors.MergeConflictError
				if errors.As(err, &conflict) {
					splog.Info("%s is now %s", output.ColorBranchName(branch),
						output.ColorState(string(activity.StateConflicted)))
				}
				renderError(splog, err)
				return err
			}

			switch outcome.Action {
			case activity.ActionMerge, activity.ActionClobber:
				splog.Info("Published %s (%s)", output.ColorBranchName(outcome.BranchName),
					output.ColorDim(shortSHA(outcome.CommitSHA)))
			case activity.ActionAbandon:
				splog.Info("Abandoned %s", output.ColorBranchName(outcome.BranchName))
			default:
				splog.Info("%s is now %s", output.ColorBranchName(outcome.BranchName),
					output.ColorState(string(outcome.State)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "email of the acting user (defaults to $INKWELL_ACTOR)")
	cmd.Flags().StringVarP(&comment, "comment", "c", "", "comment to record alongside the action")
	cmd.Flags().StringVar(&expected, "expected-tip", "", "default-branch tip the decision was based on (defaults to the tip observed at act time)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")

	return cmd
}

func isDestructive(action activity.Action) bool {
	switch action {
	case activity.ActionMerge, activity.ActionAbandon, activity.ActionClobber:
		return true
	}
	return false
}

// confirmAction prompts before a terminal action. Non-interactive sessions
// must pass --yes explicitly.
func confirmAction(branch string, action activity.Action) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false, fmt.Errorf("%s is irreversible: re-run with --yes to confirm", action)
	}

	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s activity %q?", action, branch),
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}
