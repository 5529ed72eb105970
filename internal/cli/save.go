package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"inkwell.dev/inkwell/internal/activity"
	"inkwell.dev/inkwell/internal/output"
)

// newSaveCmd creates the save command
func newSaveCmd() *cobra.Command {
	var (
		actor   string
		op      string
		newPath string
		file    string
		message string
		baseSHA string
	)

	cmd := &cobra.Command{
		Use:   "save <branch> <path>",
		Short: "Save a content change onto an activity branch",
		Long: `Save a content change onto an activity branch.

Content is read from --file, or from standard input when --file is "-".
The --base flag carries the branch tip the caller last observed; if the
branch has moved past it and the same file changed, the save is refused
so no edit is silently overwritten.`,
		Args: cobra.ExactArgs(2),
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

			saveOp := activity.SaveOp(op)
			var content []byte
			switch saveOp {
			case activity.SaveOpCreate, activity.SaveOpEdit:
				content, err = readContent(file)
				if err != nil {
					return err
				}
			case activity.SaveOpDelete:
			case activity.SaveOpMove:
				if newPath == "" {
					return fmt.Errorf("--to is required for a move")
				}
			default:
				return fmt.Errorf("unknown operation %q", op)
			}

			result, err := engine.Save(cmd.Context(), activity.SaveRequest{
				Branch:      args[0],
				Op:          saveOp,
				Path:        args[1],
				NewPath:     newPath,
				Content:     content,
				Message:     message,
				BaseSHA:     baseSHA,
				AuthorEmail: author,
			})
			if err != nil {
				renderError(splog, err)
				return err
			}

			if !result.Saved {
				splog.Warn("Not saved: %s changed on %s since your last refresh",
					result.Path, output.ColorBranchName(args[0]))
				return nil
			}

			splog.Info("Saved %s to %s (%s)", result.Path,
				output.ColorBranchName(args[0]), output.ColorDim(shortSHA(result.CommitSHA)))
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "email of the acting user (defaults to $INKWELL_ACTOR)")
	cmd.Flags().StringVarP(&op, "op", "o", "edit", "operation: create, edit, delete or move")
	cmd.Flags().StringVar(&newPath, "to", "", "destination path for a move")
	cmd.Flags().StringVarP(&file, "file", "F", "-", "file to read content from (\"-\" for stdin)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message for the save")
	cmd.Flags().StringVar(&baseSHA, "base", "", "branch tip observed when editing began")

	return cmd
}

func readContent(file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(file)
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
