package cli

import (
	"github.com/spf13/cobra"

	"inkwell.dev/inkwell/internal/activity"
	"inkwell.dev/inkwell/internal/output"
)

// newHistoryCmd creates the history command
func newHistoryCmd() *cobra.Command {
	var (
		path  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history <branch>",
		Short: "Show recent events on an activity branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, splog, err := newEngine()
			if err != nil {
				return err
			}
			defer splog.Close()

			entries, err := engine.History(cmd.Context(), args[0], path, limit)
			if err != nil {
				renderError(splog, err)
				return err
			}

			for _, entry := range entries {
				splog.Info("%s  %s  %s",
					output.ColorDim(entry.Date.Format("2006-01-02 15:04")),
					entry.Name, entry.Subject)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "limit history to events touching this path")
	cmd.Flags().IntVarP(&limit, "limit", "n", activity.DefaultHistoryLimit, "maximum number of events to show")

	return cmd
}
