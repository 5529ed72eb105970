package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "inkwell",
		Short: "Inkwell maps editorial activities onto git branches",
		Long: `Inkwell maps editorial activities onto git branches.

Every activity is a branch on a shared remote. Start one, save content
into it, request review, and merge or abandon it when the work is done.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newSaveCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newActCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newListCmd())

	return rootCmd
}
