package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	inkwellerrors "inkwell.dev/inkwell/internal/errors"
)

// ColorBranchName colors an activity branch name
func ColorBranchName(branchName string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Render(branchName)
}

// ColorState colors a review state for display
func ColorState(state string) string {
	var color lipgloss.Color
	switch state {
	case "endorsed", "published":
		color = lipgloss.Color("2")
	case "feedback_requested":
		color = lipgloss.Color("3")
	case "conflicted", "abandoned":
		color = lipgloss.Color("1")
	default:
		color = lipgloss.Color("6")
	}
	return lipgloss.NewStyle().Foreground(color).Render(state)
}

// ColorDim makes text dim/gray
func ColorDim(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Render(text)
}

// ColorError colors error text
func ColorError(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("1")).
		Render(text)
}

// FormatConflict renders a merge conflict with its file list, one path per
// line, for terminal display
func FormatConflict(conflict *inkwellerrors.MergeConflictError) string {
	var b strings.Builder
	b.WriteString(ColorError("Someone else published a conflicting change."))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Merging %s into %s conflicted on:\n",
		ColorBranchName(conflict.BranchName), ColorBranchName(conflict.Target)))
	for _, f := range conflict.Files {
		b.WriteString(fmt.Sprintf("  %s %s\n", ColorDim(f.Action), f.Path))
	}
	return b.String()
}
