package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"anchorbar/internal/adapters/tui"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	Short:   "Browse the catalog in an interactive terminal view",
	GroupID: "catalog",
	Long: `Open a terminal browser listing every annotation. Expand an annotation to
see its labels with their colors, copy paths or labels to the clipboard, and
drop annotations.

Logs are written to stderr, so run with --log-mode quiet to keep the screen clean.

Examples:
  anchorbar --db labels.db --log-mode quiet browse`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := tui.NewApp(GetCatalog())
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
