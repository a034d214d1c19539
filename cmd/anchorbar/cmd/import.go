package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"anchorbar/internal/application/commands"
)

var importCmd = &cobra.Command{
	Use:     "import <file.annot|dir>...",
	Short:   "Import annotation files into the catalog",
	GroupID: "import",
	Long: `Import one or more FreeSurfer .annot files.

Directories are searched recursively for .annot files. The hemisphere is
taken from the 'lh.' or 'rh.' filename prefix. Files whose content is already
cataloged are skipped, as are files without a prefix.

Examples:
  anchorbar --db labels.db import lh.aparc.annot rh.aparc.annot
  anchorbar --db labels.db import subjects/fsaverage/label`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		importCmd := commands.NewImportCommand(GetCatalog(), sources(), codec(), log, args)
		result, err := importCmd.Execute(ctx)
		if err != nil {
			return err
		}

		for _, o := range result.Outcomes {
			fmt.Println(o.Message)
		}
		if n := result.Failed(); n > 0 {
			return fmt.Errorf("%d of %d files failed to import", n, len(result.Outcomes))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
