package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"anchorbar/internal/application/commands"
)

var renameCmd = &cobra.Command{
	Use:     "rename <id> <shortname>",
	Short:   "Change an annotation's short name",
	GroupID: "catalog",
	Long: `Change the short name used in output filenames and listings.

Examples:
  anchorbar --db labels.db rename 2 glasser`,
	Args: cobra.MatchAll(cobra.ExactArgs(2), intArgs(annotationOperand)),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		renameCmd := commands.NewRenameAnnotationCommand(GetCatalog(), idArg(annotationOperand, args[0]), args[1])
		result, err := renameCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var relabelCmd = &cobra.Command{
	Use:     "relabel <id> <key> <name>",
	Short:   "Rename a label of an annotation",
	GroupID: "catalog",
	Long: `Rename one label. Only the given annotation is affected.

Examples:
  anchorbar --db labels.db relabel 1 24 precentral`,
	Args: cobra.MatchAll(cobra.ExactArgs(3), intArgs(annotationOperand, keyOperand)),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		relabelCmd := commands.NewRenameLabelCommand(GetCatalog(),
			idArg(annotationOperand, args[0]), keyArg(keyOperand, args[1]), args[2])
		result, err := relabelCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var abbrevCmd = &cobra.Command{
	Use:     "abbrev <id> <key> <abbrev>",
	Short:   "Set the abbreviation of a label",
	GroupID: "catalog",
	Long: `Set a label's abbreviation. Set operations use it in merged label names
in place of the full name.

Examples:
  anchorbar --db labels.db abbrev 2 8 FEF`,
	Args: cobra.MatchAll(cobra.ExactArgs(3), intArgs(annotationOperand, keyOperand)),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		abbrevCmd := commands.NewAbbreviateLabelCommand(GetCatalog(),
			idArg(annotationOperand, args[0]), keyArg(keyOperand, args[1]), args[2])
		result, err := abbrevCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var reassignCmd = &cobra.Command{
	Use:     "reassign <id> <old-key> <new-key>",
	Short:   "Move the vertices of one label onto another",
	GroupID: "catalog",
	Long: `Move every vertex of label <old-key> to label <new-key> and remove the old
label. Reassigning to key 0 leaves the vertices unlabeled.

Examples:
  anchorbar --db labels.db reassign 1 35 34`,
	Args: cobra.MatchAll(cobra.ExactArgs(3), intArgs(annotationOperand, oldKeyOperand, newKeyOperand)),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		reassignCmd := commands.NewReassignCommand(GetCatalog(), idArg(annotationOperand, args[0]),
			keyArg(oldKeyOperand, args[1]), keyArg(newKeyOperand, args[2]))
		result, err := reassignCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var dropCmd = &cobra.Command{
	Use:     "drop <id>",
	Short:   "Remove an annotation from the catalog",
	GroupID: "catalog",
	Long: `Remove an annotation with all of its labels and vertices, then list what
remains.

Examples:
  anchorbar --db labels.db drop 4`,
	Args: cobra.MatchAll(cobra.ExactArgs(1), intArgs(annotationOperand)),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		dropCmd := commands.NewDropCommand(GetCatalog(), idArg(annotationOperand, args[0]))
		result, err := dropCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return printAnnotations(ctx)
	},
}

var exportCmd = &cobra.Command{
	Use:     "export <id>",
	Short:   "Write a cataloged annotation back to an .annot file",
	GroupID: "catalog",
	Long: `Rebuild an annotation file from the catalog, including any renames and
reassignments, as <out-dir>/<hemi>.<shortname>.annot.

Examples:
  anchorbar --db labels.db --out-dir export export 1`,
	Args: cobra.MatchAll(cobra.ExactArgs(1), intArgs(annotationOperand)),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		exportCmd := commands.NewExportCommand(GetCatalog(), codec(), idArg(annotationOperand, args[0]))
		exportCmd.VertexCount = settings.VertexCount
		exportCmd.OutputDir = settings.OutputDir
		result, err := exportCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(relabelCmd)
	rootCmd.AddCommand(abbrevCmd)
	rootCmd.AddCommand(reassignCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(exportCmd)
}
