package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"anchorbar/internal/application/commands"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List cataloged annotations",
	GroupID: "catalog",
	Long: `List every annotation in the catalog as: id, hemisphere and short name,
source path.

Examples:
  anchorbar --db labels.db list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printAnnotations(context.Background())
	},
}

func printAnnotations(ctx context.Context) error {
	annotations, err := commands.NewListAnnotationsCommand(GetCatalog()).Execute(ctx)
	if err != nil {
		return err
	}

	for _, a := range annotations {
		fmt.Printf("%d\t%s %s\t%s\n", a.ID, a.Hemisphere, a.ShortName, filepath.Join(a.Path, a.Filename))
	}
	return nil
}

var labelsCmd = &cobra.Command{
	Use:     "labels <id>",
	Short:   "List the labels of an annotation",
	GroupID: "catalog",
	Long: `List the labels of one annotation as: key, name, abbreviation.

Examples:
  anchorbar --db labels.db labels 3`,
	Args: cobra.MatchAll(cobra.ExactArgs(1), intArgs(annotationOperand)),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		labelsCmd := commands.NewListLabelsCommand(GetCatalog(), idArg(annotationOperand, args[0]))
		labels, err := labelsCmd.Execute(ctx)
		if err != nil {
			return err
		}

		for _, l := range labels {
			fmt.Printf("%d\t%s\t%s\n", l.Key, l.Name, l.Abbrev)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(labelsCmd)
}
