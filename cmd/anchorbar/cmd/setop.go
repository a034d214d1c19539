package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"anchorbar/internal/application"
	"anchorbar/internal/application/commands"
)

var intersectCmd = &cobra.Command{
	Use:     "intersect <id1> <id2>",
	Short:   "Write the vertex-wise intersection of two annotations",
	GroupID: "setops",
	Long: `Write a new annotation labeling every vertex that carries a label in both
annotations. Each merged label is named <label1>_<label2>, using abbreviations
where assigned, and colored with the mean of both colors.

The output is written to <out-dir>/<hemi>.<name1>.AND.<name2>.annot.

Examples:
  anchorbar --db labels.db intersect 1 2`,
	Args: cobra.MatchAll(cobra.ExactArgs(2), intArgs(leftOperand, rightOperand)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetOperation(application.PolicyIntersect, args)
	},
}

var unionCmd = &cobra.Command{
	Use:     "union <id1> <id2>",
	Short:   "Write the vertex-wise union of two annotations",
	GroupID: "setops",
	Long: `Write a new annotation labeling every vertex that carries a label in
either annotation. A side without a label contributes NULL to the merged name.

The output is written to <out-dir>/<hemi>.<name1>.OR.<name2>.annot.

Examples:
  anchorbar --db labels.db --out-dir merged union 1 2`,
	Args: cobra.MatchAll(cobra.ExactArgs(2), intArgs(leftOperand, rightOperand)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetOperation(application.PolicyUnion, args)
	},
}

func runSetOperation(policy application.Policy, args []string) error {
	ctx := context.Background()
	setCmd := commands.NewSetOperationCommand(GetCatalog(), codec(), policy,
		idArg(leftOperand, args[0]), idArg(rightOperand, args[1]))
	setCmd.VertexCount = settings.VertexCount
	setCmd.OutputDir = settings.OutputDir

	result, err := setCmd.Execute(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("*** %d Overlapping Vertices ***\n", result.Vertices)
	fmt.Println(result.Message)
	return nil
}

func init() {
	rootCmd.AddCommand(intersectCmd)
	rootCmd.AddCommand(unionCmd)
}
