package cmd

import (
	"github.com/spf13/cobra"

	"anchorbar/internal/application"
)

// operand describes one positional argument that must parse as an integer
type operand struct {
	field string
	key   bool // label key (>= 0) rather than annotation id (> 0)
}

var (
	annotationOperand = operand{field: "annotationID"}
	leftOperand       = operand{field: "leftID"}
	rightOperand      = operand{field: "rightID"}
	keyOperand        = operand{field: "labelKey", key: true}
	oldKeyOperand     = operand{field: "oldKey", key: true}
	newKeyOperand     = operand{field: "newKey", key: true}
)

// intArgs checks the leading positional arguments before anything touches
// the catalog. Arguments past len(ops) are left to the command.
func intArgs(ops ...operand) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		for i, op := range ops {
			if i >= len(args) {
				break
			}
			var err error
			if op.key {
				_, err = application.ParseLabelKey(op.field, args[i])
			} else {
				_, err = application.ParseID(op.field, args[i])
			}
			if err != nil {
				return err
			}
		}
		return nil
	}
}

// Arguments were validated by intArgs, so parse errors cannot happen here
func idArg(op operand, s string) int64 {
	id, _ := application.ParseID(op.field, s)
	return id
}

func keyArg(op operand, s string) int {
	key, _ := application.ParseLabelKey(op.field, s)
	return key
}
