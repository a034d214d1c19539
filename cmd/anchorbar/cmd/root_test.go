package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anchorbar/internal/application"
	"anchorbar/internal/config"
)

func TestRoot_RequiresDatabase(t *testing.T) {
	t.Setenv("ANCHORBAR_DB", "")

	rootCmd.SetArgs([]string{"--db=", "list"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrNoDatabase), "got %v", err)
	assert.Nil(t, catalog)
}

func TestRoot_ValidatesOperandsBeforeOpening(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{name: "missing operand", args: []string{"intersect", "1"}, errMsg: "accepts 2 arg(s)"},
		{name: "non-numeric id", args: []string{"union", "1", "abc"}, errMsg: "right annotation ID must be an integer"},
		{name: "zero id", args: []string{"labels", "0"}, errMsg: "must be a positive integer"},
		{name: "non-numeric key", args: []string{"reassign", "1", "2", "k"}, errMsg: "new label key must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs(append([]string{"--db", t.TempDir() + "/labels.db"}, tt.args...))
			err := rootCmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Nil(t, catalog)
		})
	}
}

func TestIntArgs(t *testing.T) {
	check := intArgs(annotationOperand, keyOperand)

	assert.NoError(t, check(nil, []string{"3", "0", "name"}))

	err := check(nil, []string{"x", "0"})
	var verr *application.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "annotationID", verr.Field)

	assert.Equal(t, int64(12), idArg(annotationOperand, " 12 "))
	assert.Equal(t, 4, keyArg(keyOperand, "4"))
}
