package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{ModeDev, ModeDebug, ModeProd, ModeQuiet, ""} {
		t.Run(mode, func(t *testing.T) {
			l, err := New(mode)
			require.NoError(t, err)
			require.NotNil(t, l.SugaredLogger)
		})
	}

	_, err := New("verbose")
	assert.Error(t, err)
}

func TestLogger_With(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("annotation_id", 3).Warn("skipping file", "path", "aparc.annot")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "skipping file", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, int64(3), ctx["annotation_id"])
	assert.Equal(t, "aparc.annot", ctx["path"])
}
