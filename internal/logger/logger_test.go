package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestInitialize(t *testing.T) {
	t.Cleanup(func() { Logger = zap.NewNop().Sugar() })

	require.NoError(t, Initialize("warn", false))
	core := Logger.Desugar().Core()
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.WarnLevel))

	require.NoError(t, Initialize("debug", true))
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))

	assert.Error(t, Initialize("loud", false))
}

func TestHelpersAreSafeWithoutLogger(t *testing.T) {
	saved := Logger
	t.Cleanup(func() { Logger = saved })

	Logger = nil
	assert.NotPanics(t, func() {
		Debugw("debug", "k", 1)
		Infow("info")
		Warnw("warn")
		Errorw("error")
		Sync()
	})
}
