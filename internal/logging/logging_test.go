package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	require.Equal(t, zapcore.WarnLevel, ParseLevel(" WARN "))
	require.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	require.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	require.Equal(t, zapcore.InfoLevel, ParseLevel("chatty"))
}

func TestNew_RespectsLevel(t *testing.T) {
	t.Parallel()

	for _, dev := range []bool{false, true} {
		log, err := New("warn", dev)
		require.NoError(t, err)
		require.False(t, log.Core().Enabled(zapcore.InfoLevel))
		require.True(t, log.Core().Enabled(zapcore.WarnLevel))
	}
}
