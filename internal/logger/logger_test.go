package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/AngelCh415/leadpane/internal/config"
)

func TestNewHonoursLevel(t *testing.T) {
	log, err := New(config.Config{Environment: "production", LogLevel: "warn"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	log, err = New(config.Config{Environment: "development", LogLevel: "debug"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(config.Config{LogLevel: "chatty"})
	assert.Error(t, err)
}
