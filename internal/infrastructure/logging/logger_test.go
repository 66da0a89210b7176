package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"ERROR", zapcore.ErrorLevel, false},
		{"chatty", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestNew(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputPaths = []string{filepath.Join(t.TempDir(), "factory.log")}

	logger, err := New(cfg)
	require.NoError(t, err)
	defer logger.Close()

	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.NotNil(t, logger.Named("dispatch"))

	_, err = New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.Info("discarded")
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestParseComponentLevels(t *testing.T) {
	levels, err := ParseComponentLevels("dispatch=debug, host=warn,,")
	require.NoError(t, err)
	assert.Equal(t, ComponentLevels{ComponentDispatch: zapcore.DebugLevel, ComponentHost: zapcore.WarnLevel}, levels)

	empty, err := ParseComponentLevels("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, bad := range []string{"dispatch", "=debug", "host=loud"} {
		_, err := ParseComponentLevels(bad)
		assert.Error(t, err, bad)
	}
}

func TestComponentCore(t *testing.T) {
	levels, err := ParseComponentLevels("dispatch=debug,host=error")
	require.NoError(t, err)

	inner, logs := observer.New(zapcore.DebugLevel)
	root := zap.New(newComponentCore(inner, zapcore.InfoLevel, levels))

	root.Named(ComponentDispatch).Debug("dispatch debug")
	root.Named(ComponentHost).Named("memory").Warn("host warn")
	root.Named(ComponentHost).Named("memory").Error("host error")
	root.Named(ComponentHTTP).Debug("http debug")
	root.Named(ComponentHTTP).Info("http info")
	root.Named(ComponentFactory).With(zap.String("k", "v")).Debug("factory debug")

	var messages []string
	for _, e := range logs.All() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{"dispatch debug", "host error", "http info"}, messages)
}

func TestNewWithComponents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputPaths = []string{filepath.Join(t.TempDir(), "factory.log")}
	cfg.Components = "dispatch=debug"

	logger, err := New(cfg)
	require.NoError(t, err)
	defer logger.Close()

	assert.True(t, logger.Named(ComponentDispatch).Core().Enabled(zapcore.DebugLevel))
	assert.NotNil(t, logger.Named(ComponentHTTP).Check(zapcore.InfoLevel, "info"))
	assert.Nil(t, logger.Named(ComponentHTTP).Check(zapcore.DebugLevel, "debug"))

	cfg.Components = "dispatch"
	_, err = New(cfg)
	assert.Error(t, err)
}
