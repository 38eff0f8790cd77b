package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		for _, dev := range []bool{false, true} {
			logger, err := New(Options{Level: tt.level, Development: dev})
			require.NoError(t, err, tt.level)
			assert.True(t, logger.Core().Enabled(tt.want), tt.level)
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want-1), tt.level)
			}
		}
	}
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
	assert.Panics(t, func() { Must(Options{Level: "loud"}) })
}
