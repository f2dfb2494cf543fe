package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
		wantErr  bool
	}{
		{"trace", TraceLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"fatal", zapcore.FatalLevel, false},
		{"loud", zapcore.InfoLevel, true},
		{"", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := LevelFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults valid", func(t *testing.T) {
		assert.NoError(t, NewDefaultConfig().Validate())
	})

	t.Run("bad format", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Format = "logfmt"
		assert.Error(t, cfg.Validate())
	})

	t.Run("no outputs", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Output.Stdout = false
		cfg.Output.File = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("sampling needs tick", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Sampling.Enabled = true
		cfg.Sampling.Tick = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative caller skip", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Caller.Skip = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid redaction pattern", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Redaction.Patterns = append(cfg.Redaction.Patterns, "[oops(")
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty constant field value", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Fields["build"] = ""
		assert.Error(t, cfg.Validate())
	})
}
