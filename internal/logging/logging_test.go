package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level       string
		expectError bool
		enabled     zapcore.Level
	}{
		{"info", false, zapcore.InfoLevel},
		{"debug", false, zapcore.DebugLevel},
		{"warn", false, zapcore.WarnLevel},
		{"loud", true, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := New(tt.level)
			if tt.expectError {
				if err == nil {
					t.Errorf("New(%q) should have returned error", tt.level)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) unexpected error: %v", tt.level, err)
			}
			if !logger.Core().Enabled(tt.enabled) {
				t.Errorf("New(%q) should enable %s", tt.level, tt.enabled)
			}
			if tt.enabled > zapcore.DebugLevel && logger.Core().Enabled(tt.enabled-1) {
				t.Errorf("New(%q) should not enable %s", tt.level, tt.enabled-1)
			}
		})
	}
}
