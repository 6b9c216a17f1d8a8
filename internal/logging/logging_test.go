package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/amortize/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LoggingConfig
		override  string
		enabled   zapcore.Level
		disabled  zapcore.Level
		expectErr bool
	}{
		{name: "Defaults", cfg: config.LoggingConfig{}, enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
		{name: "Configured debug console", cfg: config.LoggingConfig{Level: "debug", Format: "console"}, enabled: zapcore.DebugLevel, disabled: zapcore.DebugLevel - 1},
		{name: "Override wins", cfg: config.LoggingConfig{Level: "debug"}, override: "error", enabled: zapcore.ErrorLevel, disabled: zapcore.WarnLevel},
		{name: "Invalid level", cfg: config.LoggingConfig{Level: "loud"}, expectErr: true},
		{name: "Invalid override", override: "loud", expectErr: true},
		{name: "Invalid format", cfg: config.LoggingConfig{Format: "xml"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg, tt.override)
			if tt.expectErr {
				if err == nil {
					t.Errorf("New() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if !logger.Core().Enabled(tt.enabled) {
				t.Errorf("New() logger should enable %v", tt.enabled)
			}
			if logger.Core().Enabled(tt.disabled) {
				t.Errorf("New() logger should not enable %v", tt.disabled)
			}
		})
	}
}

func TestNewOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "amortize.log")

	logger, err := New(config.LoggingConfig{Level: "info", Format: "json", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("written to file")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if len(data) == 0 {
		t.Errorf("log file is empty")
	}
}
