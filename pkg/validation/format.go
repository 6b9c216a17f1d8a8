// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/amortize/pkg/constants"
	"go.uber.org/zap/zapcore"
)

// Log formats accepted in the logging configuration.
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ParseLogLevel maps a configured level name onto a zap level.
func ParseLogLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", level)
	}
}

// ValidateLogFormat checks if the log format is json or console.
func ValidateLogFormat(format string) error {
	if format != LogFormatJSON && format != LogFormatConsole {
		return fmt.Errorf("invalid log format: %s", format)
	}
	return nil
}
