package utils

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger returns a zap logger. When debug is true, uses development config
// (human-readable, debug level); otherwise uses production config (JSON, info level).
func NewLogger(debug bool) (*zap.Logger, error) {
	return NewLoggerWithFormat(debug, "")
}

// NewLoggerWithFormat is NewLogger with the encoding overridden ("json" or "console").
// An empty format keeps the encoding of the chosen preset.
func NewLoggerWithFormat(debug bool, format string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	switch format {
	case "":
	case "json", "console":
		cfg.Encoding = format
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return cfg.Build()
}
