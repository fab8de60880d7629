package utils

import (
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("debug mode returns development logger", func(t *testing.T) {
		logger, err := NewLogger(true)
		if err != nil {
			t.Fatalf("NewLogger(true) error: %v", err)
		}
		if logger == nil {
			t.Fatal("NewLogger(true) returned nil logger")
		}
		if !logger.Core().Enabled(-1) {
			t.Error("debug logger should enable debug level")
		}
		_ = logger.Sync()
	})

	t.Run("production mode returns production logger", func(t *testing.T) {
		logger, err := NewLogger(false)
		if err != nil {
			t.Fatalf("NewLogger(false) error: %v", err)
		}
		if logger.Core().Enabled(-1) {
			t.Error("production logger should not enable debug level")
		}
		_ = logger.Sync()
	})
}

func TestNewLoggerWithFormat(t *testing.T) {
	for _, format := range []string{"", "json", "console"} {
		logger, err := NewLoggerWithFormat(false, format)
		if err != nil {
			t.Errorf("format %q: %v", format, err)
			continue
		}
		_ = logger.Sync()
	}
	if _, err := NewLoggerWithFormat(false, "xml"); err == nil {
		t.Error("unknown format should fail")
	}
}
