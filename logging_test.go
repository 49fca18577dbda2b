package mandelbulb

import (
	"testing"
)

func TestApp_LoggerFallsBackToNop(t *testing.T) {
	app := NewAppBuilder().Build()

	logger := app.Logger()
	if logger == nil {
		t.Fatalf("Logger must never return nil")
	}
	if logger.DebugEnabled() {
		t.Errorf("The fallback logger should not report debug enabled")
	}
}

func TestApp_LoggerFindsInstalledLogger(t *testing.T) {
	app := NewAppBuilder().
		UseModule(LoggingModule{Prefix: "test", Debug: true}).
		Build()

	logger := app.Logger()
	if _, ok := logger.(*DefaultLogger); !ok {
		t.Fatalf("Expected the installed DefaultLogger, got %T", logger)
	}
	if !logger.DebugEnabled() {
		t.Errorf("Expected debug to be enabled")
	}
}

func TestDefaultLogger_DebugToggle(t *testing.T) {
	logger := NewDefaultLogger("", false)

	if logger.DebugEnabled() {
		t.Errorf("Expected debug off by default")
	}

	logger.SetDebug(true)
	if !logger.DebugEnabled() {
		t.Errorf("Expected debug on after SetDebug(true)")
	}
}
