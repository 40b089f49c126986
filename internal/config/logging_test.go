package config_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aardwolf-fl/llvm-frontend/internal/config"
)

func TestLogGroupGatesByLevel(t *testing.T) {
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.WarnLevel)
	lg := config.NewLogGroup(cfg)

	var buf bytes.Buffer
	lg.SetAllOutput(&buf)

	lg.Debugf("debug message")
	if buf.Len() != 0 {
		t.Fatalf("Debugf should be suppressed at WarnLevel, got %q", buf.String())
	}

	lg.Warnf("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Fatalf("expected warn message to be logged, got %q", buf.String())
	}
}

func TestEachLevelLogsWithItsOwnPrefix(t *testing.T) {
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.TraceLevel)
	lg := config.NewLogGroup(cfg)

	var buf bytes.Buffer
	lg.SetAllOutput(&buf)

	lg.Infof("info message")
	lg.Warnf("warn message")

	out := buf.String()
	if !strings.Contains(out, "[INFO] ") {
		t.Fatalf("expected the info line to carry the INFO prefix, got %q", out)
	}
	if !strings.Contains(out, "[WARN] ") {
		t.Fatalf("expected the warn line to carry the WARN prefix, got %q", out)
	}
	if strings.Contains(out, "[ERROR]") {
		t.Fatal("info/warn lines must not carry the ERROR prefix (loggers must not alias one shared instance)")
	}
}

func TestGetErrorReturnsErrorLogger(t *testing.T) {
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)
	lg := config.NewLogGroup(cfg)

	var buf bytes.Buffer
	lg.SetAllOutput(&buf)

	lg.GetError().Printf("boom")
	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected GetError()'s logger to write to the configured output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[ERROR]") {
		t.Fatalf("expected GetError() to return the error-level logger with its prefix, got %q", buf.String())
	}
}
