package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLogger_StructuredProperties(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(buf, InfoLevel)

	log.Info("Installing {PackageID} {Version}", "Newtonsoft.Json", "13.0.3")

	output := buf.String()
	if !strings.Contains(output, "Newtonsoft.Json") {
		t.Errorf("Output missing PackageID: %s", output)
	}
	if !strings.Contains(output, "13.0.3") {
		t.Errorf("Output missing Version: %s", output)
	}
}

func TestLogger_ForContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(buf, InfoLevel)

	scoped := log.ForContext("PlanID", "b3c1").WithProperty("Planner", "install")
	scoped.Info("Walked {Count} packages", 42)

	if output := buf.String(); !strings.Contains(output, "42") {
		t.Errorf("Output missing template property: %s", output)
	}
}

func TestLogger_ContextLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(buf, VerboseLevel)
	ctx := context.Background()

	log.VerboseContext(ctx, "verbose ctx")
	log.DebugContext(ctx, "debug ctx")
	log.InfoContext(ctx, "info ctx")
	log.WarnContext(ctx, "warn ctx")
	log.ErrorContext(ctx, "error ctx")

	output := buf.String()
	for _, msg := range []string{"verbose ctx", "debug ctx", "info ctx", "warn ctx", "error ctx"} {
		if !strings.Contains(output, msg) {
			t.Errorf("Output missing %q", msg)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     LogLevel
		logFunc   func(Logger)
		shouldLog bool
	}{
		{"Verbose level logs Verbose", VerboseLevel, func(l Logger) { l.Verbose("msg") }, true},
		{"Debug level blocks Verbose", DebugLevel, func(l Logger) { l.Verbose("msg") }, false},
		{"Info level blocks Debug", InfoLevel, func(l Logger) { l.Debug("msg") }, false},
		{"Warn level blocks Info", WarnLevel, func(l Logger) { l.Info("msg") }, false},
		{"Error level blocks Warn", ErrorLevel, func(l Logger) { l.Warn("msg") }, false},
		{"Silent level blocks Error", SilentLevel, func(l Logger) { l.Error("msg") }, false},
		{"Warn level allows Error", WarnLevel, func(l Logger) { l.Error("msg") }, true},
		{"Info level allows Warn", InfoLevel, func(l Logger) { l.Warn("msg") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.logFunc(NewLogger(buf, tt.level))

			if hasOutput := buf.Len() > 0; hasOutput != tt.shouldLog {
				t.Errorf("Expected output=%v, got output=%v", tt.shouldLog, hasOutput)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"", InfoLevel},
		{"normal", InfoLevel},
		{"Debug", DebugLevel},
		{"detailed", DebugLevel},
		{"diagnostic", VerboseLevel},
		{"minimal", WarnLevel},
		{"quiet", SilentLevel},
		{"error", ErrorLevel},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if err != nil {
			t.Fatalf("ParseLogLevel(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLogLevel("loud"); err == nil {
		t.Error("ParseLogLevel(loud) should fail")
	}
}

func TestNullLogger(t *testing.T) {
	log := NewNullLogger()

	log.Verbose("verbose")
	log.VerboseContext(context.Background(), "verbose ctx")
	log.Debug("debug")
	log.DebugContext(context.Background(), "debug ctx")
	log.Info("info")
	log.InfoContext(context.Background(), "info ctx")
	log.Warn("warn")
	log.WarnContext(context.Background(), "warn ctx")
	log.Error("error")
	log.ErrorContext(context.Background(), "error ctx")

	if log.ForContext("key", "value") != log {
		t.Error("ForContext on the null logger should return itself")
	}
	if log.WithProperty("key", "value") != log {
		t.Error("WithProperty on the null logger should return itself")
	}
}
