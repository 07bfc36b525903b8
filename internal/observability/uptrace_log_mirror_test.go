package observability

import (
	"errors"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	if !shouldSkipUptraceLog("http request", []any{"method", "GET", "path", "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if shouldSkipUptraceLog("http request", []any{"path", "/api/fpl-data"}) {
		t.Fatalf("did not expect data request log to be skipped")
	}
	if shouldSkipUptraceLog("ranking refresh started", []any{"path", "/healthz"}) {
		t.Fatalf("did not expect non-request event to be skipped")
	}
	if shouldSkipUptraceLog("http request", []any{"path", 42}) {
		t.Fatalf("did not expect non-string path to be skipped")
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	attrs := buildOTelLogAttributes([]any{"run_id", "run-1", "players", 612, "dangling"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "run_id" || attrs[0].Value.AsString() != "run-1" {
		t.Fatalf("unexpected run_id attribute")
	}
	if attrs[1].Key != "players" || attrs[1].Value.AsInt64() != 612 {
		t.Fatalf("unexpected players attribute")
	}
	if attrs[2].Key != "dangling" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected dangling attribute")
	}
}

func TestToOTelLogValue(t *testing.T) {
	rows := toOTelLogValue(map[string]int{"Goalkeepers": 80, "Attackers": 70}, 0)
	if rows.Kind() != otellog.KindMap || len(rows.AsMap()) != 2 {
		t.Fatalf("expected map with 2 items, got %s", rows.Kind())
	}
	if got := toOTelLogValue(errors.New("upstream down"), 0).AsString(); got != "upstream down" {
		t.Fatalf("unexpected error value %q", got)
	}
	if got := toOTelLogValue(1500*time.Millisecond, 0).AsString(); got != "1.5s" {
		t.Fatalf("unexpected duration value %q", got)
	}
	if got := toOTelLogValue(int32(7), 0).AsInt64(); got != 7 {
		t.Fatalf("unexpected int32 value %d", got)
	}
	var missing *int
	if got := toOTelLogValue(missing, 0); got.Kind() != otellog.KindEmpty {
		t.Fatalf("expected empty value for nil pointer, got %s", got.Kind())
	}
}

func TestToOTelSeverity(t *testing.T) {
	tests := map[zapcore.Level]otellog.Severity{
		zapcore.DebugLevel: otellog.SeverityDebug,
		zapcore.InfoLevel:  otellog.SeverityInfo,
		zapcore.WarnLevel:  otellog.SeverityWarn,
		zapcore.ErrorLevel: otellog.SeverityError,
		zapcore.FatalLevel: otellog.SeverityFatal,
	}
	for level, want := range tests {
		if got := toOTelSeverity(level); got != want {
			t.Fatalf("toOTelSeverity(%s)=%v want=%v", level, got, want)
		}
	}
}
