package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestStartPlanSpan(t *testing.T) {
	recorder := withRecorder(t)

	ctx, span := StartPlanSpan(context.Background(), "install", "plan-1", "A", "1.0", "net45")
	RecordCycle(ctx, "A 1.0 => B 1.0 => A 1.0", false)
	SetAttributes(ctx, AttrOperationCount.Int(2))
	EndSpanWithError(span, nil)

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("Ended spans = %d, want 1", len(ended))
	}
	got := ended[0]
	if got.Name() != "plan.install" {
		t.Errorf("Name = %q, want plan.install", got.Name())
	}
	if got.Status().Code != codes.Ok {
		t.Errorf("Status = %v, want Ok", got.Status().Code)
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range got.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrPackageID].AsString() != "A" {
		t.Errorf("package id attribute = %q", attrs[AttrPackageID].AsString())
	}
	if attrs[AttrPlanID].AsString() != "plan-1" {
		t.Errorf("plan id attribute = %q", attrs[AttrPlanID].AsString())
	}
	if attrs[AttrOperationCount].AsInt64() != 2 {
		t.Errorf("operation count attribute = %d", attrs[AttrOperationCount].AsInt64())
	}
	if len(got.Events()) != 1 || got.Events()[0].Name != "dependency.cycle" {
		t.Errorf("Events = %v, want one dependency.cycle event", got.Events())
	}
}

func TestEndSpanWithError(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartPlanSpan(context.Background(), "uninstall", "plan-2", "A", "1.0", "")
	EndSpanWithError(span, errors.New("unable to uninstall"))

	got := recorder.Ended()[0]
	if got.Status().Code != codes.Error {
		t.Errorf("Status = %v, want Error", got.Status().Code)
	}
	if got.Status().Description != "unable to uninstall" {
		t.Errorf("Description = %q", got.Status().Description)
	}
}
