package observability

import (
	"bytes"
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestSetupTracing_Stdout(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}
	config := TracerConfig{
		ServiceName:    "nuplan-test",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		ExporterType:   "stdout",
		SamplingRate:   1.0,
		Writer:         buf,
	}

	tp, err := SetupTracing(ctx, config)
	if err != nil {
		t.Fatalf("SetupTracing() failed: %v", err)
	}

	_, span := Tracer("test").Start(ctx, "test-operation")
	span.SetAttributes(attribute.String("test.key", "test.value"))
	span.End()

	// Shutdown flushes the batcher into buf
	if err := ShutdownTracing(ctx, tp); err != nil {
		t.Fatalf("ShutdownTracing() failed: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("test-operation")) {
		t.Errorf("stdout exporter output missing span name: %s", buf.String())
	}
}

func TestSetupTracing_None(t *testing.T) {
	ctx := context.Background()
	tp, err := SetupTracing(ctx, TracerConfig{ServiceName: "nuplan-test", ExporterType: "none"})
	if err != nil {
		t.Fatalf("SetupTracing() with none exporter failed: %v", err)
	}
	defer func() {
		if err := ShutdownTracing(ctx, tp); err != nil {
			t.Errorf("ShutdownTracing() failed: %v", err)
		}
	}()

	_, span := StartSpan(ctx, TracerName, "test-span")
	defer span.End()

	if !span.SpanContext().IsValid() {
		t.Error("Span context should be valid")
	}
}

func TestSetupTracing_InvalidExporter(t *testing.T) {
	_, err := SetupTracing(context.Background(), TracerConfig{ServiceName: "nuplan-test", ExporterType: "invalid"})
	if err == nil {
		t.Error("SetupTracing with invalid exporter should return error")
	}
}

func TestDefaultTracerConfig(t *testing.T) {
	config := DefaultTracerConfig()

	if config.ServiceName != "nuplan" {
		t.Errorf("Expected ServiceName=nuplan, got %s", config.ServiceName)
	}
	if config.ExporterType != "none" {
		t.Errorf("Expected ExporterType=none, got %s", config.ExporterType)
	}
	if config.SamplingRate != 1.0 {
		t.Errorf("Expected SamplingRate=1.0, got %f", config.SamplingRate)
	}
}
