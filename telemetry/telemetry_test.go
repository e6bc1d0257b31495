package telemetry_test

import (
	"context"
	"testing"

	"github.com/n9te9/federation-gateway/telemetry"
)

func TestInitTracerReturnsWorkingShutdown(t *testing.T) {
	shutdown, err := telemetry.InitTracer(context.Background(), "test-service", "v0.0.0-test")
	if err != nil {
		t.Fatalf("unexpected error initializing tracer: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected a non-nil shutdown function")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("unexpected error shutting down tracer provider: %v", err)
	}
}
