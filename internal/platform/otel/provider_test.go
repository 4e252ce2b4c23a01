package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/improv.show/internal/platform/otel"
)

// Every case should hand back a shutdown function that flushes without
// error; no spans are recorded, so unreachable collector addresses
// (TEST-NET-1) never trigger an export.
func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		enabled  string
	}{
		{name: "off without endpoint"},
		{name: "disabled flag wins over endpoint", endpoint: "http://127.0.0.1:4318", enabled: "false"},
		{name: "disabled flag is case-insensitive", endpoint: "http://127.0.0.1:4318", enabled: "FALSE"},
		{name: "provider for configured collector", endpoint: "http://192.0.2.10:4318"},
		{name: "enabled flag left empty", endpoint: "http://192.0.2.10:4318", enabled: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("IMPROV_SHOW_OTEL_ENDPOINT", tt.endpoint)
			t.Setenv("IMPROV_SHOW_OTEL_ENABLED", tt.enabled)

			shutdown, err := otel.Setup(context.Background(), "improv-test")
			if err != nil {
				t.Fatalf("setup: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown: %v", err)
			}
		})
	}
}

func TestSetupNoopShutdownIgnoresCancelledContext(t *testing.T) {
	t.Setenv("IMPROV_SHOW_OTEL_ENDPOINT", "")
	t.Setenv("IMPROV_SHOW_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "improv-test")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown returned error: %v", err)
	}
}
