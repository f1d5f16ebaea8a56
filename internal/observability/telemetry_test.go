package observability

import (
	"context"
	"testing"
)

func TestSetupTelemetry_DisabledIsNoop(t *testing.T) {
	shutdown, err := SetupTelemetry(context.Background(), &TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("SetupTelemetry() error = %v", err)
	}

	if shutdown == nil {
		t.Fatal("SetupTelemetry() shutdown should not be nil")
	}

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown() error = %v", err)
	}
}

func TestSetupTelemetry_NilConfigIsNoop(t *testing.T) {
	shutdown, err := SetupTelemetry(context.Background(), nil)
	if err != nil {
		t.Fatalf("SetupTelemetry() error = %v", err)
	}

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown() error = %v", err)
	}
}

func TestIsTelemetryEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"1", true},
		{"true", true},
		{"YES", true},
		{" true ", true},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			t.Setenv("OTEL_ENABLED", tt.value)

			if got := IsTelemetryEnabled(); got != tt.want {
				t.Errorf("IsTelemetryEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunResource_Defaults(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_ENVIRONMENT", "")

	res, err := runResource(&TelemetryConfig{Version: "1.2.3", Commit: "abc1234"})
	if err != nil {
		t.Fatalf("runResource() error = %v", err)
	}

	got := map[string]string{}
	for _, attr := range res.Attributes() {
		got[string(attr.Key)] = attr.Value.AsString()
	}

	if got["service.name"] != "vizdash" {
		t.Errorf("service.name = %q, want vizdash", got["service.name"])
	}

	if got["service.namespace"] != "vizual" {
		t.Errorf("service.namespace = %q, want vizual", got["service.namespace"])
	}

	if got["service.commit"] != "abc1234" {
		t.Errorf("service.commit = %q", got["service.commit"])
	}
}

func TestRunResource_EnvOverrides(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "vizdash-staging")
	t.Setenv("OTEL_ENVIRONMENT", "staging")

	res, err := runResource(&TelemetryConfig{Version: "1.2.3"})
	if err != nil {
		t.Fatalf("runResource() error = %v", err)
	}

	got := map[string]string{}
	for _, attr := range res.Attributes() {
		got[string(attr.Key)] = attr.Value.AsString()
	}

	if got["service.name"] != "vizdash-staging" {
		t.Errorf("service.name = %q, want env override", got["service.name"])
	}

	if got["deployment.environment"] != "staging" {
		t.Errorf("deployment.environment = %q, want staging", got["deployment.environment"])
	}
}

func TestTracer_ReturnsNamedTracer(t *testing.T) {
	if Tracer("vizdash/test") == nil {
		t.Fatal("Tracer() returned nil")
	}
}
