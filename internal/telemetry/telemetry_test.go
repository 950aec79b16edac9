package telemetry

import "testing"

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("B_OTEL_ENABLED", "true")
	t.Setenv("B_OTEL_STDOUT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	s := settingsFromEnv()
	if !s.enabled || s.stdout {
		t.Errorf("settings = %+v, want enabled without stdout", s)
	}
	if s.endpoint != "collector:4318" {
		t.Errorf("endpoint = %q, want shared endpoint", s.endpoint)
	}

	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "metrics:4318")
	if got := settingsFromEnv().endpoint; got != "metrics:4318" {
		t.Errorf("endpoint = %q, want metrics endpoint to win", got)
	}
}

func TestEnabledRequiresExactTrue(t *testing.T) {
	for _, v := range []string{"", "1", "TRUE", "yes"} {
		t.Setenv("B_OTEL_ENABLED", v)
		if Enabled() {
			t.Errorf("Enabled() with B_OTEL_ENABLED=%q = true", v)
		}
	}
}

func TestParseOTLPEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want otlpTarget
	}{
		{"collector:4318", otlpTarget{endpoint: "collector:4318", insecure: true}},
		{"localhost", otlpTarget{endpoint: "localhost", insecure: true}},
		{"http://collector:4318/v1/metrics", otlpTarget{endpoint: "http://collector:4318/v1/metrics", isURL: true, insecure: true}},
		{"https://otel.example.com", otlpTarget{endpoint: "https://otel.example.com", isURL: true}},
	}
	for _, tt := range tests {
		if got := parseOTLPEndpoint(tt.in); got != tt.want {
			t.Errorf("parseOTLPEndpoint(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		wantOpts := 1
		if tt.want.insecure {
			wantOpts = 2
		}
		if n := len(tt.want.options()); n != wantOpts {
			t.Errorf("%q: %d exporter options, want %d", tt.in, n, wantOpts)
		}
	}
}
