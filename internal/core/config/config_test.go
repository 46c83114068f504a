package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil", err)
	}

	want := DefaultServerConfig()
	if cfg.Host != want.Host {
		t.Errorf("Host = %q, want %q", cfg.Host, want.Host)
	}
	if cfg.Port != want.Port {
		t.Errorf("Port = %d, want %d", cfg.Port, want.Port)
	}
	if cfg.RequestTimeout != want.RequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, want.RequestTimeout)
	}
	if cfg.ForecastDays != want.ForecastDays {
		t.Errorf("ForecastDays = %d, want %d", cfg.ForecastDays, want.ForecastDays)
	}
	if cfg.TargetACOS != want.TargetACOS {
		t.Errorf("TargetACOS = %v, want %v", cfg.TargetACOS, want.TargetACOS)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	content := `
server:
  host: "127.0.0.1"
  port: 9090
  request_timeout: "10s"
  forecast_days: 30
  target_acos: 25
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil", err)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want 127.0.0.1", cfg.Host)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.ForecastDays != 30 {
		t.Errorf("ForecastDays = %d, want 30", cfg.ForecastDays)
	}
	if cfg.TargetACOS != 25 {
		t.Errorf("TargetACOS = %v, want 25", cfg.TargetACOS)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Fatal("LoadConfig() error = nil, want read failure")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "port out of range", content: "server:\n  port: 70000\n"},
		{name: "negative port", content: "server:\n  port: -1\n"},
		{name: "zero timeout", content: "server:\n  request_timeout: \"0s\"\n"},
		{name: "negative rate limit", content: "server:\n  rate_limit_rps: -5\n"},
		{name: "zero forecast days", content: "server:\n  forecast_days: 0\n"},
		{name: "zero target acos", content: "server:\n  target_acos: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("LoadConfig() error = nil, want validation failure")
			}
		})
	}
}
