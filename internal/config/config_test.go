package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Analysis.TopN != 10 || cfg.Analysis.Window != time.Hour {
		t.Errorf("Analysis = %+v", cfg.Analysis)
	}
	if cfg.Detector != DefaultDetector {
		t.Errorf("Detector = %+v, want %+v", cfg.Detector, DefaultDetector)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
analysis:
  top_n: 5
  window: 30m
detector:
  block_duration: 10m
output:
  color: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Analysis.TopN != 5 || cfg.Analysis.Window != 30*time.Minute {
		t.Errorf("Analysis = %+v", cfg.Analysis)
	}
	if cfg.Detector.BlockDuration != 10*time.Minute {
		t.Errorf("BlockDuration = %v, want 10m", cfg.Detector.BlockDuration)
	}
	// Unset keys keep their defaults
	if cfg.Detector.BurstGap != 20*time.Second || cfg.Detector.FailureStatus != 401 {
		t.Errorf("Detector = %+v", cfg.Detector)
	}
	if cfg.Output.Color || cfg.Output.LogLevel != "info" {
		t.Errorf("Output = %+v", cfg.Output)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "analysis: [unclosed"},
		{"zero top", "analysis:\n  top_n: 0\n"},
		{"zero window", "analysis:\n  window: 0s\n"},
		{"bad duration", "analysis:\n  window: soon\n"},
		{"single attempt", "detector:\n  burst_attempts: 1\n"},
		{"negative gap", "detector:\n  burst_gap: -1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestStatusGroup(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{200, "success"},
		{304, "redirect"},
		{401, "client_error"},
		{503, "server_error"},
		{0, "other"},
	}
	for _, tt := range tests {
		if got := StatusGroup(tt.status); got != tt.want {
			t.Errorf("StatusGroup(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
