package models

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig(\"\") = %+v, want defaults", cfg)
	}
	if cfg.TimeoutDuration() != 10*time.Second || cfg.WaitDuration() != 4*time.Second {
		t.Errorf("durations = %v, %v, want 10s, 4s", cfg.TimeoutDuration(), cfg.WaitDuration())
	}
}

func TestLoadConfig_FileOverridesSomeKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "wait_time: 1\nprepare_edges: true\nuser_agent: test-agent\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.WaitTime != 1 || !cfg.PrepareEdges || cfg.UserAgent != "test-agent" {
		t.Errorf("LoadConfig() = %+v, want overridden keys", cfg)
	}
	if cfg.Timeout != 10 || cfg.MaxRetries != 3 || cfg.RetryDelay != 5 {
		t.Errorf("LoadConfig() = %+v, want defaults for missing keys", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "timeout: [", "failed to parse config"},
		{"zero timeout", "timeout: 0", "timeout must be positive"},
		{"negative wait", "wait_time: -1", "wait_time must not be negative"},
		{"cache without ttl", "cache_dir: /tmp/x\ncache_ttl: 0", "cache_ttl must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfig() on a missing file returned nil error")
	}
}

func TestPlaceholderUser(t *testing.T) {
	u := PlaceholderUser("nonexistent_channel")
	if len(u) != 2 || u.String("name") != "nonexistent_channel" || u.String("handle") != "nonexistent_channel" {
		t.Errorf("PlaceholderUser() = %v", u)
	}
}
