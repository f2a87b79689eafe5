package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BackendURL != "http://localhost:5000" {
		t.Errorf("expected default backend_url, got %q", cfg.BackendURL)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Timeout() != 0 {
		t.Errorf("expected no default timeout, got %v", cfg.Timeout())
	}
	if cfg.HighlightStyle != "github" {
		t.Errorf("expected default highlight_style %q, got %q", "github", cfg.HighlightStyle)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.specstudio.yml")

	original := DefaultConfig()
	original.BackendURL = "https://gen.example.com"
	original.TimeoutSeconds = 30
	original.Port = 9090
	original.AllowAllOrigins = true
	original.SanitizeFlowcharts = true
	original.CodegenDir = "out"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.BackendURL != original.BackendURL {
		t.Errorf("backend_url: got %q, want %q", loaded.BackendURL, original.BackendURL)
	}
	if loaded.Timeout() != 30*time.Second {
		t.Errorf("timeout: got %v, want 30s", loaded.Timeout())
	}
	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if !loaded.AllowAllOrigins {
		t.Error("allow_all_origins: got false, want true")
	}
	if !loaded.SanitizeFlowcharts {
		t.Error("sanitize_flowcharts: got false, want true")
	}
	if loaded.CodegenDir != original.CodegenDir {
		t.Errorf("codegen_dir: got %q, want %q", loaded.CodegenDir, original.CodegenDir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("SPECSTUDIO_BACKEND_URL", "http://backend:7000")
	t.Setenv("SPECSTUDIO_PORT", "3000")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.BackendURL != "http://backend:7000" {
		t.Errorf("env override failed: got %q", loaded.BackendURL)
	}
	if loaded.Port != 3000 {
		t.Errorf("env override failed: got port %d, want 3000", loaded.Port)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(path, []byte("port: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty backend", func(c *Config) { c.BackendURL = "" }},
		{"backend without scheme", func(c *Config) { c.BackendURL = "localhost:5000" }},
		{"backend ftp scheme", func(c *Config) { c.BackendURL = "ftp://host" }},
		{"negative timeout", func(c *Config) { c.TimeoutSeconds = -1 }},
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"no sessions", func(c *Config) { c.MaxSessions = 0 }},
		{"empty style", func(c *Config) { c.HighlightStyle = "" }},
		{"empty codegen dir", func(c *Config) { c.CodegenDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	for _, s := range []string{"1", "8080", "65535"} {
		if err := validatePort(s); err != nil {
			t.Errorf("validatePort(%q) = %v, want nil", s, err)
		}
	}
	for _, s := range []string{"", "0", "abc", "65536"} {
		if err := validatePort(s); err == nil {
			t.Errorf("validatePort(%q) = nil, want error", s)
		}
	}
}
