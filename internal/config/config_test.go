package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	input := `
backend:
  url: http://gpu-box:8000
  timeout: 90s
brush:
  max: 80
defaults:
  steps: 30
  guidance_scale: 7.5
save_dir: /tmp/results
theme: high_contrast
notify:
  complete: true
  copy: true
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Backend.URL != "http://gpu-box:8000" {
		t.Errorf("Expected backend url 'http://gpu-box:8000', got '%s'", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 90*time.Second {
		t.Errorf("Expected timeout 90s, got %v", cfg.Backend.Timeout)
	}
	if cfg.Brush.Max != 80 || cfg.Brush.Min != 5 {
		t.Errorf("Unexpected brush range: %+v", cfg.Brush)
	}
	if cfg.Defaults.Steps != 30 || cfg.Defaults.GuidanceScale != 7.5 {
		t.Errorf("Unexpected defaults: %+v", cfg.Defaults)
	}
	if cfg.Defaults.Strength != 0.99 {
		t.Errorf("Expected default strength 0.99, got %v", cfg.Defaults.Strength)
	}
	if cfg.SaveDir != "/tmp/results" {
		t.Errorf("Expected save_dir '/tmp/results', got '%s'", cfg.SaveDir)
	}
	if cfg.Theme != "high_contrast" {
		t.Errorf("Expected theme 'high_contrast', got '%s'", cfg.Theme)
	}
	if !cfg.Notify.Complete || cfg.Notify.Save || !cfg.Notify.Copy {
		t.Errorf("Unexpected notify settings: %+v", cfg.Notify)
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	if _, err := Parse(strings.NewReader("backend: [unclosed")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MASKSTUDIO_BACKEND_URL", "http://env:9000")
	t.Setenv("MASKSTUDIO_DEFAULTS_STEPS", "12")
	cfg, err := Parse(strings.NewReader("backend:\n  url: http://file:8000\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Backend.URL != "http://env:9000" {
		t.Errorf("env should win over file, got %q", cfg.Backend.URL)
	}
	if cfg.Defaults.Steps != 12 {
		t.Errorf("Expected steps 12, got %d", cfg.Defaults.Steps)
	}
}

func TestCircular(t *testing.T) {
	cfg := New()
	cfg.Backend.URL = "http://example:8000"
	cfg.Backend.Timeout = 45 * time.Second
	cfg.SaveDir = "/home/user/art"
	cfg.Notify.Save = true
	cfg.Defaults.NegativePrompt = "text, watermark"

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}
	if *cfg != *cfg2 {
		t.Errorf("Config mismatch:\n%+v\n%+v", cfg, cfg2)
	}
}

func TestLoaderPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	l := NewLoader("v1.0.0", "")
	if got := l.GetConfigPath(); got != "" {
		t.Fatalf("expected no config, got %q", got)
	}
	if got, want := l.SavePath(), filepath.Join(dir, "maskstudio", "config.yaml"); got != want {
		t.Fatalf("SavePath = %q, want %q", got, want)
	}

	xdg := filepath.Join(dir, "maskstudio", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(xdg), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xdg, []byte("log:\n  mode: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := l.GetConfigPath(); got != xdg {
		t.Fatalf("expected xdg path, got %q", got)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Mode != "debug" {
		t.Errorf("Expected log mode debug, got %q", cfg.Log.Mode)
	}

	override := filepath.Join(dir, "other.yaml")
	if err := os.WriteFile(override, []byte("log:\n  mode: quiet\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l.OverridePath = override
	if got := l.GetConfigPath(); got != override {
		t.Fatalf("expected override, got %q", got)
	}
}
