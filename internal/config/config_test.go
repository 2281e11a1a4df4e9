package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gazecap/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatalf("expected missing config, got exists=true at %s", path)
	}
	if cfg.Capture.CountdownTicks != 3 {
		t.Fatalf("expected default countdown_ticks 3, got %d", cfg.Capture.CountdownTicks)
	}
	if cfg.Cameras.Lifecycle != config.LifecyclePerCapture {
		t.Fatalf("expected default lifecycle, got %q", cfg.Cameras.Lifecycle)
	}
	if !filepath.IsAbs(cfg.Paths.CaptureDir) {
		t.Fatalf("expected absolute capture dir, got %q", cfg.Paths.CaptureDir)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		"data_dir = \"" + filepath.Join(dir, "data") + "\"",
		"capture_dir = \"" + filepath.Join(dir, "captures") + "\"",
		"log_dir = \"" + filepath.Join(dir, "logs") + "\"",
		"[cameras]",
		"lifecycle = \"Persistent\"",
		"[session]",
		"repeat_count = 5",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Cameras.Lifecycle != config.LifecyclePersistent {
		t.Fatalf("expected normalized lifecycle, got %q", cfg.Cameras.Lifecycle)
	}
	if cfg.Session.RepeatCount != 5 {
		t.Fatalf("expected repeat_count 5, got %d", cfg.Session.RepeatCount)
	}
	if cfg.Session.InterPointDelayMs != 2000 {
		t.Fatalf("expected default inter-point delay, got %d", cfg.Session.InterPointDelayMs)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad screen source", func(c *config.Config) { c.Capture.ScreenSource = "webcam" }},
		{"bad lifecycle", func(c *config.Config) { c.Cameras.Lifecycle = "sometimes" }},
		{"duplicate devices", func(c *config.Config) {
			c.Cameras.MainDevice = "/dev/video0"
			c.Cameras.SecondaryDevice = "/dev/video0"
		}},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.CaptureDir = filepath.Join(dir, "captures")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, p := range []string{cfg.Paths.DataDir, cfg.Paths.CaptureDir, cfg.Paths.LogDir} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory at %s", p)
		}
	}
}
