package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	CaptureDir string `toml:"capture_dir"`
	LogDir     string `toml:"log_dir"`
}

// Capture contains timing and rendering settings for the capture engine.
type Capture struct {
	// CountdownTicks is the number of visible countdown steps before capture.
	CountdownTicks int `toml:"countdown_ticks"`
	// CountdownTickMs is the interval between countdown steps.
	CountdownTickMs int `toml:"countdown_tick_ms"`
	// CaptureFlashMs is how long the captured indicator stays visible.
	CaptureFlashMs int `toml:"capture_flash_ms"`
	// RedrawIntervalMs bounds the render-on-tick loop that keeps the
	// stimulus visible while presenting.
	RedrawIntervalMs int `toml:"redraw_interval_ms"`
	// StimulusRadius is the dot radius in pixels.
	StimulusRadius int `toml:"stimulus_radius"`
	// CameraWarmupTimeoutMs bounds the wait for a camera's first frame
	// before the source is skipped for that point.
	CameraWarmupTimeoutMs int `toml:"camera_warmup_timeout_ms"`
	// ScreenSource selects surface readback ("surface") or a whole-display
	// grab ("display").
	ScreenSource string `toml:"screen_source"`
	// DisplayIndex selects the display for screen_source = "display".
	DisplayIndex int `toml:"display_index"`
}

// Session contains default session settings applied when no per-user
// override exists.
type Session struct {
	RepeatCount       int `toml:"repeat_count"`
	InterPointDelayMs int `toml:"inter_point_delay_ms"`
}

// Cameras contains camera binding configuration.
type Cameras struct {
	// MainDevice and SecondaryDevice are V4L2 device paths (e.g. /dev/video0).
	// Empty secondary disables the second source.
	MainDevice      string `toml:"main_device"`
	SecondaryDevice string `toml:"secondary_device"`
	// Lifecycle selects "per_capture" (open, grab, close) or "persistent"
	// (feed stays live, snapshots read from the open stream).
	Lifecycle string `toml:"lifecycle"`
	// PreviewWidth is the width of the low-resolution preview variant.
	PreviewWidth int `toml:"preview_width"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Sessions       bool   `toml:"sessions"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for gazecap.
//
// Sections by subsystem:
//   - Paths: data, capture artifact, and log directories
//   - Capture: countdown, redraw, and camera timing
//   - Session: default repeat count and inter-point delay
//   - Cameras: device bindings and stream lifecycle
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Capture       Capture       `toml:"capture"`
	Session       Session       `toml:"session"`
	Cameras       Cameras       `toml:"cameras"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// ScreenSourceSurface reads the stimulus surface pixels back directly.
const ScreenSourceSurface = "surface"

// ScreenSourceDisplay grabs the physical display instead.
const ScreenSourceDisplay = "display"

// LifecyclePerCapture opens each camera only for the duration of one grab.
const LifecyclePerCapture = "per_capture"

// LifecyclePersistent keeps camera feeds live across the whole session.
const LifecyclePersistent = "persistent"

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/gazecap/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("gazecap.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon needs at runtime.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.CaptureDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SocketPath returns the daemon control socket location.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.DataDir, "gazecapd.sock")
}

// LockPath returns the daemon single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "gazecapd.lock")
}

// WriteSample writes the embedded sample configuration to the given path.
func WriteSample(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves ~ prefixes and makes the path absolute.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", trimmed, err)
	}
	return abs, nil
}
