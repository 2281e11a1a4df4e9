package testsupport

import (
	"path/filepath"
	"testing"

	"gazecap/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.CaptureDir = filepath.Join(base, "captures")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRepeatCount overrides the default session repeat count.
func WithRepeatCount(count int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Session.RepeatCount = count
	}
}

// WithMainCamera overrides the main camera device path.
func WithMainCamera(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cameras.MainDevice = path
	}
}

// WithCameraLifecycle overrides the camera pipeline lifecycle.
func WithCameraLifecycle(lifecycle string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cameras.Lifecycle = lifecycle
	}
}
