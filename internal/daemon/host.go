package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/kbinani/screenshot"

	"gazecap/internal/camera"
	"gazecap/internal/config"
	"gazecap/internal/logging"
)

// Fallback presentation size when no display can be detected (headless test
// rigs, CI).
const (
	fallbackViewportWidth  = 1920
	fallbackViewportHeight = 1080
)

// displayHost backs the surface manager with the machine's physical display.
// Chrome suppression is a no-op at daemon level; a UI front end attaches its
// own host over IPC-driven status updates.
type displayHost struct {
	index  int
	logger *slog.Logger
}

func newDisplayHost(cfg *config.Config, logger *slog.Logger) *displayHost {
	return &displayHost{
		index:  cfg.Capture.DisplayIndex,
		logger: logging.NewComponentLogger(logger, "display-host"),
	}
}

func (h *displayHost) ViewportSize() (int, int) {
	if n := screenshot.NumActiveDisplays(); n > 0 && h.index < n {
		bounds := screenshot.GetDisplayBounds(h.index)
		return bounds.Dx(), bounds.Dy()
	}
	return fallbackViewportWidth, fallbackViewportHeight
}

func (h *displayHost) HostSize() (int, int) {
	return h.ViewportSize()
}

func (h *displayHost) SuppressChrome() {
	h.logger.Debug("chrome suppressed")
}

func (h *displayHost) RestoreChrome() {
	h.logger.Debug("chrome restored")
}

// newSourceBinder builds the default camera binder from the configured
// devices. Each camera negotiates its resolution independently; a camera that
// cannot be bound is skipped with a warning so the session degrades instead
// of failing.
func newSourceBinder(cfg *config.Config, logger *slog.Logger) SourceBinder {
	logger = logging.NewComponentLogger(logger, "camera-binder")
	prober := &camera.GstProber{Logger: logger}
	persistent := cfg.Cameras.Lifecycle == config.LifecyclePersistent
	warmup := time.Duration(cfg.Capture.CameraWarmupTimeoutMs) * time.Millisecond

	bindings := []struct {
		path string
		role camera.Role
	}{
		{cfg.Cameras.MainDevice, camera.RoleMain},
		{cfg.Cameras.SecondaryDevice, camera.RoleSecondary},
	}

	return func(ctx context.Context) []camera.Source {
		var sources []camera.Source
		for _, binding := range bindings {
			if binding.path == "" {
				continue
			}

			dev, err := camera.QueryDevice(binding.path)
			if err != nil {
				logger.Warn("camera capability query failed; relying on probe",
					logging.Error(err),
					logging.String("device", binding.path),
				)
				dev = camera.Device{Path: binding.path}
			}

			probeCtx, cancel := context.WithTimeout(ctx, warmup)
			width, height, err := camera.Negotiate(probeCtx, dev, prober)
			cancel()
			if err != nil {
				logger.Warn("camera negotiation failed; skipping device",
					logging.Error(err),
					logging.String("device", binding.path),
					logging.String(logging.FieldCameraRole, string(binding.role)),
					logging.String(logging.FieldImpact, "captures will omit this camera"),
				)
				continue
			}

			source, err := camera.NewGstSource(camera.GstSourceConfig{
				DevicePath: binding.path,
				Role:       binding.role,
				Width:      width,
				Height:     height,
				Persistent: persistent,
				Logger:     logger,
			})
			if err != nil {
				logger.Warn("camera bind failed; skipping device",
					logging.Error(err),
					logging.String("device", binding.path),
				)
				continue
			}
			logger.Info("camera bound",
				logging.String("device", binding.path),
				logging.String(logging.FieldCameraRole, string(binding.role)),
				logging.Int("width", width),
				logging.Int("height", height),
			)
			sources = append(sources, source)
		}
		return sources
	}
}
