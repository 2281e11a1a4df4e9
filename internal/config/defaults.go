package config

const (
	defaultDataDir               = "~/.local/share/gazecap"
	defaultCaptureDir            = "~/.local/share/gazecap/captures"
	defaultLogDir                = "~/.local/share/gazecap/logs"
	defaultCountdownTicks        = 3
	defaultCountdownTickMs       = 1000
	defaultCaptureFlashMs        = 300
	defaultRedrawIntervalMs      = 50
	defaultStimulusRadius        = 12
	defaultCameraWarmupTimeoutMs = 1000
	defaultScreenSource          = ScreenSourceSurface
	defaultRepeatCount           = 1
	defaultInterPointDelayMs     = 2000
	defaultMainDevice            = "/dev/video0"
	defaultLifecycle             = LifecyclePerCapture
	defaultPreviewWidth          = 320
	defaultNtfyRequestTimeout    = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			CaptureDir: defaultCaptureDir,
			LogDir:     defaultLogDir,
		},
		Capture: Capture{
			CountdownTicks:        defaultCountdownTicks,
			CountdownTickMs:       defaultCountdownTickMs,
			CaptureFlashMs:        defaultCaptureFlashMs,
			RedrawIntervalMs:      defaultRedrawIntervalMs,
			StimulusRadius:        defaultStimulusRadius,
			CameraWarmupTimeoutMs: defaultCameraWarmupTimeoutMs,
			ScreenSource:          defaultScreenSource,
		},
		Session: Session{
			RepeatCount:       defaultRepeatCount,
			InterPointDelayMs: defaultInterPointDelayMs,
		},
		Cameras: Cameras{
			MainDevice:   defaultMainDevice,
			Lifecycle:    defaultLifecycle,
			PreviewWidth: defaultPreviewWidth,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			Sessions:       true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
