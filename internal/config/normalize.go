package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCapture()
	c.normalizeSession()
	c.normalizeCameras()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = ExpandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CaptureDir) == "" {
		c.Paths.CaptureDir = defaultCaptureDir
	}
	if c.Paths.CaptureDir, err = ExpandPath(c.Paths.CaptureDir); err != nil {
		return fmt.Errorf("paths.capture_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCapture() {
	if c.Capture.CountdownTicks <= 0 {
		c.Capture.CountdownTicks = defaultCountdownTicks
	}
	if c.Capture.CountdownTickMs <= 0 {
		c.Capture.CountdownTickMs = defaultCountdownTickMs
	}
	if c.Capture.CaptureFlashMs <= 0 {
		c.Capture.CaptureFlashMs = defaultCaptureFlashMs
	}
	if c.Capture.RedrawIntervalMs <= 0 {
		c.Capture.RedrawIntervalMs = defaultRedrawIntervalMs
	}
	if c.Capture.StimulusRadius <= 0 {
		c.Capture.StimulusRadius = defaultStimulusRadius
	}
	if c.Capture.CameraWarmupTimeoutMs <= 0 {
		c.Capture.CameraWarmupTimeoutMs = defaultCameraWarmupTimeoutMs
	}
	c.Capture.ScreenSource = strings.ToLower(strings.TrimSpace(c.Capture.ScreenSource))
	if c.Capture.ScreenSource == "" {
		c.Capture.ScreenSource = defaultScreenSource
	}
	if c.Capture.DisplayIndex < 0 {
		c.Capture.DisplayIndex = 0
	}
}

func (c *Config) normalizeSession() {
	if c.Session.RepeatCount <= 0 {
		c.Session.RepeatCount = defaultRepeatCount
	}
	if c.Session.InterPointDelayMs < 0 {
		c.Session.InterPointDelayMs = defaultInterPointDelayMs
	}
}

func (c *Config) normalizeCameras() {
	c.Cameras.MainDevice = strings.TrimSpace(c.Cameras.MainDevice)
	c.Cameras.SecondaryDevice = strings.TrimSpace(c.Cameras.SecondaryDevice)
	c.Cameras.Lifecycle = strings.ToLower(strings.TrimSpace(c.Cameras.Lifecycle))
	if c.Cameras.Lifecycle == "" {
		c.Cameras.Lifecycle = defaultLifecycle
	}
	if c.Cameras.PreviewWidth <= 0 {
		c.Cameras.PreviewWidth = defaultPreviewWidth
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
